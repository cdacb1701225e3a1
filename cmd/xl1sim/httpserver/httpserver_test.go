// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/api"
	"github.com/xylabs/xl1-ledger/health"
	"github.com/xylabs/xl1-ledger/log"
	"github.com/xylabs/xl1-ledger/metrics"
	"github.com/xylabs/xl1-ledger/test/testledger"
)

func get(t *testing.T, url string) (int, string) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestStartAPIServer(t *testing.T) {
	l, err := testledger.NewDefault()
	require.NoError(t, err)
	defer l.Close()

	url, stop, err := StartAPIServer("localhost:0", l.Ledger, api.Options{
		BacktraceLimit:  100,
		EventsLimit:     100,
		RewardCacheSize: 16,
	})
	require.NoError(t, err)
	defer stop()

	code, body := get(t, url+"staking/totals")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "active")

	code, _ = get(t, url+"chain")
	assert.Equal(t, http.StatusOK, code)
}

func TestStartAPIServerBadAddr(t *testing.T) {
	l, err := testledger.NewDefault()
	require.NoError(t, err)
	defer l.Close()

	_, _, err = StartAPIServer("256.0.0.1:x", l.Ledger, api.Options{RewardCacheSize: 16})
	assert.Error(t, err)
}

func TestStartAdminServer(t *testing.T) {
	lvl := &slog.LevelVar{}
	lvl.Set(log.LevelInfo)
	var apiLogs atomic.Bool

	url, stop, err := StartAdminServer("localhost:0", lvl, health.New(), &apiLogs)
	require.NoError(t, err)
	defer stop()

	res, err := http.Post(url+"/loglevel", "application/json", strings.NewReader(`{"level":"debug"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, log.LevelDebug, lvl.Level())

	res, err = http.Post(url+"/apilogs", "application/json", strings.NewReader(`{"enabled":true}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, apiLogs.Load())

	code, body := get(t, url+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"healthy":true`)
}

func TestStartMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(1)

	url, stop, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer stop()

	code, body := get(t, url)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "xl1_httpserver_test_count 1")
}
