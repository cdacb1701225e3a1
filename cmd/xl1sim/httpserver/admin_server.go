// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"sync/atomic"

	"github.com/xylabs/xl1-ledger/api/admin"
	"github.com/xylabs/xl1-ledger/health"
)

// StartAdminServer serves the runtime controls and the health report.
func StartAdminServer(addr string, logLevel *slog.LevelVar, healthStatus *health.Health, apiLogs *atomic.Bool) (string, func(), error) {
	listener, err := listen("admin API", addr)
	if err != nil {
		return "", nil, err
	}
	stop := serve("admin", listener, admin.New(logLevel, healthStatus, apiLogs))
	return "http://" + listener.Addr().String() + "/admin", stop, nil
}
