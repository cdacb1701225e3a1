// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/xylabs/xl1-ledger/api/admin/apilogs"
	healthAPI "github.com/xylabs/xl1-ledger/api/admin/health"
	"github.com/xylabs/xl1-ledger/api/admin/loglevel"
	"github.com/xylabs/xl1-ledger/health"
)

// New returns the admin handler serving log controls and ledger health under /admin.
func New(logLevel *slog.LevelVar, healthStatus *health.Health, apiLogs *atomic.Bool) http.HandlerFunc {
	router := mux.NewRouter()

	loglevel.New(logLevel).Mount(router, "/admin/loglevel")
	apilogs.New(apiLogs).Mount(router, "/admin/apilogs")
	healthAPI.NewAPI(healthStatus).Mount(router, "/admin/health")

	handler := handlers.CompressHandler(router)
	return handler.ServeHTTP
}
