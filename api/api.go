// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/xylabs/xl1-ledger/api/chain"
	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/api/middleware"
	"github.com/xylabs/xl1-ledger/api/rewards"
	"github.com/xylabs/xl1-ledger/api/staking"
	"github.com/xylabs/xl1-ledger/api/subscriptions"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint64
	EventsLimit          uint64
	RewardCacheSize      int
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
}

// New return api router
func New(l *ledger.Ledger, opts Options) (http.HandlerFunc, func(), error) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	staking.New(l).
		Mount(router, "/staking")
	rw, err := rewards.New(l, opts.RewardCacheSize)
	if err != nil {
		return nil, nil, err
	}
	rw.Mount(router, "/rewards")
	chain.New(l).
		Mount(router, "/chain")

	closeFn := func() {}
	if l.EventLog() != nil {
		events.New(l.EventLog(), opts.EventsLimit).
			Mount(router, "/events")
		subs := subscriptions.New(l, origins, opts.BacktraceLimit)
		subs.Mount(router, "/subscriptions")
		// subscriptions handle hijacked conns, which need to be closed
		closeFn = subs.Close
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP, closeFn, nil
}
