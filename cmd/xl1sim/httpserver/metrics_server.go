// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/xylabs/xl1-ledger/metrics"
)

func StartMetricsServer(addr string) (string, func(), error) {
	listener, err := listen("metrics API", addr)
	if err != nil {
		return "", nil, err
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	stop := serve("metrics", listener, handlers.CompressHandler(router))
	return "http://" + listener.Addr().String() + "/metrics", stop, nil
}
