// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/co"
	"github.com/xylabs/xl1-ledger/log"
)

var logger = log.WithContext("pkg", "httpserver")

// serve runs handler on listener until the returned func is called.
func serve(name string, listener net.Listener, handler http.Handler) (stop func()) {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	var goes co.Goes
	goes.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	logger.Debug("server started", "name", name, "addr", listener.Addr())

	return func() {
		srv.Close()
		if err := goes.Wait(); err != nil {
			logger.Warn("server stopped with error", "name", name, "err", err)
		}
	}
}

func listen(name, addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	return listener, nil
}
