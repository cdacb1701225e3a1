// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/api"
	"github.com/xylabs/xl1-ledger/ledger"
)

// StartAPIServer serves the ledger API on addr. The returned func stops the
// server and closes open subscriptions.
func StartAPIServer(addr string, l *ledger.Ledger, opts api.Options) (string, func(), error) {
	handler, closeAPI, err := api.New(l, opts)
	if err != nil {
		return "", nil, errors.Wrap(err, "create API handler")
	}

	listener, err := listen("API", addr)
	if err != nil {
		closeAPI()
		return "", nil, err
	}
	stop := serve("api", listener, handler)
	return "http://" + listener.Addr().String() + "/", func() {
		closeAPI()
		stop()
	}, nil
}
