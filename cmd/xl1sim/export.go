// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/eventlog"
)

func exportAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	l, s, _, err := openLedger(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	path := ctx.String(outFlag.Name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create [%v]", path)
	}
	defer f.Close()

	n, err := exportEvents(context.Background(), l.EventLog(), f)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	logger.Info("events exported", "count", n, "file", path)
	return nil
}

// exportEvents writes every recorded event as one JSON object per line through
// a snappy framed stream.
func exportEvents(ctx context.Context, el *eventlog.EventLog, w io.Writer) (int, error) {
	if el == nil {
		return 0, errors.New("events are not recorded")
	}
	zw := snappy.NewBufferedWriter(w)
	enc := json.NewEncoder(zw)

	var n int
	err := eachEvent(ctx, el, func(ev *eventlog.Event) error {
		n++
		return enc.Encode(events.ConvertEvent(ev))
	})
	if err != nil {
		zw.Close()
		return n, err
	}
	return n, zw.Close()
}
