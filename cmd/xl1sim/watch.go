// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"net/url"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/xl1client"
	"github.com/xylabs/xl1-ledger/xl1client/common"
)

func watchAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	client, err := xl1client.NewWithWS(ctx.String(apiURLFlag.Name))
	if err != nil {
		return err
	}

	q := url.Values{}
	for _, f := range []cli.StringFlag{posFlag, eventNameFlag, stakerFilterFlag, stakedFilterFlag} {
		if v := ctx.String(f.Name); v != "" {
			q.Set(f.Name, v)
		}
	}
	sub, err := client.SubscribeEvents(q.Encode())
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	logger.Info("watching events", "url", ctx.String(apiURLFlag.Name), "query", q.Encode())

	return watch(os.Stdout, sub, handleExitSignal())
}

// watch prints events until the subscription ends or stop fires.
func watch(w io.Writer, sub *common.Subscription[*events.FilteredEvent], stop <-chan os.Signal) error {
	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-sub.EventChan:
			if !ok {
				return nil
			}
			if ev.Error != nil {
				return errors.Wrap(ev.Error, "subscription")
			}
			printEvent(w, ev.Data)
		}
	}
}

func printEvent(w io.Writer, ev *events.FilteredEvent) {
	fmt.Fprintf(w, "#%d block=%d %s staker=%s staked=%s", ev.Seq, ev.BlockNumber, ev.Name, ev.Staker, ev.Staked)
	if ev.StakeID != nil {
		fmt.Fprintf(w, " id=%d", *ev.StakeID)
	}
	if ev.Amount != nil {
		fmt.Fprintf(w, " amount=%s", (*big.Int)(ev.Amount))
	}
	fmt.Fprintln(w)
}
