// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/xylabs/xl1-ledger/api"
	"github.com/xylabs/xl1-ledger/builtin/rewards"
	"github.com/xylabs/xl1-ledger/builtin/staker/stakes"
	"github.com/xylabs/xl1-ledger/cmd/xl1sim/httpserver"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/log"
	"github.com/xylabs/xl1-ledger/metrics"
	"github.com/xylabs/xl1-ledger/xl1"
)

var logger = log.WithContext("pkg", "xl1sim")

func runAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return errors.New("scenario file required")
	}
	sc, err := LoadScenario(ctx.Args().First())
	if err != nil {
		return err
	}

	l, s, gen, err := openLedger(ctx, ctx.Bool(persistFlag.Name))
	if err != nil {
		return err
	}
	defer s.Close()

	runner, err := NewRunner(l, xl1.Address(gen.Owner), sc)
	if err != nil {
		return err
	}

	bar := pb.New64(int64(len(sc.Steps))).
		SetMaxWidth(90).
		Start()
	results, err := runner.Run(sc, func(int) { bar.Increment() })
	bar.Finish()
	if err != nil {
		return err
	}

	rejected := 0
	for _, r := range results {
		if r.Rejected {
			rejected++
			logger.Debug("step rejected", "index", r.Index, "op", r.Op, "err", r.Err)
		}
	}
	logger.Info("scenario completed", "steps", len(results), "rejected", rejected, "block", l.CurrentBlock(), "dir", s.dir)
	return printSummary(os.Stdout, l, runner.Accounts())
}

func printSummary(w io.Writer, l *ledger.Ledger, accounts map[string]xl1.Address) error {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	return l.View(func(v *ledger.View) error {
		totals, err := v.Staker.Totals()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "block   %d\n", v.Block)
		printTotals(w, "global", totals)

		for _, name := range names {
			byStaker, err := v.Staker.TotalsByStaker(accounts[name])
			if err != nil {
				return err
			}
			byStaked, err := v.Staker.TotalsByStaked(accounts[name])
			if err != nil {
				return err
			}
			balance, err := v.Token.BalanceOf(accounts[name])
			if err != nil {
				return err
			}
			if byStaker.Added().Sign() == 0 && byStaked.Added().Sign() == 0 && balance.Sign() == 0 {
				continue
			}
			fmt.Fprintf(w, "%s (%s) balance=%s\n", name, accounts[name], balance)
			printTotals(w, "  as staker", byStaker)
			printTotals(w, "  as staked", byStaked)
		}

		members, err := v.Staker.StakedAddressesWithMinStake()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "min-stake set: %d\n", len(members))
		for _, m := range members {
			fmt.Fprintf(w, "  %s\n", m)
		}
		return nil
	})
}

func printTotals(w io.Writer, label string, t *stakes.Totals) {
	fmt.Fprintf(w, "%s: active=%s pending=%s withdrawn=%s slashed=%s evicted=%s\n",
		label, t.Active, t.Pending, t.Withdrawn, t.Slashed, t.Evicted)
}

func serveAction(ctx *cli.Context) error {
	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	l, s, _, err := openLedger(ctx, true)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing databases..."); s.Close() }()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiURL, stopAPI, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), l, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		RewardCacheSize:      ctx.Int(apiRewardCacheFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()
	logger.Info("API server started", "url", apiURL, "genesis", l.GenesisID(), "block", l.CurrentBlock(), "dir", s.dir)

	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		logger.Info("metrics server started", "url", url)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, l.Health(), apiLogs)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		logger.Info("admin server started", "url", url)
	}

	exitSignal := handleExitSignal()
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		select {
		case sig := <-exitSignal:
			logger.Info("exit signal received", "signal", sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		return reportProgress(gctx, l)
	})
	if !ctx.Bool(disableNTPFlag.Name) {
		g.Go(func() error {
			checkClockOffset("pool.ntp.org", time.Second)
			return nil
		})
	}
	return g.Wait()
}

// reportProgress logs every committed change until ctx is done.
func reportProgress(ctx context.Context, l *ledger.Ledger) error {
	for {
		waiter := l.NewWaiter()
		select {
		case <-ctx.Done():
			return nil
		case <-waiter.C():
			logger.Debug("ledger updated", "block", l.CurrentBlock())
		}
	}
}

func rewardAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	cfg, err := gen.RewardConfig()
	if err != nil {
		return err
	}

	from, to, step := ctx.Uint64(fromFlag.Name), ctx.Uint64(toFlag.Name), ctx.Uint64(stepFlag.Name)
	if step == 0 {
		return errors.New("step must be positive")
	}
	if to < from {
		return fmt.Errorf("invalid range [%d, %d]", from, to)
	}
	return printRewards(os.Stdout, cfg, from, to, step)
}

func printRewards(w io.Writer, cfg *rewards.Config, from, to, step uint64) error {
	for block := from; block <= to; block += step {
		reward, err := rewards.CalcBlockRewardPure(block, cfg)
		if err != nil {
			return errors.Wrapf(err, "block %d", block)
		}
		fmt.Fprintf(w, "%d\t%s\n", block, reward.Dec())
		if block+step < block {
			break
		}
	}
	return nil
}

func inspectAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	l, s, _, err := openLedger(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	return inspect(os.Stdout, l, []string(ctx.Args()))
}

func inspect(w io.Writer, l *ledger.Ledger, args []string) error {
	return l.View(func(v *ledger.View) error {
		switch len(args) {
		case 0:
			params, err := v.Staker.Params()
			if err != nil {
				return err
			}
			totals, err := v.Staker.Totals()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "block %d\n", v.Block)
			spew.Fdump(w, params, totals)
			return nil
		case 1:
			if id, err := strconv.ParseUint(args[0], 10, 64); err == nil {
				stake, err := v.Staker.GetStakeByID(id)
				if err != nil {
					return err
				}
				spew.Fdump(w, stake)
				return nil
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			list, err := v.Staker.StakesByStaker(addr)
			if err != nil {
				return err
			}
			spew.Fdump(w, list)
			return nil
		case 2:
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			slot, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return errors.Wrap(err, "slot")
			}
			stake, err := v.Staker.GetStake(addr, slot)
			if err != nil {
				return err
			}
			spew.Fdump(w, stake)
			return nil
		}
		return errors.New("too many arguments")
	})
}
