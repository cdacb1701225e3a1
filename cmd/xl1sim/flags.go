// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the genesis YAML document (defaults are used when omitted)",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "owner address used with the default genesis",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the ledger databases",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Value: "terminal",
		Usage: "log output format (terminal|json|logfmt)",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8680",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:  "api-backtrace-limit",
		Value: 10000,
		Usage: "limit the distance between 'pos' and the latest event for subscriptions",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events",
	}
	apiRewardCacheFlag = cli.IntFlag{
		Name:  "api-reward-cache",
		Value: 4096,
		Usage: "number of block rewards kept in cache",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with duration longer than this threshold (in ms) will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all requests resulting in 5xx status codes",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "keep the result in --data-dir instead of memory",
	}
	fromFlag = cli.Uint64Flag{
		Name:  "from",
		Usage: "first block",
	}
	toFlag = cli.Uint64Flag{
		Name:  "to",
		Value: 10,
		Usage: "last block",
	}
	stepFlag = cli.Uint64Flag{
		Name:  "step",
		Value: 1,
		Usage: "block interval",
	}
)

var (
	apiURLFlag = cli.StringFlag{
		Name:  "api-url",
		Value: "http://localhost:8680",
		Usage: "URL of a running API server",
	}
	posFlag = cli.StringFlag{
		Name:  "pos",
		Usage: "stream events after this sequence (default: new events only)",
	}
	eventNameFlag = cli.StringFlag{
		Name:  "name",
		Usage: "only events with this name",
	}
	stakerFilterFlag = cli.StringFlag{
		Name:  "staker",
		Usage: "only events of this staker",
	}
	stakedFilterFlag = cli.StringFlag{
		Name:  "staked",
		Usage: "only events of this staked address",
	}
)

var (
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 256,
		Usage: "megabytes of RAM allocated to the state read cache (0 disables it)",
	}
	disableNTPFlag = cli.BoolFlag{
		Name:  "disable-ntp",
		Usage: "skip the clock offset check against pool.ntp.org",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "output file, snappy compressed JSON lines",
		Value: "events.jsonl.sz",
	}
	yesFlag = cli.BoolFlag{
		Name:  "yes",
		Usage: "do not ask for confirmation",
	}
)
