// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "xl1sim"
	app.Usage = "XL1 staking ledger simulator"
	app.Copyright = "2025 The XL1 Ledger developers"
	app.Flags = []cli.Flag{
		configFlag,
		ownerFlag,
		dataDirFlag,
		verbosityFlag,
		logFormatFlag,
		cacheFlag,
	}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "replay a scenario file and print the resulting totals",
			ArgsUsage: "<scenario.yaml>",
			Flags:     []cli.Flag{persistFlag},
			Action:    runAction,
		},
		{
			Name:  "serve",
			Usage: "open the ledger and serve the API until interrupted",
			Flags: []cli.Flag{
				apiAddrFlag,
				apiCorsFlag,
				apiBacktraceLimitFlag,
				apiEventsLimitFlag,
				apiRewardCacheFlag,
				apiSlowQueriesThresholdFlag,
				apiLog5xxErrorsFlag,
				enableAPILogsFlag,
				pprofFlag,
				enableMetricsFlag,
				metricsAddrFlag,
				enableAdminFlag,
				adminAddrFlag,
				disableNTPFlag,
			},
			Action: serveAction,
		},
		{
			Name:   "reward",
			Usage:  "print the block reward for a range of blocks",
			Flags:  []cli.Flag{fromFlag, toFlag, stepFlag},
			Action: rewardAction,
		},
		{
			Name:      "inspect",
			Usage:     "dump ledger records from --data-dir",
			ArgsUsage: "[stake id | staker address [slot]]",
			Action:    inspectAction,
		},
		{
			Name:   "watch",
			Usage:  "stream staking events from a running API server",
			Flags:  []cli.Flag{apiURLFlag, posFlag, eventNameFlag, stakerFilterFlag, stakedFilterFlag},
			Action: watchAction,
		},
		{
			Name:   "verify",
			Usage:  "replay the event log in --data-dir and compare it with the ledger state",
			Action: verifyAction,
		},
		{
			Name:   "export",
			Usage:  "write the event log in --data-dir to a compressed file",
			Flags:  []cli.Flag{outFlag},
			Action: exportAction,
		},
		{
			Name:   "reset",
			Usage:  "remove the ledger data for the selected genesis from --data-dir",
			Flags:  []cli.Flag{yesFlag},
			Action: resetAction,
		},
	}
	return app
}
