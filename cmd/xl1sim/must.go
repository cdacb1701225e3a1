// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/xylabs/xl1-ledger/eventlog"
	"github.com/xylabs/xl1-ledger/genesis"
	"github.com/xylabs/xl1-ledger/kv"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/log"
	"github.com/xylabs/xl1-ledger/lvldb"
	"github.com/xylabs/xl1-ledger/xl1"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

// initLogger installs the root logger and returns the level variable
// the admin server adjusts at runtime.
func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name)))

	var handler slog.Handler
	switch format := ctx.GlobalString(logFormatFlag.Name); format {
	case "terminal":
		handler = log.NewTerminalHandler(os.Stderr, lvl, isatty.IsTerminal(os.Stderr.Fd()))
	case "json":
		handler = log.JSONHandler(os.Stderr, lvl)
	case "logfmt":
		handler = log.LogfmtHandler(os.Stderr, lvl)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl, nil
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.GlobalString(configFlag.Name); path != "" {
		return genesis.Load(path)
	}
	var owner xl1.Address
	if s := ctx.GlobalString(ownerFlag.Name); s != "" {
		addr, err := xl1.ParseAddress(s)
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		owner = addr
	} else {
		owner = aliasAddress("owner")
	}
	return genesis.Default(owner), nil
}

// instanceDir is the data directory for one genesis.
func instanceDir(ctx *cli.Context, gen *genesis.Genesis) (string, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.New("--data-dir required")
	}
	id, err := gen.ID()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id[24:]))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", dir)
	}
	return dir, nil
}

// store bundles the opened databases so they can be closed together.
type store struct {
	dir    string
	db     *lvldb.LevelDB
	kv     kv.Store
	events *eventlog.EventLog
}

func (s *store) Close() {
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			log.Warn("failed to close event log", "err", err)
		}
	}
	if s.db != nil {
		s.db.Close()
	}
}

func openStore(ctx *cli.Context, gen *genesis.Genesis, persist bool) (*store, error) {
	s := &store{dir: "Memory"}
	var err error
	if !persist {
		if s.db, err = lvldb.NewMem(); err != nil {
			return nil, err
		}
		s.kv = s.db
		if s.events, err = eventlog.NewMem(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}

	if s.dir, err = instanceDir(ctx, gen); err != nil {
		return nil, err
	}
	cacheMB := normalizeCacheSize(ctx.GlobalInt(cacheFlag.Name))
	if s.db, err = lvldb.New(filepath.Join(s.dir, "main.db"), lvldb.Options{
		CacheSize:              cacheMB / 4,
		OpenFilesCacheCapacity: suggestFDCache(),
	}); err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	s.kv = s.db
	if cacheMB > 0 {
		s.kv = kv.NewCached(s.db, cacheMB-cacheMB/4)
	}
	if s.events, err = eventlog.New(filepath.Join(s.dir, "events.db")); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "open event log")
	}
	return s, nil
}

func openLedger(ctx *cli.Context, persist bool) (*ledger.Ledger, *store, *genesis.Genesis, error) {
	gen, err := selectGenesis(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := openStore(ctx, gen, persist)
	if err != nil {
		return nil, nil, nil, err
	}
	l, err := ledger.Open(s.kv, s.events, gen)
	if err != nil {
		s.Close()
		return nil, nil, nil, err
	}
	return l, s, gen, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 0 {
		sizeMB = 0
	}
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit:", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

// checkClockOffset warns when the local clock drifts from NTP time.
func checkClockOffset(server string, tolerance time.Duration) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > tolerance || resp.ClockOffset < -tolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func handleExitSignal() <-chan os.Signal {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
	return exitSignalCh
}

func defaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "xl1ledger")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "xl1ledger")
	default:
		return filepath.Join(home, ".xl1ledger")
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func parseAddress(s string) (xl1.Address, error) {
	return xl1.ParseAddress(strings.TrimSpace(s))
}
