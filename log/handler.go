// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

const timeFormat = "2006-01-02T15:04:05-0700"

// leveler reads the threshold on every record so a *slog.LevelVar changed
// at runtime takes effect on handlers that already exist.
type leveler struct{ minLevel *slog.LevelVar }

func (l *leveler) Level() slog.Level {
	return l.minLevel.Level()
}

// NewTerminalHandler returns a human readable handler, colourised when useColor is set.
//
//	INFO [05-16|20:58:45.123] stake added   pkg=staker id=3 amount=40
func NewTerminalHandler(w io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &gate{
		Handler: ethlog.NewTerminalHandlerWithLevel(w, LevelTrace, useColor),
		lvl:     &leveler{lvl},
	}
}

// JSONHandler returns a handler writing one JSON object per record.
func JSONHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceJSON,
		Level:       &leveler{lvl},
	})
}

// LogfmtHandler returns a handler writing logfmt records.
func LogfmtHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceLogfmt,
		Level:       &leveler{lvl},
	})
}

// gate filters records below lvl before they reach a handler that was built
// with a fixed threshold.
type gate struct {
	slog.Handler
	lvl slog.Leveler
}

func (g *gate) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= g.lvl.Level() && g.Handler.Enabled(ctx, level)
}

func (g *gate) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &gate{g.Handler.WithAttrs(attrs), g.lvl}
}

func (g *gate) WithGroup(name string) slog.Handler {
	return &gate{g.Handler.WithGroup(name), g.lvl}
}

func builtinReplaceLogfmt(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(attr, true)
}

func builtinReplaceJSON(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(attr, false)
}

// builtinReplace renames time and level to t and lvl and renders amounts
// as decimal strings.
func builtinReplace(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.Any("lvl", ethlog.LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr = slog.String(attr.Key, v.Format(timeFormat))
		}
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}
