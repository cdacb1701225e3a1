// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is the structured logger used across the ledger. It is a thin
// layer over the go-ethereum slog logger, adding package scoped loggers that
// follow the root handler even when it is replaced after they are created.
package log

import (
	"context"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

type Logger = ethlog.Logger

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault replaces the root logger.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// NewLogger returns a logger writing to h.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// WithContext returns a logger carrying ctx which always writes through the
// current root logger.
func WithContext(ctx ...any) Logger {
	return &scoped{ctx: ctx}
}

// FromVerbosity maps the 0 (silent) .. 5 (trace) command line verbosity to a level.
func FromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// Trace logs at trace level on the root logger.
func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }

// Debug logs at debug level on the root logger.
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }

// Info logs at info level on the root logger.
func Info(msg string, ctx ...any) { Root().Info(msg, ctx...) }

// Warn logs at warn level on the root logger.
func Warn(msg string, ctx ...any) { Root().Warn(msg, ctx...) }

// Error logs at error level on the root logger.
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }

type scoped struct {
	ctx []any
}

func (l *scoped) inner() Logger {
	return Root().With(l.ctx...)
}

func (l *scoped) With(ctx ...any) Logger {
	return &scoped{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *scoped) New(ctx ...any) Logger {
	return l.With(ctx...)
}

func (l *scoped) Log(level slog.Level, msg string, ctx ...any) {
	l.inner().Log(level, msg, ctx...)
}

func (l *scoped) Trace(msg string, ctx ...any) { l.inner().Trace(msg, ctx...) }
func (l *scoped) Debug(msg string, ctx ...any) { l.inner().Debug(msg, ctx...) }
func (l *scoped) Info(msg string, ctx ...any)  { l.inner().Info(msg, ctx...) }
func (l *scoped) Warn(msg string, ctx ...any)  { l.inner().Warn(msg, ctx...) }
func (l *scoped) Error(msg string, ctx ...any) { l.inner().Error(msg, ctx...) }
func (l *scoped) Crit(msg string, ctx ...any)  { l.inner().Crit(msg, ctx...) }

func (l *scoped) Write(level slog.Level, msg string, attrs ...any) {
	l.inner().Write(level, msg, attrs...)
}

func (l *scoped) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *scoped) Handler() slog.Handler {
	return Root().Handler()
}
