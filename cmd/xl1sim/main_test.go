// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppRunInMemory(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"xl1sim", "--verbosity", "0", "run", "testdata/lifecycle.yaml"})
	assert.NoError(t, err)
}

func TestAppRejectsBadInput(t *testing.T) {
	app := newApp()
	assert.Error(t, app.Run([]string{"xl1sim", "--verbosity", "0", "run"}))
	assert.Error(t, app.Run([]string{"xl1sim", "--log-format", "xml", "run", "testdata/lifecycle.yaml"}))
	assert.Error(t, app.Run([]string{"xl1sim", "--verbosity", "0", "reward", "--from", "10", "--to", "5"}))
	assert.Error(t, app.Run([]string{"xl1sim", "--verbosity", "0", "reward", "--step", "0"}))
}

func TestAppPersistAndInspect(t *testing.T) {
	dir := t.TempDir()
	app := newApp()
	err := app.Run([]string{"xl1sim", "--verbosity", "0", "--data-dir", dir, "run", "--persist", "testdata/lifecycle.yaml"})
	assert.NoError(t, err)

	// the state survives reopening with the same genesis
	err = app.Run([]string{"xl1sim", "--verbosity", "0", "--data-dir", dir, "inspect", "0"})
	assert.NoError(t, err)
}

func TestAppVerifyAndReset(t *testing.T) {
	dir := t.TempDir()
	app := newApp()
	require.NoError(t, app.Run([]string{"xl1sim", "--verbosity", "0", "--data-dir", dir, "run", "--persist", "testdata/lifecycle.yaml"}))
	require.NoError(t, app.Run([]string{"xl1sim", "--verbosity", "0", "--data-dir", dir, "verify"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, app.Run([]string{"xl1sim", "--verbosity", "0", "--data-dir", dir, "reset", "--yes"}))
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
