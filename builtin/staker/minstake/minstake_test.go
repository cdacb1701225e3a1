// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package minstake

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/lvldb"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

func newSvc(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := New(solidity.NewContext(xl1.Address{1}, state.New(db), nil))
	require.NoError(t, svc.SetMinStake(big.NewInt(3), nil))
	return svc
}

func TestUpdate(t *testing.T) {
	svc := newSvc(t)
	a, b, c := xl1.Address{0xa}, xl1.Address{0xb}, xl1.Address{0xc}

	changed, err := svc.Update(a, big.NewInt(5))
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = svc.Update(b, big.NewInt(2))
	require.NoError(t, err)
	assert.False(t, changed)
	_, err = svc.Update(c, big.NewInt(3))
	require.NoError(t, err)

	members, err := svc.Addresses()
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{a, c}, members)

	// dropping to zero always leaves the set
	changed, err = svc.Update(a, big.NewInt(0))
	require.NoError(t, err)
	assert.True(t, changed)
	n, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	known, err := svc.Known()
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{a, b, c}, known)
}

func TestSetMinStakeReindexes(t *testing.T) {
	svc := newSvc(t)
	active := map[xl1.Address]*big.Int{
		{0xa}: big.NewInt(5),
		{0xb}: big.NewInt(2),
		{0xc}: big.NewInt(10),
	}
	for _, addr := range []xl1.Address{{0xa}, {0xb}, {0xc}} {
		_, err := svc.Update(addr, active[addr])
		require.NoError(t, err)
	}
	activeOf := func(addr xl1.Address) (*big.Int, error) { return active[addr], nil }

	require.NoError(t, svc.SetMinStake(big.NewInt(6), activeOf))
	members, err := svc.Addresses()
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{{0xc}}, members)

	require.NoError(t, svc.SetMinStake(big.NewInt(1), activeOf))
	members, err = svc.Addresses()
	require.NoError(t, err)
	assert.Equal(t, []xl1.Address{{0xc}, {0xa}, {0xb}}, members)

	// a zero threshold still excludes empty addresses
	active[xl1.Address{0xb}] = big.NewInt(0)
	require.NoError(t, svc.SetMinStake(big.NewInt(0), activeOf))
	ok, err := svc.Contains(xl1.Address{0xb})
	require.NoError(t, err)
	assert.False(t, ok)

	threshold, err := svc.MinStake()
	require.NoError(t, err)
	assert.Equal(t, "0", threshold.String())
}
