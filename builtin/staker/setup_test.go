// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/blockclock"
	"github.com/xylabs/xl1-ledger/builtin/token"
	"github.com/xylabs/xl1-ledger/lvldb"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/test/datagen"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	stakingAddr = xl1.BytesToAddress([]byte("staking"))
	tokenAddr   = xl1.BytesToAddress([]byte("token"))
)

type testEnv struct {
	staker *Staker
	token  *token.Token
	clock  *blockclock.Manual
	state  *state.State
	owner  xl1.Address
	events []*Event
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, func(*Params) {})
}

func newTestEnvWith(t *testing.T, edit func(*Params)) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	env := &testEnv{
		token: token.New(tokenAddr, st),
		clock: blockclock.NewManual(),
		state: st,
		owner: datagen.RandAddress(),
	}
	env.staker = New(stakingAddr, st, env.token, env.clock, nil)
	env.staker.SetEventSink(func(ev *Event) {
		env.events = append(env.events, ev)
	})

	params := DefaultParams(env.owner, tokenAddr)
	edit(&params)
	require.NoError(t, env.staker.Initialize(params))
	return env
}

// fund mints amount to addr and approves the staking contract to spend it.
func (e *testEnv) fund(t *testing.T, addr xl1.Address, amount *big.Int) {
	require.NoError(t, e.token.Mint(addr, amount))
	allowance, err := e.token.Allowance(addr, stakingAddr)
	require.NoError(t, err)
	require.NoError(t, e.token.Approve(addr, stakingAddr, new(big.Int).Add(allowance, amount)))
}

func (e *testEnv) balance(t *testing.T, addr xl1.Address) *big.Int {
	b, err := e.token.BalanceOf(addr)
	require.NoError(t, err)
	return b
}

func (e *testEnv) eventNames() []string {
	names := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		names = append(names, ev.Name)
	}
	return names
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Fund(addr xl1.Address, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.fund(t, addr, amount)
	})
}

func (st *TestSequence) AddStake(staker, staked xl1.Address, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		id, err := st.env.staker.AddStake(staker, staked, amount)
		if err != nil {
			t.Fatalf("failed to add stake %s -> %s: %v", staker, staked, err)
		}
		t.Logf("added stake %d (%s) %s -> %s", id, amount, staker, staked)
	})
}

func (st *TestSequence) RemoveStake(staker xl1.Address, slot uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staker.RemoveStake(staker, slot); err != nil {
			t.Fatalf("failed to remove stake %s/%d: %v", staker, slot, err)
		}
		t.Logf("removed stake %s/%d", staker, slot)
	})
}

func (st *TestSequence) Withdraw(staker xl1.Address, slot uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		amount, err := st.env.staker.WithdrawStake(staker, slot)
		if err != nil {
			t.Fatalf("failed to withdraw stake %s/%d: %v", staker, slot, err)
		}
		t.Logf("withdrawn %s from %s/%d", amount, staker, slot)
	})
}

func (st *TestSequence) Slash(staked xl1.Address, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		slashed, err := st.env.staker.SlashStake(st.env.owner, staked, amount)
		if err != nil {
			t.Fatalf("failed to slash %s: %v", staked, err)
		}
		t.Logf("slashed %s from %s", slashed, staked)
	})
}

func (st *TestSequence) Advance(blocks uint32) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		block := st.env.clock.Advance(blocks)
		t.Logf("advanced to block %d", block)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type TotalsAssertions struct {
	name  string
	fetch func() (active, pending, withdrawn, slashed, evicted *big.Int, err error)

	active    *big.Int
	pending   *big.Int
	withdrawn *big.Int
	slashed   *big.Int
	evicted   *big.Int
}

func AssertGlobal(s *Staker) *TotalsAssertions {
	return &TotalsAssertions{name: "global", fetch: func() (a, p, w, sl, e *big.Int, err error) {
		t, err := s.Totals()
		if err != nil {
			return
		}
		return t.Active, t.Pending, t.Withdrawn, t.Slashed, t.Evicted, nil
	}}
}

func AssertStaker(s *Staker, addr xl1.Address) *TotalsAssertions {
	return &TotalsAssertions{name: "staker " + addr.String(), fetch: func() (a, p, w, sl, e *big.Int, err error) {
		t, err := s.TotalsByStaker(addr)
		if err != nil {
			return
		}
		return t.Active, t.Pending, t.Withdrawn, t.Slashed, t.Evicted, nil
	}}
}

func AssertStaked(s *Staker, addr xl1.Address) *TotalsAssertions {
	return &TotalsAssertions{name: "staked " + addr.String(), fetch: func() (a, p, w, sl, e *big.Int, err error) {
		t, err := s.TotalsByStaked(addr)
		if err != nil {
			return
		}
		return t.Active, t.Pending, t.Withdrawn, t.Slashed, t.Evicted, nil
	}}
}

func (ta *TotalsAssertions) Active(v int64) *TotalsAssertions {
	ta.active = big.NewInt(v)
	return ta
}

func (ta *TotalsAssertions) Pending(v int64) *TotalsAssertions {
	ta.pending = big.NewInt(v)
	return ta
}

func (ta *TotalsAssertions) Withdrawn(v int64) *TotalsAssertions {
	ta.withdrawn = big.NewInt(v)
	return ta
}

func (ta *TotalsAssertions) Slashed(v int64) *TotalsAssertions {
	ta.slashed = big.NewInt(v)
	return ta
}

func (ta *TotalsAssertions) Evicted(v int64) *TotalsAssertions {
	ta.evicted = big.NewInt(v)
	return ta
}

func (ta *TotalsAssertions) Assert(t *testing.T) {
	active, pending, withdrawn, slashed, evicted, err := ta.fetch()
	require.NoError(t, err, "failed to get %s totals", ta.name)

	check := func(field string, expected, actual *big.Int) {
		if expected != nil {
			assert.Equal(t, expected.String(), actual.String(), "%s %s mismatch", ta.name, field)
		}
	}
	check("active", ta.active, active)
	check("pending", ta.pending, pending)
	check("withdrawn", ta.withdrawn, withdrawn)
	check("slashed", ta.slashed, slashed)
	check("evicted", ta.evicted, evicted)
}
