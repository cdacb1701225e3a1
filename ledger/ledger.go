// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serialises staking operations over a persistent state.
// Every successful operation is committed on its own and its events are
// published only after the commit.
package ledger

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/blockclock"
	"github.com/xylabs/xl1-ledger/builtin"
	"github.com/xylabs/xl1-ledger/builtin/rewards"
	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker"
	"github.com/xylabs/xl1-ledger/builtin/token"
	"github.com/xylabs/xl1-ledger/builtin/xyochain"
	"github.com/xylabs/xl1-ledger/co"
	"github.com/xylabs/xl1-ledger/eventlog"
	"github.com/xylabs/xl1-ledger/genesis"
	"github.com/xylabs/xl1-ledger/health"
	"github.com/xylabs/xl1-ledger/kv"
	"github.com/xylabs/xl1-ledger/log"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	logger = log.WithContext("pkg", "ledger")

	metaAddress     = xl1.BytesToAddress([]byte("LedgerMeta"))
	slotGenesisID   = xl1.BytesToBytes32([]byte("genesis-id"))
	slotBlockNumber = xl1.BytesToBytes32([]byte("block-number"))
)

var ErrGenesisMismatch = errors.New("ledger: genesis mismatch")

// Ledger is the single writer of a staking state.
type Ledger struct {
	mu sync.RWMutex

	state  *state.State
	clock  *blockclock.Manual
	events *eventlog.EventLog

	token   *token.Token
	staker  *staker.Staker
	rewards *rewards.Rewards
	chain   *xyochain.Chain

	genesisID *solidity.Bytes32
	block     *solidity.Uint256

	pending []*staker.Event
	signal  co.Signal
	health  *health.Health
}

// Open binds a ledger to store. An empty store is initialised from gen; a
// non-empty one must have been created from the same genesis when gen is given.
// events may be nil, in which case events are not recorded.
func Open(store kv.Store, events *eventlog.EventLog, gen *genesis.Genesis) (*Ledger, error) {
	st := state.New(store)
	meta := solidity.NewContext(metaAddress, st, nil)
	l := &Ledger{
		state:     st,
		events:    events,
		genesisID: solidity.NewBytes32(meta, slotGenesisID),
		block:     solidity.NewUint256(meta, slotBlockNumber),
		health:    health.New(),
	}

	storedID, err := l.genesisID.Get()
	if err != nil {
		return nil, err
	}
	if storedID.IsZero() {
		if gen == nil {
			return nil, errors.New("ledger: empty store and no genesis")
		}
		if err := l.initialize(gen); err != nil {
			return nil, err
		}
	} else if gen != nil {
		id, err := gen.ID()
		if err != nil {
			return nil, err
		}
		if id != storedID {
			return nil, errors.Wrapf(ErrGenesisMismatch, "stored %v, given %v", storedID, id)
		}
	}

	block, err := l.block.Get()
	if err != nil {
		return nil, err
	}
	l.clock = blockclock.NewManualAt(uint32(block.Uint64()))

	l.token = builtin.Token.WithState(st)
	l.staker = builtin.Staker.Native(st, l.clock, nil)
	l.rewards = builtin.Rewards.WithState(st)
	l.chain = builtin.Chain.WithState(st, l.staker)
	l.staker.SetEventSink(func(ev *staker.Event) {
		l.pending = append(l.pending, ev)
	})

	gid, _ := l.genesisID.Get()
	logger.Info("ledger opened", "genesis", gid, "block", l.clock.CurrentBlock())
	l.updateGauges()
	return l, nil
}

func (l *Ledger) initialize(gen *genesis.Genesis) error {
	id, err := gen.ID()
	if err != nil {
		return err
	}
	b, err := gen.Builder()
	if err != nil {
		return err
	}
	return b.State(func(*state.State) error {
		l.genesisID.Set(&id)
		return l.block.Set(big.NewInt(1))
	}).Build(l.state)
}

// Health reports commit and event log progress.
func (l *Ledger) Health() *health.Health {
	return l.health
}

// GenesisID returns the id of the genesis the ledger was created from.
func (l *Ledger) GenesisID() xl1.Bytes32 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, _ := l.genesisID.Get()
	return id
}

func (l *Ledger) CurrentBlock() uint32 {
	return l.clock.CurrentBlock()
}

// EventLog returns the event log, nil if events are not recorded.
func (l *Ledger) EventLog() *eventlog.EventLog {
	return l.events
}

// NewWaiter returns a waiter woken after each committed operation.
func (l *Ledger) NewWaiter() co.Waiter {
	return l.signal.NewWaiter()
}

// exec runs fn as one operation: rolled back on error, committed otherwise.
// onCommit runs only once the state is durably committed.
func (l *Ledger) exec(op string, fn func() error, onCommit ...func()) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	defer func() { observeOp(op, start, err) }()

	rev := l.state.NewCheckpoint()
	l.pending = nil
	if err := fn(); err != nil {
		l.state.RevertTo(rev)
		l.pending = nil
		logger.Debug("operation rejected", "op", op, "error", err)
		return err
	}
	if err := l.state.Commit(); err != nil {
		l.state.RevertTo(rev)
		l.pending = nil
		logger.Error("commit failed", "op", op, "error", err)
		return errors.Wrap(err, "commit")
	}
	for _, f := range onCommit {
		f()
	}

	l.health.Committed(l.clock.CurrentBlock())
	l.publish()
	l.updateGauges()
	l.signal.Broadcast()
	return nil
}

// publish records the pending events. The state is already committed, so a
// failure here is logged and does not fail the operation.
func (l *Ledger) publish() {
	events := l.pending
	l.pending = nil
	if l.events == nil || len(events) == 0 {
		return
	}

	batch := l.events.NewBatch()
	for _, ev := range events {
		batch.Add(&eventlog.Event{
			Name:        ev.Name,
			BlockNumber: ev.Block,
			Staker:      ev.Staker,
			Staked:      ev.Staked,
			StakeID:     ev.StakeID,
			Amount:      ev.Amount,
		})
	}
	err := batch.Commit()
	l.health.EventLogWritten(err)
	if err != nil {
		logger.Error("failed to record events", "count", len(events), "error", err)
		return
	}
	metricEventsWritten().Add(int64(len(events)))
}

func (l *Ledger) updateGauges() {
	if n, err := l.staker.StakeCount(); err == nil {
		metricStakeCount().Set(int64(n))
	}
	if n, err := l.staker.StakedAddressesWithMinStakeCount(); err == nil {
		metricMinStakeSetSize().Set(int64(n))
	}
	metricBlock().Set(int64(l.clock.CurrentBlock()))
}

// Advance moves the block clock n blocks forward.
func (l *Ledger) Advance(n uint32) (block uint32, err error) {
	err = l.exec("advance", func() error {
		next := uint64(l.clock.CurrentBlock()) + uint64(n)
		if next > uint64(^uint32(0)) {
			return errors.New("block number overflow")
		}
		block = uint32(next)
		return l.block.Set(new(big.Int).SetUint64(next))
	}, func() {
		l.clock.AdvanceTo(block)
	})
	if err != nil {
		block = l.clock.CurrentBlock()
	}
	return
}

// Mint creates tokens for to.
func (l *Ledger) Mint(to xl1.Address, amount *big.Int) error {
	return l.exec("mint", func() error {
		return l.token.Mint(to, amount)
	})
}

// Approve lets spender move amount of owner's tokens.
func (l *Ledger) Approve(owner, spender xl1.Address, amount *big.Int) error {
	return l.exec("approve", func() error {
		return l.token.Approve(owner, spender, amount)
	})
}

func (l *Ledger) AddStake(stakerAddr, staked xl1.Address, amount *big.Int) (id uint64, err error) {
	err = l.exec("add_stake", func() error {
		id, err = l.staker.AddStake(stakerAddr, staked, amount)
		return err
	})
	return
}

func (l *Ledger) RemoveStake(stakerAddr xl1.Address, slot uint64) error {
	return l.exec("remove_stake", func() error {
		return l.staker.RemoveStake(stakerAddr, slot)
	})
}

func (l *Ledger) WithdrawStake(stakerAddr xl1.Address, slot uint64) (amount *big.Int, err error) {
	err = l.exec("withdraw_stake", func() error {
		amount, err = l.staker.WithdrawStake(stakerAddr, slot)
		return err
	})
	return
}

func (l *Ledger) SlashStake(caller, staked xl1.Address, amount *big.Int) (slashed *big.Int, err error) {
	err = l.exec("slash_stake", func() error {
		slashed, err = l.staker.SlashStake(caller, staked, amount)
		return err
	})
	return
}

func (l *Ledger) SetMinStake(caller xl1.Address, value *big.Int) error {
	return l.exec("set_min_stake", func() error {
		return l.staker.SetMinStake(caller, value)
	})
}

func (l *Ledger) TransferOwnership(caller, newOwner xl1.Address) error {
	return l.exec("transfer_ownership", func() error {
		return l.staker.TransferOwnership(caller, newOwner)
	})
}

// View gives read access to the bound contracts.
type View struct {
	Block   uint32
	Token   *token.Token
	Staker  *staker.Staker
	Rewards *rewards.Rewards
	Chain   *xyochain.Chain
}

// View runs fn against a consistent snapshot. fn must not mutate.
func (l *Ledger) View(fn func(v *View) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return fn(&View{
		Block:   l.clock.CurrentBlock(),
		Token:   l.token,
		Staker:  l.staker,
		Rewards: l.rewards,
		Chain:   l.chain,
	})
}

// EventsAfter returns recorded events newer than seq.
func (l *Ledger) EventsAfter(ctx context.Context, seq uint64, limit uint64) ([]*eventlog.Event, error) {
	if l.events == nil {
		return nil, nil
	}
	return l.events.After(ctx, seq, limit)
}
