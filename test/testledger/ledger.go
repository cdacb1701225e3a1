// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds in-memory ledgers for tests.
package testledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin"
	"github.com/xylabs/xl1-ledger/eventlog"
	"github.com/xylabs/xl1-ledger/genesis"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/lvldb"
	"github.com/xylabs/xl1-ledger/test/datagen"
	"github.com/xylabs/xl1-ledger/xl1"
)

// Ledger bundles a ledger with the stores backing it.
type Ledger struct {
	*ledger.Ledger

	db      *lvldb.LevelDB
	events  *eventlog.EventLog
	genesis *genesis.Genesis
	owner   xl1.Address
}

// NewDefault creates a ledger from the default genesis with a random owner.
func NewDefault() (*Ledger, error) {
	return NewWithGenesis(genesis.Default(datagen.RandAddress()))
}

func NewWithGenesis(gen *genesis.Genesis) (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	events, err := eventlog.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	l, err := ledger.Open(db, events, gen)
	if err != nil {
		events.Close()
		db.Close()
		return nil, err
	}
	return &Ledger{
		Ledger:  l,
		db:      db,
		events:  events,
		genesis: gen,
		owner:   xl1.Address(gen.Owner),
	}, nil
}

func (l *Ledger) Owner() xl1.Address {
	return l.owner
}

func (l *Ledger) Genesis() *genesis.Genesis {
	return l.genesis
}

// Fund mints amount to addr and approves the staking contract to spend it.
func (l *Ledger) Fund(addr xl1.Address, amount *big.Int) error {
	if err := l.Mint(addr, amount); err != nil {
		return errors.Wrap(err, "mint")
	}
	var allowance *big.Int
	if err := l.View(func(v *ledger.View) (err error) {
		allowance, err = v.Token.Allowance(addr, builtin.Staker.Address)
		return
	}); err != nil {
		return err
	}
	return errors.Wrap(l.Approve(addr, builtin.Staker.Address, allowance.Add(allowance, amount)), "approve")
}

// Stake funds staker and adds one stake of amount on staked.
func (l *Ledger) Stake(staker, staked xl1.Address, amount *big.Int) (uint64, error) {
	if err := l.Fund(staker, amount); err != nil {
		return 0, err
	}
	return l.AddStake(staker, staked, amount)
}

func (l *Ledger) Close() {
	l.events.Close()
	l.db.Close()
}
