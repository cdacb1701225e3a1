// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/xylabs/xl1-ledger/xl1"
)

// Event names.
const (
	EventStakeAdded           = "StakeAdded"
	EventStakeRemoved         = "StakeRemoved"
	EventStakeWithdrawn       = "StakeWithdrawn"
	EventStakeSlashed         = "StakeSlashed"
	EventStakeEvicted         = "StakeEvicted"
	EventMinStakeChanged      = "MinStakeChanged"
	EventOwnershipTransferred = "OwnershipTransferred"
)

// Event is emitted by a successful state change.
// For OwnershipTransferred, Staker holds the previous owner and Staked the new one.
type Event struct {
	Name    string
	Block   uint32
	Staker  xl1.Address
	Staked  xl1.Address
	StakeID *uint64
	Amount  *big.Int
}

// EventSink receives events after the operation producing them succeeded.
type EventSink func(*Event)

func stakeEvent(name string, block uint32, staker, staked xl1.Address, id uint64, amount *big.Int) *Event {
	return &Event{
		Name:    name,
		Block:   block,
		Staker:  staker,
		Staked:  staked,
		StakeID: &id,
		Amount:  new(big.Int).Set(amount),
	}
}
