// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"encoding/binary"
	"math/big"

	"github.com/xylabs/xl1-ledger/xl1"
)

// ID is the global stake identifier, assigned sequentially from zero.
type ID uint64

func (id ID) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

// Status of a stake, derived from its block markers.
type Status uint8

const (
	StatusActive Status = iota
	StatusPending
	StatusWithdrawn
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPending:
		return "pending"
	default:
		return "withdrawn"
	}
}

// Stake is one position opened by a staker for a staked address.
type Stake struct {
	ID            uint64
	Staker        xl1.Address
	Staked        xl1.Address
	Amount        *big.Int // original amount, never mutated
	Slot          uint64
	AddBlock      uint32
	RemoveBlock   uint32
	WithdrawBlock uint32
	Slashed       *big.Int
	Evicted       bool
}

// Remaining is the part of the stake not lost to slashing.
func (s *Stake) Remaining() *big.Int {
	return new(big.Int).Sub(s.Amount, s.Slashed)
}

func (s *Stake) Status() Status {
	switch {
	case s.WithdrawBlock != 0:
		return StatusWithdrawn
	case s.RemoveBlock != 0:
		return StatusPending
	default:
		return StatusActive
	}
}

func (s *Stake) IsActive() bool    { return s.Status() == StatusActive }
func (s *Stake) IsPending() bool   { return s.Status() == StatusPending }
func (s *Stake) IsWithdrawn() bool { return s.Status() == StatusWithdrawn }

// Withdrawable reports whether a pending stake may be withdrawn at block.
func (s *Stake) Withdrawable(block, minWithdrawalBlocks uint32) bool {
	return s.IsPending() && uint64(block) >= uint64(s.RemoveBlock)+uint64(minWithdrawalBlocks)
}

func (s *Stake) normalize() {
	if s.Amount == nil {
		s.Amount = new(big.Int)
	}
	if s.Slashed == nil {
		s.Slashed = new(big.Int)
	}
}
