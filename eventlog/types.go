// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"math/big"

	"github.com/xylabs/xl1-ledger/xl1"
)

// Event is a staking event as stored in the log.
type Event struct {
	Seq         uint64
	Name        string
	BlockNumber uint32
	Staker      xl1.Address
	Staked      xl1.Address
	StakeID     *uint64
	Amount      *big.Int
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range of block numbers, both ends inclusive. A To below From leaves the range open.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Criteria are combined with AND, a filter's criteria set with OR.
type Criteria struct {
	Name    *string
	Address *xl1.Address // staker or staked
	Staker  *xl1.Address
	Staked  *xl1.Address
}

// Filter filter
type Filter struct {
	CriteriaSet []*Criteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
