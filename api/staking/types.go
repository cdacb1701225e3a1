// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/xylabs/xl1-ledger/builtin/staker"
	"github.com/xylabs/xl1-ledger/builtin/staker/stakes"
	"github.com/xylabs/xl1-ledger/xl1"
)

type Totals struct {
	Active    *math.HexOrDecimal256 `json:"active"`
	Pending   *math.HexOrDecimal256 `json:"pending"`
	Withdrawn *math.HexOrDecimal256 `json:"withdrawn"`
	Slashed   *math.HexOrDecimal256 `json:"slashed"`
	Evicted   *math.HexOrDecimal256 `json:"evicted"`
}

func convertTotals(t *stakes.Totals) *Totals {
	return &Totals{
		Active:    hex(t.Active),
		Pending:   hex(t.Pending),
		Withdrawn: hex(t.Withdrawn),
		Slashed:   hex(t.Slashed),
		Evicted:   hex(t.Evicted),
	}
}

type Params struct {
	Owner                  xl1.Address           `json:"owner"`
	StakingToken           xl1.Address           `json:"stakingToken"`
	MinWithdrawalBlocks    uint32                `json:"minWithdrawalBlocks"`
	MaxStakersPerAddress   uint64                `json:"maxStakersPerAddress"`
	UnlimitedStakerAddress xl1.Address           `json:"unlimitedStakerAddress"`
	MinStake               *math.HexOrDecimal256 `json:"minStake"`
}

func convertParams(p *staker.Params) *Params {
	return &Params{
		Owner:                  p.Owner,
		StakingToken:           p.Token,
		MinWithdrawalBlocks:    p.MinWithdrawalBlocks,
		MaxStakersPerAddress:   p.MaxStakersPerAddress,
		UnlimitedStakerAddress: p.UnlimitedStakerAddress,
		MinStake:               hex(p.MinStake),
	}
}

type Stake struct {
	ID            uint64                `json:"id"`
	Staker        xl1.Address           `json:"staker"`
	Staked        xl1.Address           `json:"staked"`
	Slot          uint64                `json:"slot"`
	Amount        *math.HexOrDecimal256 `json:"amount"`
	Slashed       *math.HexOrDecimal256 `json:"slashed"`
	AddBlock      uint32                `json:"addBlock"`
	RemoveBlock   uint32                `json:"removeBlock"`
	WithdrawBlock uint32                `json:"withdrawBlock"`
	Evicted       bool                  `json:"evicted"`
	Status        string                `json:"status"`
}

func convertStake(s *stakes.Stake) *Stake {
	return &Stake{
		ID:            s.ID,
		Staker:        s.Staker,
		Staked:        s.Staked,
		Slot:          s.Slot,
		Amount:        hex(s.Amount),
		Slashed:       hex(s.Slashed),
		AddBlock:      s.AddBlock,
		RemoveBlock:   s.RemoveBlock,
		WithdrawBlock: s.WithdrawBlock,
		Evicted:       s.Evicted,
		Status:        s.Status().String(),
	}
}

func convertStakes(list []*stakes.Stake) []*Stake {
	out := make([]*Stake, 0, len(list))
	for _, s := range list {
		out = append(out, convertStake(s))
	}
	return out
}

// Staker is the view of an address as staker.
type Staker struct {
	Address xl1.Address `json:"address"`
	Totals  *Totals     `json:"totals"`
	Stakes  []*Stake    `json:"stakes"`
}

// Staked is the view of an address as stake recipient.
type Staked struct {
	Address     xl1.Address   `json:"address"`
	Totals      *Totals       `json:"totals"`
	StakerCount uint64        `json:"stakerCount"`
	Stakers     []xl1.Address `json:"stakers"`
	Stakes      []*Stake      `json:"stakes"`
}

type MinStake struct {
	Threshold *math.HexOrDecimal256 `json:"threshold"`
	Addresses []xl1.Address         `json:"addresses"`
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
