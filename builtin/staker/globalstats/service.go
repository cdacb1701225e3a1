// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker/delta"
	"github.com/xylabs/xl1-ledger/builtin/staker/stakes"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	slotActive    = xl1.BytesToBytes32([]byte("total-active"))
	slotPending   = xl1.BytesToBytes32([]byte("total-pending"))
	slotWithdrawn = xl1.BytesToBytes32([]byte("total-withdrawn"))
	slotSlashed   = xl1.BytesToBytes32([]byte("total-slashed"))
	slotEvicted   = xl1.BytesToBytes32([]byte("total-evicted"))
)

// Service manages contract-wide staking totals.
type Service struct {
	active    *solidity.Uint256
	pending   *solidity.Uint256
	withdrawn *solidity.Uint256
	slashed   *solidity.Uint256
	evicted   *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		active:    solidity.NewUint256(sctx, slotActive),
		pending:   solidity.NewUint256(sctx, slotPending),
		withdrawn: solidity.NewUint256(sctx, slotWithdrawn),
		slashed:   solidity.NewUint256(sctx, slotSlashed),
		evicted:   solidity.NewUint256(sctx, slotEvicted),
	}
}

func (s *Service) buckets() []*solidity.Uint256 {
	return []*solidity.Uint256{s.active, s.pending, s.withdrawn, s.slashed, s.evicted}
}

// Totals returns the contract-wide totals.
func (s *Service) Totals() (*stakes.Totals, error) {
	var values [5]*big.Int
	for i, b := range s.buckets() {
		v, err := b.Get()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return &stakes.Totals{
		Active:    values[0],
		Pending:   values[1],
		Withdrawn: values[2],
		Slashed:   values[3],
		Evicted:   values[4],
	}, nil
}

// Apply adds a transition to the global totals.
func (s *Service) Apply(d *delta.Delta) error {
	changes := []*big.Int{d.Active, d.Pending, d.Withdrawn, d.Slashed, d.Evicted}
	for i, b := range s.buckets() {
		change := changes[i]
		var err error
		switch change.Sign() {
		case 1:
			err = b.Add(change)
		case -1:
			err = b.Sub(new(big.Int).Neg(change))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
