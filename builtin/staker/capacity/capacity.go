// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package capacity bounds the number of distinct stakers per staked address.
// Each staked address keeps its stakers in insertion order together with the
// active amount each one has on it; when the bound is exceeded the smallest
// staker is chosen for eviction.
package capacity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker/linkedlist"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	slotStakers = xl1.BytesToBytes32([]byte("capacity-stakers"))
	slotAmounts = xl1.BytesToBytes32([]byte("capacity-amounts"))
)

type pairKey struct {
	staked xl1.Address
	staker xl1.Address
}

func (k pairKey) Bytes() []byte {
	return append(k.staked.Bytes(), k.staker.Bytes()...)
}

type Service struct {
	sctx    *solidity.Context
	amounts *solidity.Mapping[pairKey, *big.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:    sctx,
		amounts: solidity.NewMapping[pairKey, *big.Int](sctx, slotAmounts),
	}
}

func (s *Service) stakers(staked xl1.Address) *linkedlist.LinkedList {
	return linkedlist.NewScoped(s.sctx, slotStakers, staked)
}

// Amount is the active stake staker holds on staked.
func (s *Service) Amount(staked, staker xl1.Address) (*big.Int, error) {
	v, err := s.amounts.Get(pairKey{staked, staker})
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = new(big.Int)
	}
	return v, nil
}

// Adjust changes the active stake of staker on staked by change. A staker
// joins the set when its amount becomes positive and leaves it at zero.
func (s *Service) Adjust(staked, staker xl1.Address, change *big.Int) error {
	current, err := s.Amount(staked, staker)
	if err != nil {
		return err
	}
	next := new(big.Int).Add(current, change)
	switch next.Sign() {
	case -1:
		return errors.Errorf("active stake of %v on %v would become negative", staker, staked)
	case 0:
		s.amounts.Delete(pairKey{staked, staker})
		_, err = s.stakers(staked).Remove(staker)
		return err
	default:
		if err := s.amounts.Set(pairKey{staked, staker}, next); err != nil {
			return err
		}
		_, err = s.stakers(staked).Add(staker)
		return err
	}
}

// Count is the number of stakers with active stake on staked.
func (s *Service) Count(staked xl1.Address) (uint64, error) {
	return s.stakers(staked).Len()
}

// Stakers lists the stakers of staked in insertion order.
func (s *Service) Stakers(staked xl1.Address) ([]xl1.Address, error) {
	return s.stakers(staked).Addresses()
}

// SelectEviction returns the staker to evict when staked has more than limit
// stakers: the one with the lowest amount, the earliest inserted on ties.
func (s *Service) SelectEviction(staked xl1.Address, limit uint64) (xl1.Address, bool, error) {
	list := s.stakers(staked)
	n, err := list.Len()
	if err != nil || n <= limit {
		return xl1.Address{}, false, err
	}

	var (
		victim xl1.Address
		lowest *big.Int
	)
	err = list.Iter(func(staker xl1.Address) error {
		amount, err := s.Amount(staked, staker)
		if err != nil {
			return err
		}
		if lowest == nil || amount.Cmp(lowest) < 0 {
			victim, lowest = staker, amount
		}
		return nil
	})
	if err != nil {
		return xl1.Address{}, false, err
	}
	return victim, true, nil
}
