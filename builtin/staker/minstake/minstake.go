// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package minstake keeps the set of staked addresses whose active stake
// meets the configured minimum.
package minstake

import (
	"math/big"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker/linkedlist"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	slotMinStake = xl1.BytesToBytes32([]byte("min-stake"))

	slotSetHead  = xl1.BytesToBytes32([]byte("min-stake-head"))
	slotSetTail  = xl1.BytesToBytes32([]byte("min-stake-tail"))
	slotSetCount = xl1.BytesToBytes32([]byte("min-stake-count"))

	slotKnownHead  = xl1.BytesToBytes32([]byte("staked-head"))
	slotKnownTail  = xl1.BytesToBytes32([]byte("staked-tail"))
	slotKnownCount = xl1.BytesToBytes32([]byte("staked-count"))
)

// ActiveFunc returns the active stake credited to an address.
type ActiveFunc func(staked xl1.Address) (*big.Int, error)

type Service struct {
	minStake *solidity.Uint256
	set      *linkedlist.LinkedList
	known    *linkedlist.LinkedList
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		minStake: solidity.NewUint256(sctx, slotMinStake),
		set:      linkedlist.NewLinkedList(sctx, slotSetHead, slotSetTail, slotSetCount),
		known:    linkedlist.NewLinkedList(sctx, slotKnownHead, slotKnownTail, slotKnownCount),
	}
}

func (s *Service) MinStake() (*big.Int, error) {
	return s.minStake.Get()
}

// Qualifies reports whether an active amount belongs in the set.
func (s *Service) Qualifies(active *big.Int) (bool, error) {
	if active.Sign() <= 0 {
		return false, nil
	}
	threshold, err := s.MinStake()
	if err != nil {
		return false, err
	}
	return active.Cmp(threshold) >= 0, nil
}

// Update re-evaluates the membership of staked after its active amount changed.
// It reports whether membership changed.
func (s *Service) Update(staked xl1.Address, active *big.Int) (bool, error) {
	if _, err := s.known.Add(staked); err != nil {
		return false, err
	}
	ok, err := s.Qualifies(active)
	if err != nil {
		return false, err
	}
	if ok {
		return s.set.Add(staked)
	}
	return s.set.Remove(staked)
}

// SetMinStake stores a new threshold and re-evaluates every staked address.
// Members that still qualify keep their position.
func (s *Service) SetMinStake(value *big.Int, activeOf ActiveFunc) error {
	if err := s.minStake.Set(value); err != nil {
		return err
	}
	return s.known.Iter(func(staked xl1.Address) error {
		active, err := activeOf(staked)
		if err != nil {
			return err
		}
		_, err = s.Update(staked, active)
		return err
	})
}

// Addresses lists the members in insertion order.
func (s *Service) Addresses() ([]xl1.Address, error) {
	return s.set.Addresses()
}

func (s *Service) Count() (uint64, error) {
	return s.set.Len()
}

func (s *Service) Contains(staked xl1.Address) (bool, error) {
	return s.set.Contains(staked)
}

// Known lists every address that ever received a stake.
func (s *Service) Known() ([]xl1.Address, error) {
	return s.known.Addresses()
}
