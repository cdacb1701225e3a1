// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	slotNextID      = xl1.BytesToBytes32([]byte("stake-next-id"))
	slotStakes      = xl1.BytesToBytes32([]byte("stakes"))
	slotStakerSlots = xl1.BytesToBytes32([]byte("staker-slots"))
	slotSlotIndex   = xl1.BytesToBytes32([]byte("staker-slot-index"))
	slotStakedCount = xl1.BytesToBytes32([]byte("staked-stakes"))
	slotStakedIndex = xl1.BytesToBytes32([]byte("staked-stake-index"))
)

// indexKey addresses the n-th entry of a per-address index.
type indexKey struct {
	addr xl1.Address
	n    uint64
}

func (k indexKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.addr.Bytes(), k.n)
}

// Service stores stake records and the per-staker and per-staked indexes over them.
type Service struct {
	nextID      *solidity.Uint256
	stakes      *solidity.Mapping[ID, *Stake]
	stakerSlots *solidity.Mapping[xl1.Address, uint64]
	slotIndex   *solidity.Mapping[indexKey, uint64]
	stakedCount *solidity.Mapping[xl1.Address, uint64]
	stakedIndex *solidity.Mapping[indexKey, uint64]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		nextID:      solidity.NewUint256(sctx, slotNextID),
		stakes:      solidity.NewMapping[ID, *Stake](sctx, slotStakes),
		stakerSlots: solidity.NewMapping[xl1.Address, uint64](sctx, slotStakerSlots),
		slotIndex:   solidity.NewMapping[indexKey, uint64](sctx, slotSlotIndex),
		stakedCount: solidity.NewMapping[xl1.Address, uint64](sctx, slotStakedCount),
		stakedIndex: solidity.NewMapping[indexKey, uint64](sctx, slotStakedIndex),
	}
}

// Count returns the number of stakes ever created.
func (s *Service) Count() (uint64, error) {
	n, err := s.nextID.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Create records a new active stake at the staker's next slot.
func (s *Service) Create(staker, staked xl1.Address, amount *big.Int, block uint32) (*Stake, error) {
	id, err := s.Count()
	if err != nil {
		return nil, err
	}
	slot, err := s.stakerSlots.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker slots")
	}
	n, err := s.stakedCount.Get(staked)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staked index")
	}

	stake := &Stake{
		ID:       id,
		Staker:   staker,
		Staked:   staked,
		Amount:   new(big.Int).Set(amount),
		Slot:     slot,
		AddBlock: block,
		Slashed:  new(big.Int),
	}
	if err := s.stakes.Set(ID(id), stake); err != nil {
		return nil, errors.Wrap(err, "failed to set stake")
	}
	if err := s.slotIndex.Set(indexKey{staker, slot}, id); err != nil {
		return nil, err
	}
	if err := s.stakerSlots.Set(staker, slot+1); err != nil {
		return nil, err
	}
	if err := s.stakedIndex.Set(indexKey{staked, n}, id); err != nil {
		return nil, err
	}
	if err := s.stakedCount.Set(staked, n+1); err != nil {
		return nil, err
	}
	if err := s.nextID.Add(big.NewInt(1)); err != nil {
		return nil, err
	}
	return stake, nil
}

// Get returns the stake with the given id, nil if it does not exist.
func (s *Service) Get(id uint64) (*Stake, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, nil
	}
	stake, err := s.stakes.Get(ID(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	stake.normalize()
	return stake, nil
}

// GetBySlot returns the staker's stake at slot, nil if it does not exist.
func (s *Service) GetBySlot(staker xl1.Address, slot uint64) (*Stake, error) {
	slots, err := s.SlotCount(staker)
	if err != nil {
		return nil, err
	}
	if slot >= slots {
		return nil, nil
	}
	id, err := s.slotIndex.Get(indexKey{staker, slot})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Update overwrites an existing stake record.
func (s *Service) Update(stake *Stake) error {
	return errors.Wrap(s.stakes.Set(ID(stake.ID), stake), "failed to update stake")
}

// SlotCount is the number of stakes ever opened by staker.
func (s *Service) SlotCount(staker xl1.Address) (uint64, error) {
	return s.stakerSlots.Get(staker)
}

// IterStaker visits the staker's stakes in slot order.
func (s *Service) IterStaker(staker xl1.Address, fn func(*Stake) error) error {
	slots, err := s.SlotCount(staker)
	if err != nil {
		return err
	}
	for slot := range slots {
		stake, err := s.GetBySlot(staker, slot)
		if err != nil {
			return err
		}
		if err := fn(stake); err != nil {
			return err
		}
	}
	return nil
}

// IterStaked visits all stakes credited to staked in id order.
func (s *Service) IterStaked(staked xl1.Address, fn func(*Stake) error) error {
	n, err := s.stakedCount.Get(staked)
	if err != nil {
		return err
	}
	for i := range n {
		id, err := s.stakedIndex.Get(indexKey{staked, i})
		if err != nil {
			return err
		}
		stake, err := s.Get(id)
		if err != nil {
			return err
		}
		if err := fn(stake); err != nil {
			return err
		}
	}
	return nil
}
