// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package aggregation

import (
	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker/delta"
	"github.com/xylabs/xl1-ledger/builtin/staker/stakes"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	slotByStaker = xl1.BytesToBytes32([]byte("totals-by-staker"))
	slotByStaked = xl1.BytesToBytes32([]byte("totals-by-staked"))
)

// Service keeps stake totals per staker and per staked address.
type Service struct {
	byStaker *solidity.Mapping[xl1.Address, *stakes.Totals]
	byStaked *solidity.Mapping[xl1.Address, *stakes.Totals]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		byStaker: solidity.NewMapping[xl1.Address, *stakes.Totals](sctx, slotByStaker),
		byStaked: solidity.NewMapping[xl1.Address, *stakes.Totals](sctx, slotByStaked),
	}
}

// ByStaker returns the staker's totals, zero for unknown addresses.
func (s *Service) ByStaker(staker xl1.Address) (*stakes.Totals, error) {
	t, err := s.byStaker.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker totals")
	}
	return t.Normalize(), nil
}

// ByStaked returns the totals credited to staked, zero for unknown addresses.
func (s *Service) ByStaked(staked xl1.Address) (*stakes.Totals, error) {
	t, err := s.byStaked.Get(staked)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staked totals")
	}
	return t.Normalize(), nil
}

// Apply records a transition of a stake opened by staker for staked.
func (s *Service) Apply(staker, staked xl1.Address, d *delta.Delta) error {
	st, err := s.ByStaker(staker)
	if err != nil {
		return err
	}
	if err := st.Apply(d); err != nil {
		return errors.Wrapf(err, "staker %v", staker)
	}
	if err := s.byStaker.Set(staker, st); err != nil {
		return err
	}

	sd, err := s.ByStaked(staked)
	if err != nil {
		return err
	}
	if err := sd.Apply(d); err != nil {
		return errors.Wrapf(err, "staked %v", staked)
	}
	return s.byStaked.Set(staked, sd)
}
