// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

var slotNames = []string{
	"initial-reward",
	"step-size",
	"step-factor-numerator",
	"step-factor-denominator",
	"min-reward-per-block",
	"genesis-reward",
	"floor-places",
}

// Rewards binder of the block rewards contract. The config is written once.
type Rewards struct {
	addr  xl1.Address
	state *state.State
	slots []*solidity.Uint256
}

func New(addr xl1.Address, st *state.State) *Rewards {
	sctx := solidity.NewContext(addr, st, nil)
	slots := make([]*solidity.Uint256, len(slotNames))
	for i, name := range slotNames {
		slots[i] = solidity.NewUint256(sctx, xl1.BytesToBytes32([]byte(name)))
	}
	return &Rewards{addr: addr, state: st, slots: slots}
}

func (r *Rewards) Address() xl1.Address {
	return r.addr
}

// Initialized reports whether a config has been stored.
func (r *Rewards) Initialized() (bool, error) {
	// step size is never zero in a valid config
	v, err := r.slots[1].Get()
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

// Initialize stores cfg. It fails if the contract already holds a config.
func (r *Rewards) Initialize(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ok, err := r.Initialized()
	if err != nil {
		return err
	}
	if ok {
		return errors.New("rewards config is immutable")
	}

	rev := r.state.NewCheckpoint()
	for i, f := range cfg.fields() {
		if err := r.slots[i].Set((*f).ToBig()); err != nil {
			r.state.RevertTo(rev)
			return errors.Wrapf(err, "set %s", slotNames[i])
		}
	}
	return nil
}

// Config returns the stored config.
func (r *Rewards) Config() (*Config, error) {
	cfg := &Config{}
	for i, f := range cfg.fields() {
		v, err := r.slots[i].Get()
		if err != nil {
			return nil, errors.Wrapf(err, "get %s", slotNames[i])
		}
		*f = uint256.MustFromBig(v)
	}
	return cfg, nil
}

// CalcBlockReward computes the reward of block with the stored config.
func (r *Rewards) CalcBlockReward(block uint64) (*uint256.Int, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, err
	}
	return CalcBlockRewardPure(block, cfg)
}
