// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"
)

var ten = uint256.NewInt(10)

// maxCurveIterations bounds the factor applications a single lookup may run.
// Curves that neither settle nor overflow within it are rejected.
const maxCurveIterations = 1 << 20

// CalcBlockRewardPure computes the reward of block under cfg.
//
// Block 0 pays the genesis reward. Any other block starts from the initial
// reward and applies the step factor once per completed step, then floors the
// result to FloorPlaces decimal places and clamps it up to MinRewardPerBlock.
func CalcBlockRewardPure(block uint64, cfg *Config) (*uint256.Int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if block == 0 {
		return cfg.GenesisReward.Clone(), nil
	}

	steps := new(uint256.Int).Div(uint256.NewInt(block), cfg.StepSize).Uint64()
	reward := cfg.InitialReward.Clone()
	decays := cfg.StepFactorNumerator.Cmp(cfg.StepFactorDenominator) <= 0
	for i := uint64(0); i < steps; i++ {
		// further steps can no longer lower the clamped result
		if decays && floor(reward, cfg.FloorPlaces).Cmp(cfg.MinRewardPerBlock) <= 0 {
			break
		}
		if i == maxCurveIterations {
			return nil, ErrCurveTooLong
		}
		next, overflow := new(uint256.Int).MulDivOverflow(reward, cfg.StepFactorNumerator, cfg.StepFactorDenominator)
		if overflow {
			return nil, ErrOverflow
		}
		if next.Eq(reward) {
			break
		}
		reward = next
	}

	reward = floor(reward, cfg.FloorPlaces)
	if reward.Lt(cfg.MinRewardPerBlock) {
		reward = cfg.MinRewardPerBlock.Clone()
	}
	return reward, nil
}

// floor drops the lowest places decimal digits of v.
func floor(v, places *uint256.Int) *uint256.Int {
	// 10^78 exceeds 2^256, every value floors to zero
	if !places.IsUint64() || places.Uint64() >= 78 {
		return new(uint256.Int)
	}
	unit := new(uint256.Int).Exp(ten, places)
	rest := new(uint256.Int).Mod(v, unit)
	return new(uint256.Int).Sub(v, rest)
}
