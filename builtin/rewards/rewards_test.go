// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/lvldb"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

func cfgOf(initial, step, num, den, minimum, genesis, floor uint64) *Config {
	return &Config{
		InitialReward:         uint256.NewInt(initial),
		StepSize:              uint256.NewInt(step),
		StepFactorNumerator:   uint256.NewInt(num),
		StepFactorDenominator: uint256.NewInt(den),
		MinRewardPerBlock:     uint256.NewInt(minimum),
		GenesisReward:         uint256.NewInt(genesis),
		FloorPlaces:           uint256.NewInt(floor),
	}
}

func mustReward(t *testing.T, block uint64, cfg *Config) uint64 {
	v, err := CalcBlockRewardPure(block, cfg)
	require.NoError(t, err)
	return v.Uint64()
}

func TestCalcBlockRewardPure(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		block    uint64
		expected uint64
	}{
		{"genesis", DefaultConfig(), 0, 5000},
		{"before first step", DefaultConfig(), 99, 1000},
		{"one step", DefaultConfig(), 100, 900},
		{"two steps", DefaultConfig(), 200, 810},
		{"floored", DefaultConfig(), 1000, 340},
		{"clamped to min", DefaultConfig(), 10_000, 100},
		{"floor two places", cfgOf(1234, 1, 95, 100, 1, 0, 2), 1, 1100},
		{"halving to min", cfgOf(5, 1, 1, 2, 2, 0, 0), 10, 2},
		{"large block", DefaultConfig(), ^uint64(0), 100},
		{"zero min decays to zero", cfgOf(8, 1, 1, 2, 0, 0, 0), 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustReward(t, tt.block, tt.cfg))
		})
	}
}

func TestCalcBlockRewardPure_MonotonicDecay(t *testing.T) {
	cfg := DefaultConfig()
	prev := mustReward(t, 1, cfg)
	for block := uint64(2); block < 5000; block += 7 {
		cur := mustReward(t, block, cfg)
		assert.LessOrEqual(t, cur, prev, "block %d", block)
		prev = cur
	}
}

func TestCalcBlockRewardPure_Rejections(t *testing.T) {
	_, err := CalcBlockRewardPure(1, cfgOf(1, 0, 1, 1, 0, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = CalcBlockRewardPure(1, cfgOf(1, 1, 1, 0, 0, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = CalcBlockRewardPure(1, &Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	growing := cfgOf(0, 1, 2, 1, 0, 0, 0)
	growing.InitialReward = new(uint256.Int).SetAllOne()
	_, err = CalcBlockRewardPure(1, growing)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCalcBlockRewardPure_HugeFloor(t *testing.T) {
	cfg := cfgOf(1000, 1, 1, 1, 7, 0, 0)
	cfg.FloorPlaces = uint256.NewInt(80)
	assert.Equal(t, uint64(7), mustReward(t, 3, cfg))
}

func TestCalcBlockRewardPure_SlowDecay(t *testing.T) {
	const initial = 1_000_000_000_000_000_000
	slow := cfgOf(initial, 1, 999_999_999, 1_000_000_000, 0, 0, 0)

	// a few steps are computed exactly
	assert.Equal(t, uint64(initial-1_000_000_000), mustReward(t, 1, slow))

	// never reaching the minimum within the limit is rejected instead of spinning
	_, err := CalcBlockRewardPure(^uint64(0), slow)
	assert.ErrorIs(t, err, ErrCurveTooLong)

	// the same decay settles once the floored reward reaches a nearby minimum
	settling := cfgOf(initial, 1, 999_999_999, 1_000_000_000, initial-1_000_000_000_000, 0, 0)
	assert.Equal(t, uint64(initial-1_000_000_000_000), mustReward(t, ^uint64(0), settling))
}

func TestRewardsContract(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	r := New(xl1.BytesToAddress([]byte("rewards")), state.New(db))

	ok, err := r.Initialized()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Initialize(DefaultConfig()))
	assert.Error(t, r.Initialize(DefaultConfig()))

	cfg, err := r.Config()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.GenesisReward.Dec())
	assert.Equal(t, "1", cfg.FloorPlaces.Dec())

	for _, block := range []uint64{0, 1, 100, 150, 1000} {
		stored, err := r.CalcBlockReward(block)
		require.NoError(t, err)
		assert.Equal(t, mustReward(t, block, DefaultConfig()), stored.Uint64())
	}
}

func TestConfigCopy(t *testing.T) {
	cfg := DefaultConfig()
	cpy := cfg.Copy()
	cpy.InitialReward.SetUint64(1)
	assert.Equal(t, uint64(1000), cfg.InitialReward.Uint64())
}
