// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow      = errors.New("rewards: arithmetic overflow")
	ErrInvalidConfig = errors.New("rewards: invalid config")
	ErrCurveTooLong  = errors.New("rewards: curve does not settle within the step limit")
)

// Config parameterises the block reward decay curve.
type Config struct {
	InitialReward         *uint256.Int
	StepSize              *uint256.Int
	StepFactorNumerator   *uint256.Int
	StepFactorDenominator *uint256.Int
	MinRewardPerBlock     *uint256.Int
	GenesisReward         *uint256.Int
	FloorPlaces           *uint256.Int
}

// DefaultConfig returns the deployment defaults.
func DefaultConfig() *Config {
	return &Config{
		InitialReward:         uint256.NewInt(1000),
		StepSize:              uint256.NewInt(100),
		StepFactorNumerator:   uint256.NewInt(9),
		StepFactorDenominator: uint256.NewInt(10),
		MinRewardPerBlock:     uint256.NewInt(100),
		GenesisReward:         uint256.NewInt(5000),
		FloorPlaces:           uint256.NewInt(1),
	}
}

func (c *Config) fields() []**uint256.Int {
	return []**uint256.Int{
		&c.InitialReward,
		&c.StepSize,
		&c.StepFactorNumerator,
		&c.StepFactorDenominator,
		&c.MinRewardPerBlock,
		&c.GenesisReward,
		&c.FloorPlaces,
	}
}

// Validate checks that every field is set and the curve is computable.
func (c *Config) Validate() error {
	for _, f := range c.fields() {
		if *f == nil {
			return ErrInvalidConfig
		}
	}
	if c.StepSize.IsZero() {
		return errors.Join(ErrInvalidConfig, errors.New("step size is zero"))
	}
	if c.StepFactorDenominator.IsZero() {
		return errors.Join(ErrInvalidConfig, errors.New("step factor denominator is zero"))
	}
	return nil
}

// Copy returns a deep copy.
func (c *Config) Copy() *Config {
	cpy := &Config{}
	src := c.fields()
	for i, f := range cpy.fields() {
		if *src[i] != nil {
			*f = (*src[i]).Clone()
		}
	}
	return cpy
}
