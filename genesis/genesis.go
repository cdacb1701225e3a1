// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xylabs/xl1-ledger/blockclock"
	"github.com/xylabs/xl1-ledger/builtin"
	"github.com/xylabs/xl1-ledger/builtin/rewards"
	"github.com/xylabs/xl1-ledger/builtin/staker"
	"github.com/xylabs/xl1-ledger/builtin/xyochain"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

// Genesis is the deployment document of a ledger.
type Genesis struct {
	Owner       Address      `yaml:"owner"`
	Fork        Fork         `yaml:"fork"`
	Staking     Staking      `yaml:"staking"`
	Rewards     Rewards      `yaml:"rewards"`
	Allocations []Allocation `yaml:"allocations"`
}

// Fork is the point the chain was forked from.
type Fork struct {
	ChainID     Address `yaml:"chainId"`
	BlockNumber uint64  `yaml:"blockNumber"`
	Hash        Hash    `yaml:"hash"`
}

// Staking holds the staking contract parameters.
type Staking struct {
	MinWithdrawalBlocks    uint32           `yaml:"minWithdrawalBlocks"`
	MaxStakersPerAddress   uint64           `yaml:"maxStakersPerAddress"`
	UnlimitedStakerAddress Address          `yaml:"unlimitedStakerAddress"`
	MinStake               *HexOrDecimal256 `yaml:"minStake"`
}

// Rewards holds the reward curve.
type Rewards struct {
	InitialReward         *HexOrDecimal256 `yaml:"initialReward"`
	StepSize              *HexOrDecimal256 `yaml:"stepSize"`
	StepFactorNumerator   *HexOrDecimal256 `yaml:"stepFactorNumerator"`
	StepFactorDenominator *HexOrDecimal256 `yaml:"stepFactorDenominator"`
	MinRewardPerBlock     *HexOrDecimal256 `yaml:"minRewardPerBlock"`
	GenesisReward         *HexOrDecimal256 `yaml:"genesisReward"`
	FloorPlaces           *HexOrDecimal256 `yaml:"floorPlaces"`
}

// Allocation mints balance to address at genesis.
type Allocation struct {
	Address Address          `yaml:"address"`
	Balance *HexOrDecimal256 `yaml:"balance"`
}

// Default returns the deployment defaults with owner as contract owner.
func Default(owner xl1.Address) *Genesis {
	cfg := rewards.DefaultConfig()
	return &Genesis{
		Owner: Address(owner),
		Staking: Staking{
			MinWithdrawalBlocks:    xl1.DefaultMinWithdrawalBlocks,
			MaxStakersPerAddress:   xl1.DefaultMaxStakersPerAddress,
			UnlimitedStakerAddress: Address(xl1.NetworkStakingAddress),
			MinStake:               NewHexOrDecimal256(big.NewInt(xl1.DefaultMinStake)),
		},
		Rewards: Rewards{
			InitialReward:         NewHexOrDecimal256(cfg.InitialReward.ToBig()),
			StepSize:              NewHexOrDecimal256(cfg.StepSize.ToBig()),
			StepFactorNumerator:   NewHexOrDecimal256(cfg.StepFactorNumerator.ToBig()),
			StepFactorDenominator: NewHexOrDecimal256(cfg.StepFactorDenominator.ToBig()),
			MinRewardPerBlock:     NewHexOrDecimal256(cfg.MinRewardPerBlock.ToBig()),
			GenesisReward:         NewHexOrDecimal256(cfg.GenesisReward.ToBig()),
			FloorPlaces:           NewHexOrDecimal256(cfg.FloorPlaces.ToBig()),
		},
	}
}

// Parse decodes a YAML document. Missing fields keep the defaults.
func Parse(data []byte) (*Genesis, error) {
	gen := Default(xl1.Address{})
	if err := yaml.Unmarshal(data, gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return gen, nil
}

// Load reads and parses the YAML document at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Validate checks the document can be deployed.
func (g *Genesis) Validate() error {
	if xl1.Address(g.Owner).IsZero() {
		return errors.New("genesis: owner required")
	}
	if g.Staking.MinStake == nil || g.Staking.MinStake.Big().Sign() < 0 {
		return errors.New("genesis: invalid min stake")
	}
	if _, err := g.RewardConfig(); err != nil {
		return errors.Wrap(err, "genesis")
	}
	for i, alloc := range g.Allocations {
		if alloc.Balance == nil || alloc.Balance.Big().Sign() < 0 {
			return errors.Errorf("genesis: invalid balance of allocation %d", i)
		}
	}
	return nil
}

// RewardConfig converts the reward section into a validated config.
func (g *Genesis) RewardConfig() (*rewards.Config, error) {
	r := g.Rewards
	values := []*HexOrDecimal256{
		r.InitialReward, r.StepSize, r.StepFactorNumerator, r.StepFactorDenominator,
		r.MinRewardPerBlock, r.GenesisReward, r.FloorPlaces,
	}
	ints := make([]*uint256.Int, len(values))
	for i, v := range values {
		if v == nil {
			return nil, rewards.ErrInvalidConfig
		}
		n, overflow := uint256.FromBig(v.Big())
		if overflow || v.Big().Sign() < 0 {
			return nil, errors.Wrap(rewards.ErrInvalidConfig, "value out of range")
		}
		ints[i] = n
	}
	cfg := &rewards.Config{
		InitialReward:         ints[0],
		StepSize:              ints[1],
		StepFactorNumerator:   ints[2],
		StepFactorDenominator: ints[3],
		MinRewardPerBlock:     ints[4],
		GenesisReward:         ints[5],
		FloorPlaces:           ints[6],
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StakingParams converts the staking section.
func (g *Genesis) StakingParams() staker.Params {
	return staker.Params{
		Owner:                  xl1.Address(g.Owner),
		Token:                  builtin.Token.Address,
		MinWithdrawalBlocks:    g.Staking.MinWithdrawalBlocks,
		MaxStakersPerAddress:   g.Staking.MaxStakersPerAddress,
		UnlimitedStakerAddress: xl1.Address(g.Staking.UnlimitedStakerAddress),
		MinStake:               g.Staking.MinStake.Big(),
	}
}

// Encode returns the canonical YAML form.
func (g *Genesis) Encode() ([]byte, error) {
	return yaml.Marshal(g)
}

// ID identifies the document. Ledgers refuse to reopen under a different one.
func (g *Genesis) ID() (xl1.Bytes32, error) {
	data, err := g.Encode()
	if err != nil {
		return xl1.Bytes32{}, err
	}
	return xl1.Blake2b(data), nil
}

// Builder returns a builder that deploys the builtin contracts.
func (g *Genesis) Builder() (*Builder, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	cfg, err := g.RewardConfig()
	if err != nil {
		return nil, err
	}
	fork := xyochain.Fork{
		ChainID:     xl1.Address(g.Fork.ChainID),
		BlockNumber: g.Fork.BlockNumber,
		Hash:        xl1.Bytes32(g.Fork.Hash),
	}

	return new(Builder).
		State(func(st *state.State) error {
			token := builtin.Token.WithState(st)
			for _, alloc := range g.Allocations {
				if err := token.Mint(xl1.Address(alloc.Address), alloc.Balance.Big()); err != nil {
					return errors.Wrap(err, "mint allocation")
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			return builtin.Rewards.WithState(st).Initialize(cfg)
		}).
		State(func(st *state.State) error {
			// deployment does not read the clock
			s := builtin.Staker.Native(st, blockclock.NewManual(), nil)
			if err := s.Initialize(g.StakingParams()); err != nil {
				return err
			}
			return builtin.Chain.WithState(st, s).Initialize(fork, builtin.Rewards.Address, builtin.Staker.Address)
		}), nil
}

// Build deploys the builtin contracts into st and commits it.
func (g *Genesis) Build(st *state.State) error {
	b, err := g.Builder()
	if err != nil {
		return err
	}
	return b.Build(st)
}
