// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xyochain

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	slotForkedChainID   = xl1.BytesToBytes32([]byte("forked-chain-id"))
	slotForkedAtBlock   = xl1.BytesToBytes32([]byte("forked-at-block-number"))
	slotForkedAtHash    = xl1.BytesToBytes32([]byte("forked-at-hash"))
	slotRewardsContract = xl1.BytesToBytes32([]byte("rewards-contract"))
	slotStakingContract = xl1.BytesToBytes32([]byte("staking-contract"))
)

// Fork identifies the chain and block this chain was forked from.
// The zero value means a fresh chain.
type Fork struct {
	ChainID     xl1.Address
	BlockNumber uint64
	Hash        xl1.Bytes32
}

// StakingParams is the part of the staking contract the chain exposes.
type StakingParams interface {
	StakingTokenAddress() (xl1.Address, error)
	MinWithdrawalBlocks() (uint32, error)
}

// Chain binder of the staked chain contract. Its address is the chain id.
type Chain struct {
	addr    xl1.Address
	staking StakingParams

	forkedChainID *solidity.Address
	forkedAtBlock *solidity.Uint256
	forkedAtHash  *solidity.Bytes32
	rewards       *solidity.Address
	stakingAddr   *solidity.Address
}

func New(addr xl1.Address, st *state.State, staking StakingParams) *Chain {
	sctx := solidity.NewContext(addr, st, nil)
	return &Chain{
		addr:    addr,
		staking: staking,

		forkedChainID: solidity.NewAddress(sctx, slotForkedChainID),
		forkedAtBlock: solidity.NewUint256(sctx, slotForkedAtBlock),
		forkedAtHash:  solidity.NewBytes32(sctx, slotForkedAtHash),
		rewards:       solidity.NewAddress(sctx, slotRewardsContract),
		stakingAddr:   solidity.NewAddress(sctx, slotStakingContract),
	}
}

// ChainID is the address of the chain contract.
func (c *Chain) ChainID() xl1.Address {
	return c.addr
}

// Initialize records the fork point and the companion contracts.
func (c *Chain) Initialize(fork Fork, rewards, staking xl1.Address) error {
	current, err := c.rewards.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.New("chain already initialized")
	}
	if rewards.IsZero() || staking.IsZero() {
		return errors.New("rewards and staking contracts required")
	}

	c.forkedChainID.Set(&fork.ChainID)
	if err := c.forkedAtBlock.Set(new(big.Int).SetUint64(fork.BlockNumber)); err != nil {
		return err
	}
	c.forkedAtHash.Set(&fork.Hash)
	c.rewards.Set(&rewards)
	c.stakingAddr.Set(&staking)
	return nil
}

func (c *Chain) Fork() (*Fork, error) {
	var (
		fork Fork
		err  error
	)
	if fork.ChainID, err = c.forkedChainID.Get(); err != nil {
		return nil, err
	}
	block, err := c.forkedAtBlock.Get()
	if err != nil {
		return nil, err
	}
	fork.BlockNumber = block.Uint64()
	if fork.Hash, err = c.forkedAtHash.Get(); err != nil {
		return nil, err
	}
	return &fork, nil
}

func (c *Chain) RewardsContract() (xl1.Address, error) {
	return c.rewards.Get()
}

func (c *Chain) StakingContract() (xl1.Address, error) {
	return c.stakingAddr.Get()
}

func (c *Chain) StakingTokenAddress() (xl1.Address, error) {
	return c.staking.StakingTokenAddress()
}

func (c *Chain) MinWithdrawalBlocks() (uint32, error) {
	return c.staking.MinWithdrawalBlocks()
}
