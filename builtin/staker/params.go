// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/xylabs/xl1-ledger/xl1"
)

// Params are the deployment arguments of the staking contract.
type Params struct {
	Owner                  xl1.Address
	Token                  xl1.Address
	MinWithdrawalBlocks    uint32
	MaxStakersPerAddress   uint64
	UnlimitedStakerAddress xl1.Address
	MinStake               *big.Int
}

// DefaultParams returns the deployment defaults for the given owner and token.
func DefaultParams(owner, token xl1.Address) Params {
	return Params{
		Owner:                  owner,
		Token:                  token,
		MinWithdrawalBlocks:    xl1.DefaultMinWithdrawalBlocks,
		MaxStakersPerAddress:   xl1.DefaultMaxStakersPerAddress,
		UnlimitedStakerAddress: xl1.NetworkStakingAddress,
		MinStake:               big.NewInt(xl1.DefaultMinStake),
	}
}
