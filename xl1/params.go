// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xl1

import "math/big"

// Deployment defaults of the staked chain contracts.
const (
	DefaultMinWithdrawalBlocks  uint32 = 3
	DefaultMaxStakersPerAddress uint64 = 10
	DefaultMinStake             int64  = 3
)

// NetworkStakingAddress is exempt from the per-address staker cap.
var NetworkStakingAddress = MustParseAddress("0x1969196919691969196919691969196919691969")

// Ether is 10^18, the base unit multiplier of the staking token.
var Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Tokens returns n whole tokens in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Ether)
}
