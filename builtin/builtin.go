// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/xylabs/xl1-ledger/blockclock"
	"github.com/xylabs/xl1-ledger/builtin/rewards"
	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker"
	"github.com/xylabs/xl1-ledger/builtin/token"
	"github.com/xylabs/xl1-ledger/builtin/xyochain"
	"github.com/xylabs/xl1-ledger/state"
)

// Builtin contracts binding.
var (
	Token   = &tokenContract{newContract("Token")}
	Staker  = &stakerContract{newContract("Staker")}
	Rewards = &rewardsContract{newContract("Rewards")}
	Chain   = &chainContract{newContract("Chain")}
)

type (
	tokenContract   struct{ *contract }
	stakerContract  struct{ *contract }
	rewardsContract struct{ *contract }
	chainContract   struct{ *contract }
)

// All lists every builtin contract.
func All() []*contract {
	return []*contract{Token.contract, Staker.contract, Rewards.contract, Chain.contract}
}

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

// Native binds the staking contract to the token contract on the same state.
func (s *stakerContract) Native(state *state.State, clock blockclock.Clock, access solidity.AccessFunc) *staker.Staker {
	return staker.New(s.Address, state, Token.WithState(state), clock, access)
}

func (r *rewardsContract) WithState(state *state.State) *rewards.Rewards {
	return rewards.New(r.Address, state)
}

func (c *chainContract) WithState(state *state.State, staking xyochain.StakingParams) *xyochain.Chain {
	return xyochain.New(c.Address, state, staking)
}
