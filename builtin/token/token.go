// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the ERC20 style staking token held in contract storage.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/builtin/staker/reverts"
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

var (
	slotTotalSupply = xl1.BytesToBytes32([]byte("total-supply"))
	slotBalances    = xl1.BytesToBytes32([]byte("balances"))
	slotAllowances  = xl1.BytesToBytes32([]byte("allowances"))
)

type allowanceKey struct {
	owner   xl1.Address
	spender xl1.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

type Token struct {
	addr        xl1.Address
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[xl1.Address, *big.Int]
	allowances  *solidity.Mapping[allowanceKey, *big.Int]
}

func New(addr xl1.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state, nil)
	return &Token{
		addr:        addr,
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[xl1.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *big.Int](sctx, slotAllowances),
	}
}

// Address of the token contract.
func (t *Token) Address() xl1.Address {
	return t.addr
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr xl1.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) Allowance(owner, spender xl1.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey{owner, spender})
}

// Mint creates amount new tokens owned by to.
func (t *Token) Mint(to xl1.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative mint amount")
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.balances.Set(to, bal.Add(bal, amount))
}

// Approve sets the amount spender may move on behalf of owner.
func (t *Token) Approve(owner, spender xl1.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative allowance")
	}
	return t.allowances.Set(allowanceKey{owner, spender}, new(big.Int).Set(amount))
}

// Transfer moves amount from one balance to another.
func (t *Token) Transfer(from, to xl1.Address, amount *big.Int) error {
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.ErrExceedsBalance
	}
	if err := t.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.balances.Set(to, toBal.Add(toBal, amount))
}

// TransferFrom moves amount from one balance to another using the allowance granted to spender.
func (t *Token) TransferFrom(spender, from, to xl1.Address, amount *big.Int) error {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return reverts.ErrAllowanceExceeded
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.allowances.Set(allowanceKey{from, spender}, allowance.Sub(allowance, amount))
}
