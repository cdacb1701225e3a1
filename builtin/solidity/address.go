// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/xylabs/xl1-ledger/xl1"
)

// Address is a wrapper for storage and retrieval of an address. Similar to storing an address in a smart contract.
type Address struct {
	context *Context
	pos     xl1.Bytes32
}

func NewAddress(context *Context, pos xl1.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (xl1.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return xl1.Address{}, err
	}
	return xl1.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr *xl1.Address) {
	var storage xl1.Bytes32
	if addr != nil {
		storage = xl1.BytesToBytes32(addr.Bytes())
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
