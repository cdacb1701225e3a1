// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/xylabs/xl1-ledger/xl1"
)

type Bytes32 struct {
	context *Context
	pos     xl1.Bytes32
}

func NewBytes32(context *Context, pos xl1.Bytes32) *Bytes32 {
	return &Bytes32{context: context, pos: pos}
}

func (b *Bytes32) Get() (xl1.Bytes32, error) {
	return b.context.state.GetStorage(b.context.address, b.pos)
}

func (b *Bytes32) Set(bytes *xl1.Bytes32) {
	if bytes == nil {
		bytes = &xl1.Bytes32{}
	}
	b.context.state.SetStorage(b.context.address, b.pos, *bytes)
}
