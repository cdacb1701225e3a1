// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/xylabs/xl1-ledger/state"
	"github.com/xylabs/xl1-ledger/xl1"
)

// AccessFunc observes storage traffic. slots is the number of 32 byte words touched.
type AccessFunc func(write bool, slots uint64)

type Context struct {
	address xl1.Address
	state   *state.State
	access  AccessFunc
}

func NewContext(address xl1.Address, state *state.State, access AccessFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		access:  access,
	}
}

func (c *Context) Address() xl1.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) touch(write bool, size int) {
	if c.access != nil {
		c.access(write, (uint64(size)+31)/32)
	}
}
