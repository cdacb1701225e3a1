// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/xylabs/xl1-ledger/xl1"
)

type contract struct {
	name    string
	Address xl1.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		xl1.BytesToAddress([]byte(name)),
	}
}

func (c *contract) Name() string {
	return c.name
}
