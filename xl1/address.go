// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xl1

import (
	"encoding"

	"github.com/ethereum/go-ethereum/common"
)

const AddressLength = common.AddressLength

var (
	_ encoding.TextMarshaler   = Address{}
	_ encoding.TextUnmarshaler = (*Address)(nil)
)

// Address identifies stakers, staked addresses and the builtin contracts.
type Address common.Address

func (a Address) String() string { return encodeHex(a[:]) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) IsZero() bool { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes 40 hex digits, optionally 0x-prefixed.
func ParseAddress(s string) (a Address, err error) {
	if err = decodeFixedHex(s, a[:]); err != nil {
		return Address{}, err
	}
	return a, nil
}

func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress left-pads b, or keeps its last 20 bytes when longer.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
