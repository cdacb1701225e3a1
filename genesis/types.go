// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"gopkg.in/yaml.v3"

	"github.com/xylabs/xl1-ledger/xl1"
)

// HexOrDecimal256 marshals big.Int as decimal and accepts hex or decimal input.
type HexOrDecimal256 big.Int

func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

func (i *HexOrDecimal256) Big() *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	bigint, ok := math.ParseBig256(node.Value)
	if !ok {
		return fmt.Errorf("line %d: invalid hex or decimal integer %q", node.Line, node.Value)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (i *HexOrDecimal256) MarshalYAML() (any, error) {
	return (*big.Int)(i).String(), nil
}

// Address accepts a hex encoded address.
type Address xl1.Address

func (a *Address) UnmarshalYAML(node *yaml.Node) error {
	addr, err := xl1.ParseAddress(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid address %q: %w", node.Line, node.Value, err)
	}
	*a = Address(addr)
	return nil
}

func (a Address) MarshalYAML() (any, error) {
	return xl1.Address(a).String(), nil
}

// Hash accepts a hex encoded 32 byte value.
type Hash xl1.Bytes32

func (h *Hash) UnmarshalYAML(node *yaml.Node) error {
	b, err := xl1.ParseBytes32(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid hash %q: %w", node.Line, node.Value, err)
	}
	*h = Hash(b)
	return nil
}

func (h Hash) MarshalYAML() (any, error) {
	return xl1.Bytes32(h).String(), nil
}
