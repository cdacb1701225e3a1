// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random ledger identifiers for tests.
package datagen

import (
	"crypto/rand"

	"github.com/xylabs/xl1-ledger/xl1"
)

func RandAddress() (addr xl1.Address) {
	rand.Read(addr[:])
	return
}

// RandAddresses returns n distinct addresses.
func RandAddresses(n int) []xl1.Address {
	seen := make(map[xl1.Address]struct{}, n)
	addrs := make([]xl1.Address, 0, n)
	for len(addrs) < n {
		addr := RandAddress()
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		addrs = append(addrs, addr)
	}
	return addrs
}

// RandBytes32 returns a random fork hash or storage key.
func RandBytes32() (b xl1.Bytes32) {
	rand.Read(b[:])
	return
}
