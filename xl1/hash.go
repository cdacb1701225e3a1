// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xl1

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
)

var blake2bPool = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Blake2b hashes the concatenation of data. Mapping slots and list
// positions in contract storage are derived with it.
func Blake2b(data ...[]byte) (out Bytes32) {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	h := blake2bPool.Get().(hash.Hash)
	for _, b := range data {
		h.Write(b)
	}
	h.Sum(out[:0])
	h.Reset()
	blake2bPool.Put(h)
	return
}
