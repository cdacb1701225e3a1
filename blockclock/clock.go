// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package blockclock supplies the current block number to the ledger.
package blockclock

import "sync/atomic"

// Clock reports the current block number. It never decreases.
type Clock interface {
	CurrentBlock() uint32
}

// Manual is a Clock advanced explicitly. The first block is 1; block 0 is genesis.
type Manual struct {
	block atomic.Uint32
}

func NewManual() *Manual {
	return NewManualAt(1)
}

// NewManualAt starts the clock at block, clamped to at least 1.
func NewManualAt(block uint32) *Manual {
	m := &Manual{}
	m.block.Store(max(block, 1))
	return m
}

func (m *Manual) CurrentBlock() uint32 {
	return m.block.Load()
}

// Advance moves the clock n blocks forward and returns the new block.
func (m *Manual) Advance(n uint32) uint32 {
	return m.block.Add(n)
}

// AdvanceTo moves the clock to block if it is ahead of the current one.
func (m *Manual) AdvanceTo(block uint32) uint32 {
	for {
		cur := m.block.Load()
		if block <= cur {
			return cur
		}
		if m.block.CompareAndSwap(cur, block) {
			return block
		}
	}
}
