// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts lookups of a cache. It is safe for concurrent use.
type Stats struct {
	hit, miss atomic.Int64
	// hit rate in permille at the previous Stats call
	lastRate atomic.Int64
}

func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// HitRate returns hits per thousand lookups.
func (cs *Stats) HitRate() int64 {
	return permille(cs.hit.Load(), cs.miss.Load())
}

// Stats returns the counters and whether the hit rate moved since the
// previous call, so callers only republish gauges when something changed.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit, miss = cs.hit.Load(), cs.miss.Load()
	rate := permille(hit, miss)
	return cs.lastRate.Swap(rate) != rate, hit, miss
}

func permille(hit, miss int64) int64 {
	if hit+miss == 0 {
		return 0
	}
	return hit * 1000 / (hit + miss)
}
