// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import "math/big"

// Delta is a signed change to the five stake buckets produced by one state transition.
// The same delta is applied to the global, per-staker and per-staked totals.
type Delta struct {
	Active    *big.Int
	Pending   *big.Int
	Withdrawn *big.Int
	Slashed   *big.Int
	Evicted   *big.Int
}

func New() *Delta {
	return &Delta{
		Active:    big.NewInt(0),
		Pending:   big.NewInt(0),
		Withdrawn: big.NewInt(0),
		Slashed:   big.NewInt(0),
		Evicted:   big.NewInt(0),
	}
}

// Staked is a new stake entering the active bucket.
func Staked(amount *big.Int) *Delta {
	d := New()
	d.Active.Set(amount)
	return d
}

// Unstaked moves amount from active to pending.
func Unstaked(amount *big.Int) *Delta {
	d := New()
	d.Active.Neg(amount)
	d.Pending.Set(amount)
	return d
}

// Withdrawn moves amount from pending to withdrawn.
func Withdrawn(amount *big.Int) *Delta {
	d := New()
	d.Pending.Neg(amount)
	d.Withdrawn.Set(amount)
	return d
}

// Slashed takes the given amounts out of active and pending into slashed.
func Slashed(active, pending *big.Int) *Delta {
	d := New()
	d.Active.Neg(active)
	d.Pending.Neg(pending)
	d.Slashed.Add(active, pending)
	return d
}

// Evicted refunds amount straight out of the active bucket.
func Evicted(amount *big.Int) *Delta {
	d := New()
	d.Active.Neg(amount)
	d.Evicted.Set(amount)
	return d
}

// Add sets d to the sum of itself and other.
func (d *Delta) Add(other *Delta) *Delta {
	if other == nil {
		return d
	}
	d.Active.Add(d.Active, other.Active)
	d.Pending.Add(d.Pending, other.Pending)
	d.Withdrawn.Add(d.Withdrawn, other.Withdrawn)
	d.Slashed.Add(d.Slashed, other.Slashed)
	d.Evicted.Add(d.Evicted, other.Evicted)
	return d
}

// IsZero reports whether the delta changes nothing.
func (d *Delta) IsZero() bool {
	return d.Active.Sign() == 0 &&
		d.Pending.Sign() == 0 &&
		d.Withdrawn.Sign() == 0 &&
		d.Slashed.Sign() == 0 &&
		d.Evicted.Sign() == 0
}

// Net is the change of value held by the contract, negative when tokens leave.
func (d *Delta) Net() *big.Int {
	n := new(big.Int).Add(d.Active, d.Pending)
	return n.Add(n, d.Slashed)
}
