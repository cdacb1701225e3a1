// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/staker/delta"
)

var ErrNegativeTotal = errors.New("stake totals would become negative")

// Totals is the amount held in each stake bucket.
type Totals struct {
	Active    *big.Int
	Pending   *big.Int
	Withdrawn *big.Int
	Slashed   *big.Int
	Evicted   *big.Int
}

func NewTotals() *Totals {
	return &Totals{
		Active:    big.NewInt(0),
		Pending:   big.NewInt(0),
		Withdrawn: big.NewInt(0),
		Slashed:   big.NewInt(0),
		Evicted:   big.NewInt(0),
	}
}

// Normalize replaces nil buckets with zero, for records decoded from empty storage.
func (t *Totals) Normalize() *Totals {
	for _, p := range []**big.Int{&t.Active, &t.Pending, &t.Withdrawn, &t.Slashed, &t.Evicted} {
		if *p == nil {
			*p = big.NewInt(0)
		}
	}
	return t
}

// Apply adds d to t. t is left unchanged when any bucket would go negative.
func (t *Totals) Apply(d *delta.Delta) error {
	next := &Totals{
		Active:    new(big.Int).Add(t.Active, d.Active),
		Pending:   new(big.Int).Add(t.Pending, d.Pending),
		Withdrawn: new(big.Int).Add(t.Withdrawn, d.Withdrawn),
		Slashed:   new(big.Int).Add(t.Slashed, d.Slashed),
		Evicted:   new(big.Int).Add(t.Evicted, d.Evicted),
	}
	if next.Active.Sign() < 0 || next.Pending.Sign() < 0 || next.Withdrawn.Sign() < 0 ||
		next.Slashed.Sign() < 0 || next.Evicted.Sign() < 0 {
		return ErrNegativeTotal
	}
	*t = *next
	return nil
}

// Available is the slashable amount, active plus pending.
func (t *Totals) Available() *big.Int {
	return new(big.Int).Add(t.Active, t.Pending)
}

// Added is the sum of every stake ever added, recovered from the buckets.
func (t *Totals) Added() *big.Int {
	sum := new(big.Int).Add(t.Active, t.Pending)
	sum.Add(sum, t.Withdrawn)
	sum.Add(sum, t.Slashed)
	return sum.Add(sum, t.Evicted)
}
