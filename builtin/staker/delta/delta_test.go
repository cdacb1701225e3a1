// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delta

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	d := New()
	assert.True(t, d.IsZero())
	assert.Equal(t, big.NewInt(0), d.Active)
	assert.Equal(t, big.NewInt(0), d.Evicted)
}

func TestTransitions(t *testing.T) {
	amount := big.NewInt(100)

	staked := Staked(amount)
	assert.Equal(t, big.NewInt(100), staked.Active)
	assert.Equal(t, big.NewInt(100), staked.Net())

	unstaked := Unstaked(amount)
	assert.Equal(t, big.NewInt(-100), unstaked.Active)
	assert.Equal(t, big.NewInt(100), unstaked.Pending)
	assert.Equal(t, 0, unstaked.Net().Sign())

	withdrawn := Withdrawn(amount)
	assert.Equal(t, big.NewInt(-100), withdrawn.Net())

	slashed := Slashed(big.NewInt(30), big.NewInt(20))
	assert.Equal(t, big.NewInt(-30), slashed.Active)
	assert.Equal(t, big.NewInt(-20), slashed.Pending)
	assert.Equal(t, big.NewInt(50), slashed.Slashed)
	assert.Equal(t, 0, slashed.Net().Sign())

	evicted := Evicted(amount)
	assert.Equal(t, big.NewInt(-100), evicted.Net())

	// the input amount is not aliased
	amount.SetInt64(1)
	assert.Equal(t, big.NewInt(100), staked.Active)
}

func TestDelta_Add(t *testing.T) {
	d := Staked(big.NewInt(100))
	got := d.Add(Unstaked(big.NewInt(40))).Add(Withdrawn(big.NewInt(40))).Add(nil)
	assert.Same(t, d, got)
	assert.Equal(t, big.NewInt(60), got.Active)
	assert.Equal(t, 0, got.Pending.Sign())
	assert.Equal(t, big.NewInt(40), got.Withdrawn)
	assert.False(t, got.IsZero())
}
