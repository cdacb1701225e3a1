// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/test/datagen"
)

func TestLedgerDefault(t *testing.T) {
	l, err := NewDefault()
	require.NoError(t, err)
	defer l.Close()

	staker, staked := datagen.RandAddress(), datagen.RandAddress()
	_, err = l.Stake(staker, staked, big.NewInt(10))
	require.NoError(t, err)
	_, err = l.Stake(staker, staked, big.NewInt(5))
	require.NoError(t, err)

	require.NoError(t, l.View(func(v *ledger.View) error {
		active, err := v.Staker.ActiveByStaker(staker)
		require.NoError(t, err)
		assert.Equal(t, "15", active.String())

		owner, err := v.Staker.Owner()
		require.NoError(t, err)
		assert.Equal(t, l.Owner(), owner)
		return nil
	}))
}
