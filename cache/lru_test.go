// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/cache"
)

func TestLRU(t *testing.T) {
	_, err := cache.NewLRU[int, int](0)
	assert.Error(t, err)

	c, err := cache.NewLRU[uint64, string](2)
	require.NoError(t, err)

	loads := 0
	letter := func(block uint64) (string, error) {
		loads++
		return string(rune('a' + block)), nil
	}

	v, err := c.GetOrLoad(1, letter)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	v, err = c.GetOrLoad(1, letter)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, loads)

	_, hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	c.GetOrLoad(2, letter)
	c.GetOrLoad(3, letter)
	assert.False(t, c.Contains(1), "least recently used entry evicted")
	assert.Equal(t, 2, c.Len())

	_, err = c.GetOrLoad(4, func(uint64) (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	assert.False(t, c.Contains(4))
}
