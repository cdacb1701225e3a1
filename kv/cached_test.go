// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/kv"
	"github.com/xylabs/xl1-ledger/lvldb"
)

func newCached(t *testing.T) (*kv.Cached, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return kv.NewCached(db, 1), db
}

func TestCachedGet(t *testing.T) {
	c, db := newCached(t)
	require.NoError(t, db.Put([]byte("k"), []byte("v1")))

	val, err := c.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(val))

	val, err = c.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(val))

	_, hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	_, err = c.Get([]byte("missing"))
	assert.True(t, c.IsNotFound(err))
}

func TestCachedWritesThrough(t *testing.T) {
	c, db := newCached(t)

	require.NoError(t, c.Put([]byte("k"), []byte("v1")))
	val, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(val))

	require.NoError(t, c.Put([]byte("k"), []byte("v2")))
	val, err = c.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(val))

	require.NoError(t, c.Delete([]byte("k")))
	has, err := c.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
	_, err = c.Get([]byte("k"))
	assert.True(t, c.IsNotFound(err))
}

func TestCachedBulk(t *testing.T) {
	c, db := newCached(t)
	require.NoError(t, c.Put([]byte("a"), []byte("old")))
	require.NoError(t, c.Put([]byte("b"), []byte("gone")))

	bulk := c.Bulk()
	require.NoError(t, bulk.Put([]byte("a"), []byte("new")))
	require.NoError(t, bulk.Delete([]byte("b")))
	assert.Equal(t, 2, bulk.Len())

	// nothing visible before Write
	val, err := c.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(val))

	require.NoError(t, bulk.Write())

	val, err = c.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(val))
	_, err = c.Get([]byte("b"))
	assert.True(t, c.IsNotFound(err))

	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(val))
}
