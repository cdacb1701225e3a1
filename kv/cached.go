// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/qianbin/directcache"

	"github.com/xylabs/xl1-ledger/cache"
)

// Cached is a Store with a fixed-size read cache in front of it.
// Writes go through to the underlying store and then update the cache.
type Cached struct {
	Store
	cache *directcache.Cache
	stats cache.Stats
}

// NewCached wraps store with a cache of sizeMB megabytes.
func NewCached(store Store, sizeMB int) *Cached {
	return &Cached{
		Store: store,
		cache: directcache.New(sizeMB * 1024 * 1024),
	}
}

func (c *Cached) Get(key []byte) ([]byte, error) {
	if val, ok := c.cache.Get(key); ok {
		c.stats.Hit()
		return val, nil
	}
	c.stats.Miss()
	val, err := c.Store.Get(key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, val)
	return val, nil
}

func (c *Cached) Has(key []byte) (bool, error) {
	if c.cache.Has(key) {
		return true, nil
	}
	return c.Store.Has(key)
}

func (c *Cached) Put(key, val []byte) error {
	if err := c.Store.Put(key, val); err != nil {
		c.cache.Del(key)
		return err
	}
	c.cache.Set(key, val)
	return nil
}

func (c *Cached) Delete(key []byte) error {
	c.cache.Del(key)
	return c.Store.Delete(key)
}

// Stats returns the cache hits and misses of Get, and whether the hit rate
// changed since the last call.
func (c *Cached) Stats() (changed bool, hit, miss int64) {
	return c.stats.Stats()
}

func (c *Cached) Bulk() Bulk {
	return &cachedBulk{inner: c.Store.Bulk(), cache: c.cache}
}

type cachedOp struct {
	key, val []byte
	del      bool
}

// cachedBulk applies its writes to the cache once the inner bulk is written.
type cachedBulk struct {
	inner Bulk
	cache *directcache.Cache
	ops   []cachedOp
}

func (b *cachedBulk) Put(key, val []byte) error {
	if err := b.inner.Put(key, val); err != nil {
		return err
	}
	b.ops = append(b.ops, cachedOp{key: append([]byte(nil), key...), val: append([]byte(nil), val...)})
	return nil
}

func (b *cachedBulk) Delete(key []byte) error {
	if err := b.inner.Delete(key); err != nil {
		return err
	}
	b.ops = append(b.ops, cachedOp{key: append([]byte(nil), key...), del: true})
	return nil
}

func (b *cachedBulk) Len() int {
	return b.inner.Len()
}

func (b *cachedBulk) Write() error {
	err := b.inner.Write()
	for _, op := range b.ops {
		if op.del || err != nil {
			b.cache.Del(op.key)
		} else {
			b.cache.Set(op.key, op.val)
		}
	}
	b.ops = nil
	return err
}
