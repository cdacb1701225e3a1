// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import lru "github.com/hashicorp/golang-lru"

// LRU is a typed, size bounded cache of values derived from their keys.
type LRU[K comparable, V any] struct {
	c     *lru.Cache
	stats Stats
}

// NewLRU returns a cache holding at most size entries. size must be positive.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{c: c}, nil
}

// GetOrLoad returns the cached value of key, calling load on a miss.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := l.c.Get(key); ok {
		l.stats.Hit()
		return v.(V), nil
	}
	l.stats.Miss()
	v, err := load(key)
	if err != nil {
		return v, err
	}
	l.c.Add(key, v)
	return v, nil
}

func (l *LRU[K, V]) Contains(key K) bool { return l.c.Contains(key) }

func (l *LRU[K, V]) Len() int { return l.c.Len() }

func (l *LRU[K, V]) Stats() (changed bool, hit, miss int64) {
	return l.stats.Stats()
}
