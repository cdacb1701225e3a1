// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix carving a namespace out of a store.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

func (b Bucket) NewGetter(src Getter) Getter { return &bucketGetter{b, src} }

func (b Bucket) NewPutter(src Putter) Putter { return &bucketPutter{b, src} }

// NewStore scopes every operation of src, including bulks and iteration, to b.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.key(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.key(key)) }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Bulk() Bulk {
	inner := s.src.Bulk()
	return &bucketBulk{bucketPutter{s.bucketGetter.b, inner}, inner}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	b := s.bucketGetter.b
	rng := Range{Start: b.key(r.Start)}
	if len(r.Limit) == 0 {
		rng.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		rng.Limit = b.key(r.Limit)
	}
	return &bucketIterator{s.src.Iterate(rng), len(b)}
}

type bucketBulk struct {
	bucketPutter
	inner Bulk
}

func (bb *bucketBulk) Len() int     { return bb.inner.Len() }
func (bb *bucketBulk) Write() error { return bb.inner.Write() }

// bucketIterator strips the prefix from keys.
type bucketIterator struct {
	Iterator
	n int
}

func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.n:] }
