// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/xylabs/xl1-ledger/kv"
)

var _ kv.StoreCloser = (*LevelDB)(nil)

const minCacheSize = 16

// Options for opening a database. Values below 16 are raised to 16.
type Options struct {
	// CacheSize in MB, split between the block cache and the write buffers.
	CacheSize              int
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cacheSize := max(o.CacheSize, minCacheSize)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minCacheSize),
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB, // two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is a goleveldb database.
type LevelDB struct {
	db  *leveldb.DB
	stg storage.Storage
}

// New opens or creates the database at path.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open level db storage")
	}
	return open(stg, opts)
}

// NewMem creates an in-memory database.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db, stg}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) { return l.db.Get(key, nil) }

func (l *LevelDB) Has(key []byte) (bool, error) { return l.db.Has(key, nil) }

func (l *LevelDB) IsNotFound(err error) bool { return errors.Is(err, leveldb.ErrNotFound) }

func (l *LevelDB) Put(key, val []byte) error { return l.db.Put(key, val, nil) }

func (l *LevelDB) Delete(key []byte) error { return l.db.Delete(key, nil) }

// Close closes the database and releases the storage lock.
func (l *LevelDB) Close() error {
	if err := l.db.Close(); err != nil {
		return err
	}
	return l.stg.Close()
}

// Bulk buffers writes into a leveldb batch applied atomically by Write.
func (l *LevelDB) Bulk() kv.Bulk {
	return &batch{db: l.db}
}

func (l *LevelDB) Iterate(r kv.Range) kv.Iterator {
	rng := &util.Range{Start: r.Start}
	if len(r.Limit) > 0 {
		rng.Limit = r.Limit
	}
	return l.db.NewIterator(rng, nil)
}

type batch struct {
	db *leveldb.DB
	b  leveldb.Batch
}

func (b *batch) Put(key, val []byte) error {
	b.b.Put(key, val)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

func (b *batch) Write() error { return b.db.Write(&b.b, nil) }
