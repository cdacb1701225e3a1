// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/xylabs/xl1-ledger/kv"
	"github.com/xylabs/xl1-ledger/stackedmap"
	"github.com/xylabs/xl1-ledger/xl1"
)

// StorageBucket is the kv bucket holding all contract storage.
const StorageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr xl1.Address
	key  xl1.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, xl1.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages the contract storage.
type State struct {
	store kv.Store
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object on top of the given store.
func New(store kv.Store) *State {
	s := &State{store: StorageBucket.NewStore(store)}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(func(key storageKey) (rlp.RawValue, bool, error) {
		val, err := s.store.Get(key.bytes())
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return val, true, nil
	})
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr xl1.Address, key xl1.Bytes32) (xl1.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return xl1.Bytes32{}, err
	}
	if len(raw) == 0 {
		return xl1.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return xl1.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return xl1.Blake2b(raw), nil
	}
	return xl1.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr xl1.Address, key, value xl1.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr xl1.Address, key xl1.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw. An empty value clears the slot.
func (s *State) SetRawStorage(addr xl1.Address, key xl1.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr xl1.Address, key xl1.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr xl1.Address, key xl1.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Dirty reports whether there are uncommitted changes.
func (s *State) Dirty() bool {
	dirty := false
	s.sm.Journal(func(storageKey, rlp.RawValue) bool {
		dirty = true
		return false
	})
	return dirty
}

// Commit writes all journaled changes into the underlying store in one batch
// and drops the checkpoints.
func (s *State) Commit() error {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		changes[key] = value
		return true
	})
	if len(changes) == 0 {
		return nil
	}

	bulk := s.store.Bulk()
	for key, value := range changes {
		var err error
		if len(value) == 0 {
			err = bulk.Delete(key.bytes())
		} else {
			err = bulk.Put(key.bytes(), value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	s.reset()
	return nil
}
