// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/builtin/solidity"
	"github.com/xylabs/xl1-ledger/xl1"
)

// LinkedList is a persistent, insertion ordered set of addresses.
type LinkedList struct {
	head  *solidity.Address
	tail  *solidity.Address
	count *solidity.Uint256
	next  *solidity.Mapping[xl1.Address, xl1.Address]
	prev  *solidity.Mapping[xl1.Address, xl1.Address]
}

// NewLinkedList creates a new linked list with persistent storage mappings.
func NewLinkedList(sctx *solidity.Context, headPos, tailPos, countPos xl1.Bytes32) *LinkedList {
	return &LinkedList{
		head:  solidity.NewAddress(sctx, headPos),
		tail:  solidity.NewAddress(sctx, tailPos),
		count: solidity.NewUint256(sctx, countPos),
		next:  solidity.NewMapping[xl1.Address, xl1.Address](sctx, headPos),
		prev:  solidity.NewMapping[xl1.Address, xl1.Address](sctx, tailPos),
	}
}

// NewScoped creates the list owned by scope, one of many lists sharing the base position.
func NewScoped(sctx *solidity.Context, base xl1.Bytes32, scope xl1.Address) *LinkedList {
	root := xl1.Blake2b(scope.Bytes(), base.Bytes())
	return NewLinkedList(
		sctx,
		xl1.Blake2b(root.Bytes(), []byte("head")),
		xl1.Blake2b(root.Bytes(), []byte("tail")),
		xl1.Blake2b(root.Bytes(), []byte("count")),
	)
}

// Contains reports whether address is in the list.
func (l *LinkedList) Contains(address xl1.Address) (bool, error) {
	if address.IsZero() {
		return false, nil
	}
	prev, err := l.prev.Get(address)
	if err != nil {
		return false, err
	}
	if !prev.IsZero() {
		return true, nil
	}
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	return head == address, nil
}

// Add appends an address to the end of the list. Adding a member is a no-op.
func (l *LinkedList) Add(address xl1.Address) (bool, error) {
	if address.IsZero() {
		return false, errors.New("zero address")
	}
	if ok, err := l.Contains(address); err != nil || ok {
		return false, err
	}

	oldTail, err := l.tail.Get()
	if err != nil {
		return false, err
	}

	if oldTail.IsZero() {
		// the list is currently empty, set this entry to head & tail
		l.head.Set(&address)
		l.tail.Set(&address)
		return true, l.count.Add(big.NewInt(1))
	}

	if err := l.next.Set(oldTail, address); err != nil {
		return false, err
	}
	if err := l.prev.Set(address, oldTail); err != nil {
		return false, err
	}
	l.tail.Set(&address)

	return true, l.count.Add(big.NewInt(1))
}

// Remove extracts an address from anywhere in the list, reconnecting adjacent nodes.
func (l *LinkedList) Remove(address xl1.Address) (bool, error) {
	if ok, err := l.Contains(address); err != nil || !ok {
		return false, err
	}

	prev, err := l.prev.Get(address)
	if err != nil {
		return false, err
	}
	next, err := l.next.Get(address)
	if err != nil {
		return false, err
	}

	if !prev.IsZero() {
		if err := l.next.Set(prev, next); err != nil {
			return false, err
		}
	} else {
		l.head.Set(&next)
	}

	if !next.IsZero() {
		if err := l.prev.Set(next, prev); err != nil {
			return false, err
		}
	} else {
		l.tail.Set(&prev)
	}

	l.next.Delete(address)
	l.prev.Delete(address)

	return true, l.count.Sub(big.NewInt(1))
}

// Pop removes and returns the oldest entry.
func (l *LinkedList) Pop() (xl1.Address, error) {
	head, err := l.head.Get()
	if err != nil {
		return xl1.Address{}, err
	}
	if head.IsZero() {
		return xl1.Address{}, errors.New("list is empty")
	}
	if _, err := l.Remove(head); err != nil {
		return xl1.Address{}, err
	}
	return head, nil
}

// Head returns the oldest address, zero if empty.
func (l *LinkedList) Head() (xl1.Address, error) {
	return l.head.Get()
}

// Next returns the successor address in the list, or zero address if at the end.
func (l *LinkedList) Next(address xl1.Address) (xl1.Address, error) {
	return l.next.Get(address)
}

func (l *LinkedList) Len() (uint64, error) {
	n, err := l.count.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Iter traverses the list in insertion order, calling callback for each address until completion or error.
// The callback may remove the visited address.
func (l *LinkedList) Iter(callback func(xl1.Address) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}

	for !ptr.IsZero() {
		next, err := l.next.Get(ptr)
		if err != nil {
			return err
		}
		if err := callback(ptr); err != nil {
			return err
		}
		ptr = next
	}
	return nil
}

// Addresses returns all members in insertion order.
func (l *LinkedList) Addresses() ([]xl1.Address, error) {
	var all []xl1.Address
	err := l.Iter(func(addr xl1.Address) error {
		all = append(all, addr)
		return nil
	})
	return all, err
}
