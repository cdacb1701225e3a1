// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind uint8

const (
	Unknown Kind = iota
	InvalidAmount
	NotRemovable
	NotWithdrawable
	NotFound
	Unauthorized
	InsufficientFunds
)

var kindNames = [...]string{
	Unknown:           "unknown",
	InvalidAmount:     "invalid amount",
	NotRemovable:      "not removable",
	NotWithdrawable:   "not withdrawable",
	NotFound:          "not found",
	Unauthorized:      "unauthorized",
	InsufficientFunds: "insufficient funds",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// Sentinels usable with errors.Is. They match any revert of the same kind.
var (
	ErrInvalidAmount     = NewKind(InvalidAmount, "Staking: amount must be greater than 0")
	ErrNotRemovable      = NewKind(NotRemovable, "Staking: not removable")
	ErrNotWithdrawable   = NewKind(NotWithdrawable, "Staking: not withdrawable")
	ErrStakeNotFound     = NewKind(NotFound, "Staking: stake not found")
	ErrAddressNotStaked  = NewKind(NotFound, "Staking: address not staked")
	ErrNotOwner          = NewKind(Unauthorized, "Ownable: caller is not the owner")
	ErrExceedsBalance    = NewKind(InsufficientFunds, "ERC20: transfer amount exceeds balance")
	ErrAllowanceExceeded = NewKind(InsufficientFunds, "ERC20: insufficient allowance")
)

type ErrRevert struct {
	kind    Kind
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func NewKind(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches reverts of the same kind, or the same message for unclassified ones.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	if e.kind == Unknown || t.kind == Unknown {
		return e.message == t.message
	}
	return e.kind == t.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, Unknown otherwise.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}
