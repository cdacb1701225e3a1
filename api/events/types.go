// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/xylabs/xl1-ledger/eventlog"
	"github.com/xylabs/xl1-ledger/xl1"
)

type EventCriteria struct {
	Name    *string      `json:"name,omitempty"`
	Address *xl1.Address `json:"address,omitempty"`
	Staker  *xl1.Address `json:"staker,omitempty"`
	Staked  *xl1.Address `json:"staked,omitempty"`
}

// Range of blocks, both ends inclusive and optional.
type Range struct {
	From *uint32 `json:"from,omitempty"`
	To   *uint32 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       eventlog.Order   `json:"order"`
}

// FilteredEvent is an event as served to clients.
type FilteredEvent struct {
	Seq         uint64                   `json:"seq"`
	Name        string                   `json:"name"`
	BlockNumber uint32                   `json:"blockNumber"`
	Staker      xl1.Address              `json:"staker"`
	Staked      xl1.Address              `json:"staked"`
	StakeID     *uint64                  `json:"stakeId,omitempty"`
	Amount      *ethmath.HexOrDecimal256 `json:"amount,omitempty"`
}

func ConvertEvent(ev *eventlog.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Seq:         ev.Seq,
		Name:        ev.Name,
		BlockNumber: ev.BlockNumber,
		Staker:      ev.Staker,
		Staked:      ev.Staked,
		StakeID:     ev.StakeID,
	}
	if ev.Amount != nil {
		fe.Amount = (*ethmath.HexOrDecimal256)(ev.Amount)
	}
	return fe
}

// Match reports whether ev satisfies the criteria. Unset fields match anything.
func (c *EventCriteria) Match(ev *eventlog.Event) bool {
	if c.Name != nil && *c.Name != ev.Name {
		return false
	}
	if c.Address != nil && *c.Address != ev.Staker && *c.Address != ev.Staked {
		return false
	}
	if c.Staker != nil && *c.Staker != ev.Staker {
		return false
	}
	if c.Staked != nil && *c.Staked != ev.Staked {
		return false
	}
	return true
}

func convertFilter(f *EventFilter) *eventlog.Filter {
	filter := &eventlog.Filter{Order: f.Order}
	for _, c := range f.CriteriaSet {
		filter.CriteriaSet = append(filter.CriteriaSet, &eventlog.Criteria{
			Name:    c.Name,
			Address: c.Address,
			Staker:  c.Staker,
			Staked:  c.Staked,
		})
	}
	if f.Range != nil {
		r := &eventlog.Range{To: math.MaxUint32}
		if f.Range.From != nil {
			r.From = *f.Range.From
		}
		if f.Range.To != nil {
			r.To = *f.Range.To
		}
		filter.Range = r
	}
	if f.Options != nil {
		filter.Options = &eventlog.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	return filter
}

// parseQuery builds a filter from the query string of a GET request.
func parseQuery(req *http.Request) (*EventFilter, error) {
	q := req.URL.Query()
	filter := &EventFilter{Order: eventlog.Order(q.Get("order"))}

	var criteria EventCriteria
	if name := q.Get("name"); name != "" {
		criteria.Name = &name
	}
	for key, dst := range map[string]**xl1.Address{
		"address": &criteria.Address,
		"staker":  &criteria.Staker,
		"staked":  &criteria.Staked,
	} {
		if s := q.Get(key); s != "" {
			addr, err := xl1.ParseAddress(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			*dst = &addr
		}
	}
	if criteria != (EventCriteria{}) {
		filter.CriteriaSet = []*EventCriteria{&criteria}
	}

	var rng Range
	for key, dst := range map[string]**uint32{"from": &rng.From, "to": &rng.To} {
		if s := q.Get(key); s != "" {
			n, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			v := uint32(n)
			*dst = &v
		}
	}
	if rng != (Range{}) {
		filter.Range = &rng
	}

	if q.Has("offset") || q.Has("limit") {
		opts := &Options{}
		for key, dst := range map[string]*uint64{"offset": &opts.Offset, "limit": &opts.Limit} {
			if s := q.Get(key); s != "" {
				n, err := strconv.ParseUint(s, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", key, err)
				}
				*dst = n
			}
		}
		filter.Options = opts
	}
	return filter, nil
}
