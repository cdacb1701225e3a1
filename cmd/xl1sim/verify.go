// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/xylabs/xl1-ledger/builtin/staker"
	"github.com/xylabs/xl1-ledger/builtin/staker/stakes"
	"github.com/xylabs/xl1-ledger/eventlog"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/xl1"
)

const eventBatchSize = 1000

// flows are the amounts an event log can account for. Slashes are recorded
// per staked address only, so active and pending are tracked together.
type flows struct {
	Added     *big.Int
	Available *big.Int
	Withdrawn *big.Int
	Slashed   *big.Int
	Evicted   *big.Int
}

func newFlows() *flows {
	return &flows{new(big.Int), new(big.Int), new(big.Int), new(big.Int), new(big.Int)}
}

func flowsOf(t *stakes.Totals) *flows {
	return &flows{
		Added:     t.Added(),
		Available: t.Available(),
		Withdrawn: new(big.Int).Set(t.Withdrawn),
		Slashed:   new(big.Int).Set(t.Slashed),
		Evicted:   new(big.Int).Set(t.Evicted),
	}
}

func (f *flows) apply(ev *eventlog.Event) {
	if ev.Amount == nil {
		return
	}
	switch ev.Name {
	case staker.EventStakeAdded:
		f.Added.Add(f.Added, ev.Amount)
		f.Available.Add(f.Available, ev.Amount)
	case staker.EventStakeWithdrawn:
		f.Available.Sub(f.Available, ev.Amount)
		f.Withdrawn.Add(f.Withdrawn, ev.Amount)
	case staker.EventStakeSlashed:
		f.Available.Sub(f.Available, ev.Amount)
		f.Slashed.Add(f.Slashed, ev.Amount)
	case staker.EventStakeEvicted:
		f.Available.Sub(f.Available, ev.Amount)
		f.Evicted.Add(f.Evicted, ev.Amount)
	}
}

func (f *flows) lines(label string) []string {
	return []string{
		fmt.Sprintf("%s added=%s\n", label, f.Added),
		fmt.Sprintf("%s available=%s\n", label, f.Available),
		fmt.Sprintf("%s withdrawn=%s\n", label, f.Withdrawn),
		fmt.Sprintf("%s slashed=%s\n", label, f.Slashed),
		fmt.Sprintf("%s evicted=%s\n", label, f.Evicted),
	}
}

func verifyAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	l, s, _, err := openLedger(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	diff, err := verifyEventLog(context.Background(), l, true)
	if err != nil {
		return err
	}
	if diff != "" {
		fmt.Println(diff)
		return errors.New("event log does not match the ledger state")
	}
	fmt.Println("event log matches the ledger state")
	return nil
}

// eachEvent visits every recorded event in sequence order.
func eachEvent(ctx context.Context, events *eventlog.EventLog, fn func(*eventlog.Event) error) error {
	var seq uint64
	for {
		batch, err := events.After(ctx, seq, eventBatchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		for _, ev := range batch {
			if err := fn(ev); err != nil {
				return err
			}
		}
		seq = batch[len(batch)-1].Seq
	}
}

// verifyEventLog replays the event log and compares what it accounts for with
// the committed totals. It returns a unified diff, empty when both agree.
func verifyEventLog(ctx context.Context, l *ledger.Ledger, progress bool) (string, error) {
	events := l.EventLog()
	if events == nil {
		return "", errors.New("events are not recorded")
	}
	last, err := events.LastSeq(ctx)
	if err != nil {
		return "", err
	}

	var bar *pb.ProgressBar
	if progress {
		bar = pb.New64(int64(last)).SetMaxWidth(90).Start()
		defer bar.Finish()
	}

	global := newFlows()
	byStaked := make(map[xl1.Address]*flows)
	err = eachEvent(ctx, events, func(ev *eventlog.Event) error {
		global.apply(ev)
		f, ok := byStaked[ev.Staked]
		if !ok {
			f = newFlows()
			byStaked[ev.Staked] = f
		}
		f.apply(ev)
		if bar != nil {
			bar.Set64(int64(ev.Seq))
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	addrs := make([]xl1.Address, 0, len(byStaked))
	for addr := range byStaked {
		if !addr.IsZero() {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].String() < addrs[j].String() })

	var expected, actual []string
	err = l.View(func(v *ledger.View) error {
		totals, err := v.Staker.Totals()
		if err != nil {
			return err
		}
		expected = append(expected, global.lines("global")...)
		actual = append(actual, flowsOf(totals).lines("global")...)

		for _, addr := range addrs {
			totals, err := v.Staker.TotalsByStaked(addr)
			if err != nil {
				return err
			}
			expected = append(expected, byStaked[addr].lines(addr.String())...)
			actual = append(actual, flowsOf(totals).lines(addr.String())...)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if strings.Join(expected, "") == strings.Join(actual, "") {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        expected,
		B:        actual,
		FromFile: "EventLog",
		ToFile:   "State",
		Context:  1,
	})
}
