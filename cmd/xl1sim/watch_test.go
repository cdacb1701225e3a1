// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"errors"
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"

	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/xl1client/common"
)

func TestWatchPrintsUntilClosed(t *testing.T) {
	ch := make(chan common.EventWrapper[*events.FilteredEvent], 2)
	id := uint64(4)
	ch <- common.EventWrapper[*events.FilteredEvent]{Data: &events.FilteredEvent{
		Seq:         1,
		Name:        "StakeAdded",
		BlockNumber: 2,
		StakeID:     &id,
		Amount:      (*math.HexOrDecimal256)(big.NewInt(9)),
	}}
	close(ch)

	var buf bytes.Buffer
	err := watch(&buf, &common.Subscription[*events.FilteredEvent]{EventChan: ch}, make(chan os.Signal))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "#1 block=2 StakeAdded")
	assert.Contains(t, buf.String(), "id=4 amount=9")
}

func TestWatchReturnsSubscriptionError(t *testing.T) {
	ch := make(chan common.EventWrapper[*events.FilteredEvent], 1)
	ch <- common.EventWrapper[*events.FilteredEvent]{Error: errors.New("broken")}

	var buf bytes.Buffer
	err := watch(&buf, &common.Subscription[*events.FilteredEvent]{EventChan: ch}, make(chan os.Signal))
	assert.ErrorContains(t, err, "broken")
}

func TestWatchStops(t *testing.T) {
	stop := make(chan os.Signal, 1)
	stop <- os.Interrupt
	var buf bytes.Buffer
	err := watch(&buf, &common.Subscription[*events.FilteredEvent]{EventChan: make(chan common.EventWrapper[*events.FilteredEvent])}, stop)
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
}
