// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type LastCommit struct {
	Block     uint32     `json:"block"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy       bool        `json:"healthy"`
	LastCommit    *LastCommit `json:"lastCommit"`
	EventLogError string      `json:"eventLogError,omitempty"`
}

// Health tracks ledger commits and event log writes. The ledger is unhealthy
// while the event log lags behind the committed state.
type Health struct {
	lock        sync.RWMutex
	committedAt time.Time
	block       uint32
	eventLogErr error
}

func New() *Health {
	return &Health{}
}

func (h *Health) Committed(block uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.committedAt = time.Now()
	h.block = block
}

// EventLogWritten records the outcome of the latest event log write.
func (h *Health) EventLogWritten(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.eventLogErr = err
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Healthy: h.eventLogErr == nil}
	if !h.committedAt.IsZero() {
		ts := h.committedAt
		status.LastCommit = &LastCommit{Block: h.block, Timestamp: &ts}
	}
	if h.eventLogErr != nil {
		status.EventLogError = h.eventLogErr.Error()
	}
	return status, nil
}
