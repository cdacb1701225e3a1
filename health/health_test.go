// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_Committed(t *testing.T) {
	h := New()

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Nil(t, status.LastCommit)

	h.Committed(7)

	status, err = h.Status()
	require.NoError(t, err)
	require.NotNil(t, status.LastCommit)
	assert.Equal(t, uint32(7), status.LastCommit.Block)
	if time.Since(*status.LastCommit.Timestamp) > time.Second {
		t.Errorf("commit timestamp is not recent")
	}
}

func TestHealth_EventLogWritten(t *testing.T) {
	h := New()

	h.EventLogWritten(errors.New("disk full"))
	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, "disk full", status.EventLogError)

	h.EventLogWritten(nil)
	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Empty(t, status.EventLogError)
}
