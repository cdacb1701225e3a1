// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xylabs/xl1-ledger/builtin/staker/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"not found revert", reverts.ErrStakeNotFound, http.StatusNotFound},
		{"unauthorized revert", reverts.ErrNotOwner, http.StatusForbidden},
		{"other revert", reverts.ErrInvalidAmount, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestParseJSONStrict(t *testing.T) {
	var v struct{ A int }
	assert.NoError(t, ParseJSON(strings.NewReader(`{"A":1}`), &v))
	assert.Error(t, ParseJSON(strings.NewReader(`{"B":1}`), &v))
}

func TestPathVars(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"address": "0x0000000000000000000000000000000000000001",
		"slot":    "7",
		"bad":     "x",
	})

	addr, err := AddressVar(req, "address")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", addr.String())

	slot, err := Uint64Var(req, "slot")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), slot)

	_, err = Uint64Var(req, "bad")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	_, err = AddressVar(req, "bad")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}
