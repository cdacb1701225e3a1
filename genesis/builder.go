// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/state"
)

// Builder helper to build genesis state.
type Builder struct {
	stateProcs []func(state *state.State) error
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs every state process in order and commits the result.
// Nothing is committed if a process fails.
func (b *Builder) Build(st *state.State) error {
	rev := st.NewCheckpoint()
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			st.RevertTo(rev)
			return errors.Wrap(err, "state process")
		}
	}
	return errors.Wrap(st.Commit(), "commit state")
}
