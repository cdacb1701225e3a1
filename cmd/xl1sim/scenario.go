// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xylabs/xl1-ledger/builtin"
	"github.com/xylabs/xl1-ledger/builtin/staker/reverts"
	"github.com/xylabs/xl1-ledger/genesis"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/xl1"
)

// Scenario is a scripted sequence of ledger operations.
type Scenario struct {
	Accounts map[string]string `yaml:"accounts"`
	Steps    []Step            `yaml:"steps"`
}

// Step is one ledger operation. Addresses are either account aliases,
// "owner", or hex addresses.
type Step struct {
	Op      string                   `yaml:"op"`
	Caller  string                   `yaml:"caller"`
	To      string                   `yaml:"to"`
	Owner   string                   `yaml:"owner"`
	Spender string                   `yaml:"spender"`
	Staker  string                   `yaml:"staker"`
	Staked  string                   `yaml:"staked"`
	Amount  *genesis.HexOrDecimal256 `yaml:"amount"`
	Slot    uint64                   `yaml:"slot"`
	Blocks  uint32                   `yaml:"blocks"`
	Expect  string                   `yaml:"expect"`
	Kind    string                   `yaml:"kind"`
}

const (
	opMint              = "mint"
	opApprove           = "approve"
	opAdd               = "add"
	opRemove            = "remove"
	opWithdraw          = "withdraw"
	opSlash             = "slash"
	opSetMinStake       = "set-min-stake"
	opTransferOwnership = "transfer-ownership"
	opAdvance           = "advance"
)

// ParseScenario decodes and checks a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}
	return &sc, nil
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return ParseScenario(data)
}

func (s *Step) validate() error {
	switch s.Op {
	case opMint, opApprove, opAdd, opSlash, opSetMinStake:
		if s.Amount == nil {
			return errors.New("amount required")
		}
	case opRemove, opWithdraw, opTransferOwnership:
	case opAdvance:
		if s.Blocks == 0 {
			return errors.New("blocks required")
		}
	default:
		return errors.New("unknown op")
	}
	switch s.Expect {
	case "", "ok", "reject":
	default:
		return fmt.Errorf("invalid expect %q", s.Expect)
	}
	if s.Kind != "" && s.Expect != "reject" {
		return errors.New("kind only applies to rejected steps")
	}
	return nil
}

// StepResult records the outcome of one step.
type StepResult struct {
	Index    int
	Op       string
	Rejected bool
	Err      error
	Value    string
}

// Runner replays scenarios against a ledger.
type Runner struct {
	ledger   *ledger.Ledger
	owner    xl1.Address
	accounts map[string]xl1.Address
}

// NewRunner resolves the scenario accounts. An alias with an empty value
// gets an address derived from its name.
func NewRunner(l *ledger.Ledger, owner xl1.Address, sc *Scenario) (*Runner, error) {
	r := &Runner{ledger: l, owner: owner, accounts: make(map[string]xl1.Address, len(sc.Accounts))}
	for name, value := range sc.Accounts {
		if value == "" {
			r.accounts[name] = aliasAddress(name)
			continue
		}
		addr, err := xl1.ParseAddress(value)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s", name)
		}
		r.accounts[name] = addr
	}
	return r, nil
}

func aliasAddress(name string) xl1.Address {
	return xl1.BytesToAddress(crypto.Keccak256([]byte(name)))
}

// Resolve maps an alias, "owner" or a hex string to an address.
func (r *Runner) Resolve(name string) (xl1.Address, error) {
	if addr, ok := r.accounts[name]; ok {
		return addr, nil
	}
	if name == "owner" {
		return r.owner, nil
	}
	if name == "" {
		return xl1.Address{}, errors.New("address required")
	}
	addr, err := xl1.ParseAddress(name)
	if err != nil {
		return xl1.Address{}, fmt.Errorf("unknown account %q", name)
	}
	return addr, nil
}

// Accounts returns the resolved aliases.
func (r *Runner) Accounts() map[string]xl1.Address {
	return r.accounts
}

// Run executes every step, stopping at the first unexpected outcome.
// progress is called after each step.
func (r *Runner) Run(sc *Scenario, progress func(i int)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))
	for i := range sc.Steps {
		step := &sc.Steps[i]
		value, err := r.apply(step)
		res := StepResult{Index: i, Op: step.Op, Value: value, Err: err}

		switch {
		case err == nil && step.Expect == "reject":
			return results, fmt.Errorf("step %d (%s): expected rejection", i, step.Op)
		case err != nil && !reverts.IsRevertErr(err):
			return results, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		case err != nil && step.Expect != "reject":
			return results, fmt.Errorf("step %d (%s): rejected: %w", i, step.Op, err)
		case err != nil:
			res.Rejected = true
			if step.Kind != "" && reverts.KindOf(err).String() != step.Kind {
				return results, fmt.Errorf("step %d (%s): expected %q rejection, got %q", i, step.Op, step.Kind, reverts.KindOf(err))
			}
		}

		results = append(results, res)
		if progress != nil {
			progress(i)
		}
	}
	return results, nil
}

func (r *Runner) apply(s *Step) (string, error) {
	addr := func(name, fallback string) (xl1.Address, error) {
		if name == "" {
			name = fallback
		}
		return r.Resolve(name)
	}
	amount := func() *big.Int {
		if s.Amount == nil {
			return nil
		}
		return s.Amount.Big()
	}

	switch s.Op {
	case opMint:
		to, err := addr(s.To, "")
		if err != nil {
			return "", err
		}
		return "", r.ledger.Mint(to, amount())
	case opApprove:
		owner, err := addr(s.Owner, "")
		if err != nil {
			return "", err
		}
		spender := builtin.Staker.Address
		if s.Spender != "" {
			if spender, err = r.Resolve(s.Spender); err != nil {
				return "", err
			}
		}
		return "", r.ledger.Approve(owner, spender, amount())
	case opAdd:
		holder, err := addr(s.Staker, "")
		if err != nil {
			return "", err
		}
		staked, err := addr(s.Staked, "")
		if err != nil {
			return "", err
		}
		id, err := r.ledger.AddStake(holder, staked, amount())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("id=%d", id), nil
	case opRemove:
		holder, err := addr(s.Staker, "")
		if err != nil {
			return "", err
		}
		return "", r.ledger.RemoveStake(holder, s.Slot)
	case opWithdraw:
		holder, err := addr(s.Staker, "")
		if err != nil {
			return "", err
		}
		out, err := r.ledger.WithdrawStake(holder, s.Slot)
		if err != nil {
			return "", err
		}
		return "amount=" + out.String(), nil
	case opSlash:
		caller, err := addr(s.Caller, "owner")
		if err != nil {
			return "", err
		}
		staked, err := addr(s.Staked, "")
		if err != nil {
			return "", err
		}
		out, err := r.ledger.SlashStake(caller, staked, amount())
		if err != nil {
			return "", err
		}
		return "slashed=" + out.String(), nil
	case opSetMinStake:
		caller, err := addr(s.Caller, "owner")
		if err != nil {
			return "", err
		}
		return "", r.ledger.SetMinStake(caller, amount())
	case opTransferOwnership:
		caller, err := addr(s.Caller, "owner")
		if err != nil {
			return "", err
		}
		to, err := addr(s.To, "")
		if err != nil {
			return "", err
		}
		if err := r.ledger.TransferOwnership(caller, to); err != nil {
			return "", err
		}
		r.owner = to
		return "", nil
	case opAdvance:
		block, err := r.ledger.Advance(s.Blocks)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("block=%d", block), nil
	}
	return "", fmt.Errorf("unknown op %q", s.Op)
}
