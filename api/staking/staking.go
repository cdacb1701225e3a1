// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xylabs/xl1-ledger/api/utils"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/xl1"
)

type Staking struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Staking {
	return &Staking{l}
}

func (s *Staking) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	var out *Totals
	if err := s.ledger.View(func(v *ledger.View) error {
		t, err := v.Staker.Totals()
		if err != nil {
			return err
		}
		out = convertTotals(t)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	var out *Params
	if err := s.ledger.View(func(v *ledger.View) error {
		p, err := v.Staker.Params()
		if err != nil {
			return err
		}
		out = convertParams(p)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	out := &Staker{Address: addr}
	if err := s.ledger.View(func(v *ledger.View) error {
		t, err := v.Staker.TotalsByStaker(addr)
		if err != nil {
			return err
		}
		list, err := v.Staker.StakesByStaker(addr)
		if err != nil {
			return err
		}
		out.Totals = convertTotals(t)
		out.Stakes = convertStakes(list)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetStakerSlot(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	slot, err := utils.Uint64Var(req, "slot")
	if err != nil {
		return err
	}
	var out *Stake
	if err := s.ledger.View(func(v *ledger.View) error {
		stake, err := v.Staker.GetStake(addr, slot)
		if err != nil {
			return err
		}
		out = convertStake(stake)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetStaked(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	out := &Staked{Address: addr}
	if err := s.ledger.View(func(v *ledger.View) error {
		t, err := v.Staker.TotalsByStaked(addr)
		if err != nil {
			return err
		}
		if out.StakerCount, err = v.Staker.GetStakeCountForAddress(addr); err != nil {
			return err
		}
		if out.Stakers, err = v.Staker.StakersOf(addr); err != nil {
			return err
		}
		list, err := v.Staker.StakesByStaked(addr)
		if err != nil {
			return err
		}
		out.Totals = convertTotals(t)
		out.Stakes = convertStakes(list)
		return nil
	}); err != nil {
		return err
	}
	if out.Stakers == nil {
		out.Stakers = []xl1.Address{}
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var out *Stake
	if err := s.ledger.View(func(v *ledger.View) error {
		stake, err := v.Staker.GetStakeByID(id)
		if err != nil {
			return err
		}
		out = convertStake(stake)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetMinStake(w http.ResponseWriter, _ *http.Request) error {
	out := &MinStake{}
	if err := s.ledger.View(func(v *ledger.View) error {
		threshold, err := v.Staker.MinStake()
		if err != nil {
			return err
		}
		if out.Addresses, err = v.Staker.StakedAddressesWithMinStake(); err != nil {
			return err
		}
		out.Threshold = hex(threshold)
		return nil
	}); err != nil {
		return err
	}
	if out.Addresses == nil {
		out.Addresses = []xl1.Address{}
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/totals").
		Methods(http.MethodGet).
		Name("GET /staking/totals").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotals))
	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /staking/params").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams))
	sub.Path("/stakers/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/stakers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
	sub.Path("/stakers/{address}/slots/{slot}").
		Methods(http.MethodGet).
		Name("GET /staking/stakers/{address}/slots/{slot}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakerSlot))
	sub.Path("/staked/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/staked/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaked))
	sub.Path("/stakes/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/stakes/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/min-stake").
		Methods(http.MethodGet).
		Name("GET /staking/min-stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetMinStake))
}
