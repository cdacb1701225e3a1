// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xylabs/xl1-ledger/api/utils"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/xl1"
)

type Fork struct {
	ChainID     xl1.Address `json:"chainId"`
	BlockNumber uint64      `json:"blockNumber"`
	Hash        xl1.Bytes32 `json:"hash"`
}

type Chain struct {
	ChainID             xl1.Address `json:"chainId"`
	GenesisID           xl1.Bytes32 `json:"genesisId"`
	BestBlock           uint32      `json:"bestBlock"`
	Fork                *Fork       `json:"fork"`
	RewardsContract     xl1.Address `json:"rewardsContract"`
	StakingContract     xl1.Address `json:"stakingContract"`
	StakingToken        xl1.Address `json:"stakingToken"`
	MinWithdrawalBlocks uint32      `json:"minWithdrawalBlocks"`
}

type API struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *API {
	return &API{l}
}

func (a *API) handleGetChain(w http.ResponseWriter, _ *http.Request) error {
	out := &Chain{GenesisID: a.ledger.GenesisID()}
	if err := a.ledger.View(func(v *ledger.View) (err error) {
		out.ChainID = v.Chain.ChainID()
		out.BestBlock = v.Block

		fork, err := v.Chain.Fork()
		if err != nil {
			return err
		}
		out.Fork = &Fork{ChainID: fork.ChainID, BlockNumber: fork.BlockNumber, Hash: fork.Hash}

		if out.RewardsContract, err = v.Chain.RewardsContract(); err != nil {
			return err
		}
		if out.StakingContract, err = v.Chain.StakingContract(); err != nil {
			return err
		}
		if out.StakingToken, err = v.Chain.StakingTokenAddress(); err != nil {
			return err
		}
		out.MinWithdrawalBlocks, err = v.Chain.MinWithdrawalBlocks()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /chain").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetChain))
}
