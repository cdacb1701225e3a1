// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"

	"github.com/xylabs/xl1-ledger/api/utils"
	"github.com/xylabs/xl1-ledger/cache"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/metrics"
)

var metricRewardCache = metrics.LazyLoadGaugeVec("api_reward_cache_count", []string{"event"})

// Reward is the block reward at Block.
type Reward struct {
	Block  uint64                `json:"block"`
	Reward *math.HexOrDecimal256 `json:"reward"`
}

type Config struct {
	InitialReward         *math.HexOrDecimal256 `json:"initialReward"`
	StepSize              *math.HexOrDecimal256 `json:"stepSize"`
	StepFactorNumerator   *math.HexOrDecimal256 `json:"stepFactorNumerator"`
	StepFactorDenominator *math.HexOrDecimal256 `json:"stepFactorDenominator"`
	MinRewardPerBlock     *math.HexOrDecimal256 `json:"minRewardPerBlock"`
	GenesisReward         *math.HexOrDecimal256 `json:"genesisReward"`
	FloorPlaces           *math.HexOrDecimal256 `json:"floorPlaces"`
}

type Rewards struct {
	ledger *ledger.Ledger
	cache  *cache.LRU[uint64, *uint256.Int]
}

// New creates the rewards api. Rewards are cached per block since the
// reward configuration never changes once deployed.
func New(l *ledger.Ledger, cacheSize int) (*Rewards, error) {
	c, err := cache.NewLRU[uint64, *uint256.Int](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Rewards{l, c}, nil
}

func (r *Rewards) reward(block uint64) (*uint256.Int, error) {
	reward, err := r.cache.GetOrLoad(block, func(block uint64) (*uint256.Int, error) {
		var reward *uint256.Int
		err := r.ledger.View(func(v *ledger.View) (err error) {
			reward, err = v.Rewards.CalcBlockReward(block)
			return
		})
		return reward, err
	})
	if changed, hit, miss := r.cache.Stats(); changed {
		metricRewardCache().SetWithLabel(hit, map[string]string{"event": "hit"})
		metricRewardCache().SetWithLabel(miss, map[string]string{"event": "miss"})
	}
	if err != nil {
		return nil, err
	}
	return reward, nil
}

func (r *Rewards) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	block, err := utils.Uint64Var(req, "block")
	if err != nil {
		return err
	}
	reward, err := r.reward(block)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Reward{
		Block:  block,
		Reward: (*math.HexOrDecimal256)(reward.ToBig()),
	})
}

func (r *Rewards) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var out *Config
	if err := r.ledger.View(func(v *ledger.View) error {
		cfg, err := v.Rewards.Config()
		if err != nil {
			return err
		}
		out = &Config{
			InitialReward:         hex(cfg.InitialReward),
			StepSize:              hex(cfg.StepSize),
			StepFactorNumerator:   hex(cfg.StepFactorNumerator),
			StepFactorDenominator: hex(cfg.StepFactorDenominator),
			MinRewardPerBlock:     hex(cfg.MinRewardPerBlock),
			GenesisReward:         hex(cfg.GenesisReward),
			FloorPlaces:           hex(cfg.FloorPlaces),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func hex(v *uint256.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v.ToBig())
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /rewards/config").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetConfig))
	sub.Path("/{block:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /rewards/{block}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetReward))
}
