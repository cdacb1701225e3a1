// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xl1client bundles the HTTP and websocket clients of the ledger API.
package xl1client

import (
	"errors"

	"github.com/xylabs/xl1-ledger/api/chain"
	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/api/rewards"
	"github.com/xylabs/xl1-ledger/api/staking"
	"github.com/xylabs/xl1-ledger/xl1"
	"github.com/xylabs/xl1-ledger/xl1client/common"
	"github.com/xylabs/xl1-ledger/xl1client/httpclient"
	"github.com/xylabs/xl1-ledger/xl1client/wsclient"
)

var ErrNoWebsocket = errors.New("client created without websocket support")

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

func (c *Client) Chain() (*chain.Chain, error) {
	return c.httpConn.GetChain()
}

func (c *Client) Totals() (*staking.Totals, error) {
	return c.httpConn.GetTotals()
}

func (c *Client) Params() (*staking.Params, error) {
	return c.httpConn.GetParams()
}

func (c *Client) Staker(addr xl1.Address) (*staking.Staker, error) {
	return c.httpConn.GetStaker(addr)
}

func (c *Client) Staked(addr xl1.Address) (*staking.Staked, error) {
	return c.httpConn.GetStaked(addr)
}

func (c *Client) Stake(id uint64) (*staking.Stake, error) {
	return c.httpConn.GetStake(id)
}

func (c *Client) StakeBySlot(addr xl1.Address, slot uint64) (*staking.Stake, error) {
	return c.httpConn.GetStakeBySlot(addr, slot)
}

func (c *Client) MinStake() (*staking.MinStake, error) {
	return c.httpConn.GetMinStake()
}

func (c *Client) Reward(block uint64) (*rewards.Reward, error) {
	return c.httpConn.GetReward(block)
}

func (c *Client) RewardConfig() (*rewards.Config, error) {
	return c.httpConn.GetRewardConfig()
}

func (c *Client) FilterEvents(req *events.EventFilter) ([]events.FilteredEvent, error) {
	return c.httpConn.FilterEvents(req)
}

func (c *Client) SubscribeEvents(query string) (*common.Subscription[*events.FilteredEvent], error) {
	if c.wsConn == nil {
		return nil, ErrNoWebsocket
	}
	return c.wsConn.SubscribeEvents(query)
}
