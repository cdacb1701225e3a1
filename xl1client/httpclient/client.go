// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client for the ledger API.
// It retrieves staking totals, stakes, rewards, chain metadata and events.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/xylabs/xl1-ledger/api/chain"
	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/api/rewards"
	"github.com/xylabs/xl1-ledger/api/staking"
	"github.com/xylabs/xl1-ledger/xl1"
)

// Client represents the HTTP client for the ledger API.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// GetChain retrieves the chain metadata and the current block.
func (c *Client) GetChain() (*chain.Chain, error) {
	return getJSON[chain.Chain](c, c.url+"/chain", "chain")
}

// GetTotals retrieves the global staking totals.
func (c *Client) GetTotals() (*staking.Totals, error) {
	return getJSON[staking.Totals](c, c.url+"/staking/totals", "totals")
}

// GetParams retrieves the staking parameters.
func (c *Client) GetParams() (*staking.Params, error) {
	return getJSON[staking.Params](c, c.url+"/staking/params", "params")
}

// GetStaker retrieves the totals and stakes owned by addr.
func (c *Client) GetStaker(addr xl1.Address) (*staking.Staker, error) {
	return getJSON[staking.Staker](c, c.url+"/staking/stakers/"+addr.String(), "staker")
}

// GetStakeBySlot retrieves the stake in the given slot of addr.
func (c *Client) GetStakeBySlot(addr xl1.Address, slot uint64) (*staking.Stake, error) {
	url := c.url + "/staking/stakers/" + addr.String() + "/slots/" + strconv.FormatUint(slot, 10)
	return getJSON[staking.Stake](c, url, "stake")
}

// GetStaked retrieves the totals and stakers backing addr.
func (c *Client) GetStaked(addr xl1.Address) (*staking.Staked, error) {
	return getJSON[staking.Staked](c, c.url+"/staking/staked/"+addr.String(), "staked")
}

// GetStake retrieves a stake by id.
func (c *Client) GetStake(id uint64) (*staking.Stake, error) {
	return getJSON[staking.Stake](c, c.url+"/staking/stakes/"+strconv.FormatUint(id, 10), "stake")
}

// GetMinStake retrieves the min-stake threshold and the qualifying addresses.
func (c *Client) GetMinStake() (*staking.MinStake, error) {
	return getJSON[staking.MinStake](c, c.url+"/staking/min-stake", "min stake")
}

// GetRewardConfig retrieves the reward curve parameters.
func (c *Client) GetRewardConfig() (*rewards.Config, error) {
	return getJSON[rewards.Config](c, c.url+"/rewards/config", "reward config")
}

// GetReward retrieves the reward of a block.
func (c *Client) GetReward(block uint64) (*rewards.Reward, error) {
	return getJSON[rewards.Reward](c, c.url+"/rewards/"+strconv.FormatUint(block, 10), "reward")
}

// FilterEvents filters the recorded staking events.
func (c *Client) FilterEvents(req *events.EventFilter) ([]events.FilteredEvent, error) {
	body, err := c.httpPOST(c.url+"/events", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}

	var filtered []events.FilteredEvent
	if err = json.Unmarshal(body, &filtered); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return filtered, nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified URL with the provided data.
func (c *Client) RawHTTPPost(url string, calldata any) ([]byte, int, error) {
	var data []byte
	var err error

	if b, ok := calldata.([]byte); ok {
		data = b
	} else {
		data, err = json.Marshal(calldata)
		if err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}

	return c.rawHTTPRequest(http.MethodPost, c.url+url, bytes.NewBuffer(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified URL.
func (c *Client) RawHTTPGet(url string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+url, nil)
}
