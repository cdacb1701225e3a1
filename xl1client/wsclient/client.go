// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/xl1client/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.Contains(url, "https://") || strings.Contains(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.Contains(url, "http://") || strings.Contains(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeEvents streams staking events matching query, e.g. "pos=3&staker=0x..".
func (c *Client) SubscribeEvents(query string) (*common.Subscription[*events.FilteredEvent], error) {
	conn, err := c.connect("/subscriptions/events", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[events.FilteredEvent](conn), nil
}

// subscribe reads JSON messages of type T from conn until it fails or is unsubscribed.
func subscribe[T any](conn *websocket.Conn) *common.Subscription[*T] {
	eventChan := make(chan common.EventWrapper[*T], 16)
	done := make(chan struct{})

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				select {
				case <-done:
				case eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}:
				}
				return
			}

			select {
			case <-done:
				return
			case eventChan <- common.EventWrapper[*T]{Data: &data}:
			}
		}
	}()

	var once sync.Once
	return &common.Subscription[*T]{
		EventChan: eventChan,
		Unsubscribe: func() error {
			var err error
			once.Do(func() {
				close(done)
				err = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			})
			return err
		},
	}
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
