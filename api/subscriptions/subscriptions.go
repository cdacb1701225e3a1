// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/api/events"
	"github.com/xylabs/xl1-ledger/api/utils"
	"github.com/xylabs/xl1-ledger/eventlog"
	"github.com/xylabs/xl1-ledger/ledger"
	"github.com/xylabs/xl1-ledger/log"
	"github.com/xylabs/xl1-ledger/metrics"
	"github.com/xylabs/xl1-ledger/xl1"
)

const (
	readBatch = 256

	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveSubscriptions = metrics.LazyLoadGauge("api_active_subscription_count")
	metricSentMessages        = metrics.LazyLoadCounter("api_subscription_messages_count")
)

type Subscriptions struct {
	ledger         *ledger.Ledger
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup

	mu      sync.Mutex
	clients map[string]string // id -> remote address
}

func New(l *ledger.Ledger, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		ledger:         l,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, u.Host) || slices.Contains(allowedOrigins, origin)
			},
		},
		done:    make(chan struct{}),
		clients: make(map[string]string),
	}
}

// Clients returns the number of connected subscribers.
func (s *Subscriptions) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Subscriptions) track(id, remote string) func() {
	s.mu.Lock()
	s.clients[id] = remote
	s.mu.Unlock()
	metricActiveSubscriptions().Add(1)

	return func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		metricActiveSubscriptions().Add(-1)
	}
}

func parseCriteria(req *http.Request) (*events.EventCriteria, error) {
	q := req.URL.Query()
	var criteria events.EventCriteria
	if name := q.Get("name"); name != "" {
		criteria.Name = &name
	}
	for key, dst := range map[string]**xl1.Address{
		"address": &criteria.Address,
		"staker":  &criteria.Staker,
		"staked":  &criteria.Staked,
	} {
		if v := q.Get(key); v != "" {
			addr, err := xl1.ParseAddress(v)
			if err != nil {
				return nil, errors.WithMessage(err, key)
			}
			*dst = &addr
		}
	}
	return &criteria, nil
}

// parsePosition returns the sequence to stream after. Without pos only new events are sent.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	last, err := s.ledger.EventLog().LastSeq(req.Context())
	if err != nil {
		return 0, err
	}
	posStr := req.URL.Query().Get("pos")
	if posStr == "" {
		return last, nil
	}
	pos, err := strconv.ParseUint(posStr, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos > last {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	if last-pos > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

func (s *Subscriptions) handleSubjectEvents(w http.ResponseWriter, req *http.Request) error {
	if s.ledger.EventLog() == nil {
		return utils.HTTPError(errors.New("events are not recorded"), http.StatusServiceUnavailable)
	}
	criteria, err := parseCriteria(req)
	if err != nil {
		return utils.BadRequest(err)
	}
	pos, err := s.parsePosition(req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer s.closeConn(conn)

	id := uuid.New()
	defer s.track(id, req.RemoteAddr)()
	logger.Debug("subscriber connected", "id", id, "remote", req.RemoteAddr, "pos", pos)

	s.wg.Add(1)
	defer s.wg.Done()
	if err := s.pipe(req.Context(), conn, pos, criteria); err != nil {
		logger.Debug("subscriber disconnected", "id", id, "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn) {
	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

// pipe streams events after pos matching criteria until the peer leaves or the server closes.
func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, pos uint64, criteria *events.EventCriteria) error {
	closed := make(chan struct{})
	// the reader handles pongs and detects the peer closing
	go func() {
		defer close(closed)
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// created before reading so a commit in between still wakes us
		waiter := s.ledger.NewWaiter()
		batch, err := s.ledger.EventsAfter(ctx, pos, readBatch)
		if err != nil {
			return err
		}
		for _, ev := range batch {
			pos = ev.Seq
			if !criteria.Match(ev) {
				continue
			}
			if err := s.send(conn, ev); err != nil {
				return err
			}
		}
		if len(batch) == readBatch {
			continue
		}

		for woken := false; !woken; {
			select {
			case <-waiter.C():
				woken = true
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return err
				}
			case <-closed:
				return nil
			case <-ctx.Done():
				return nil
			case <-s.done:
				return nil
			}
		}
	}
}

func (s *Subscriptions) send(conn *websocket.Conn, ev *eventlog.Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
		return fmt.Errorf("write event %d: %w", ev.Seq, err)
	}
	metricSentMessages().Add(1)
	return nil
}

// Close disconnects every subscriber and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubjectEvents))
}
