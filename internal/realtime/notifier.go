// Package realtime maintains the push channel for order lifecycle events and
// the merge policy for the in-view order list.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
	"github.com/adarsh-naik-2004/bats-admin/internal/platform/retry"
)

// Wire events. The server acknowledges a join with join-ack and pushes full
// order payloads as order-update.
const (
	EventJoinAdmin   = "join-admin"
	EventJoinStore   = "join-store"
	EventJoinAck     = "join-ack"
	EventOrderUpdate = "order-update"
)

// Envelope is the wire frame for every realtime message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type joinStorePayload struct {
	StoreID string `json:"storeId"`
}

type joinAckPayload struct {
	RoomID string `json:"roomId"`
}

// Handler receives each order event that passed the scope filter.
type Handler func(domain.OrderEvent)

var reconnectPolicy = retry.Policy{
	MaxAttempts:    5,
	InitialBackoff: 500 * time.Millisecond,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Realtime reconnect failed, backing off", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

// Notifier dials the realtime endpoint. One Notifier can serve many
// subscriptions over its lifetime, but each Connect returns an independent
// Subscription.
type Notifier struct {
	url    string
	dialer *websocket.Dialer
}

// NewNotifier creates a notifier for the given ws:// or wss:// URL. The jar
// carries the session cookies so the server can authenticate the upgrade; it
// should be the API client's jar.
func NewNotifier(url string, jar http.CookieJar) *Notifier {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		Jar:              jar,
	}
	return &Notifier{url: url, dialer: dialer}
}

// Connect establishes the channel, announces the scope, and starts delivering
// events to handler. The returned Subscription owns the connection; Dispose
// tears everything down deterministically.
func (n *Notifier) Connect(ctx context.Context, scope domain.Scope, handler Handler) (*Subscription, error) {
	conn, err := n.dial(ctx, scope)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		notifier: n,
		scope:    scope,
		handler:  handler,
		conn:     conn,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go sub.run(subCtx)
	return sub, nil
}

func (n *Notifier) dial(ctx context.Context, scope domain.Scope) (*websocket.Conn, error) {
	conn, resp, err := n.dialer.DialContext(ctx, n.url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("realtime dial: %w", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("realtime dial: %w", err)
	}

	if err := joinScope(conn, scope); err != nil {
		conn.Close()
		return nil, err
	}
	if err := awaitJoinAck(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// awaitJoinAck blocks until the server acknowledges the join, so a rejected
// scope surfaces as a connect error instead of a silent dead channel.
func awaitJoinAck(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		return fmt.Errorf("realtime join rejected: %w", err)
	}
	if env.Event != EventJoinAck {
		return fmt.Errorf("realtime join: expected %s, got %s", EventJoinAck, env.Event)
	}

	var ack joinAckPayload
	if err := json.Unmarshal(env.Data, &ack); err == nil {
		slog.Debug("Joined realtime room", "room_id", ack.RoomID)
	}
	return nil
}

// joinScope announces the subscription scope. Must happen after every
// connect, including reconnects.
func joinScope(conn *websocket.Conn, scope domain.Scope) error {
	env := Envelope{Event: EventJoinAdmin}
	if !scope.AllStores {
		data, err := json.Marshal(joinStorePayload{StoreID: scope.StoreID})
		if err != nil {
			return fmt.Errorf("failed to encode join payload: %w", err)
		}
		env = Envelope{Event: EventJoinStore, Data: data}
	}
	if err := conn.WriteJSON(env); err != nil {
		return fmt.Errorf("failed to announce scope: %w", err)
	}
	return nil
}

// Subscription is the live handle returned by Connect.
type Subscription struct {
	notifier *Notifier
	scope    domain.Scope
	handler  Handler

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)

	for {
		conn := s.currentConn()
		if conn == nil {
			return
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			if s.isClosed() || ctx.Err() != nil {
				return
			}
			if err := s.reconnect(ctx); err != nil {
				slog.Error("Realtime channel lost and could not be re-established", "error", err)
				return
			}
			continue
		}

		s.dispatch(payload)
	}
}

func (s *Subscription) dispatch(payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		slog.Warn("Dropping malformed realtime frame", "error", err)
		return
	}

	switch env.Event {
	case EventJoinAck:
		var ack joinAckPayload
		if err := json.Unmarshal(env.Data, &ack); err == nil {
			slog.Debug("Joined realtime room", "room_id", ack.RoomID)
		}
	case EventOrderUpdate:
		var order domain.Order
		if err := json.Unmarshal(env.Data, &order); err != nil {
			slog.Warn("Dropping malformed order update", "error", err)
			return
		}
		// Defense in depth: the server already scopes the room, but a manager
		// never renders another store's order even if one slips through.
		if !s.scope.Allows(order.StoreID) {
			slog.Debug("Discarding out-of-scope order event", "order_id", order.ID, "store_id", order.StoreID)
			return
		}
		s.handler(domain.OrderEvent{Order: order})
	default:
		slog.Debug("Ignoring unknown realtime event", "event", env.Event)
	}
}

func (s *Subscription) reconnect(ctx context.Context) error {
	conn, err := retry.Do(ctx, reconnectPolicy, func(error) retry.Action { return retry.Retry }, func() (*websocket.Conn, error) {
		return s.notifier.dial(ctx, s.scope)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		conn.Close()
		return fmt.Errorf("subscription disposed during reconnect")
	}
	s.conn.Close()
	s.conn = conn
	return nil
}

func (s *Subscription) currentConn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.conn
}

func (s *Subscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Dispose tears the subscription down: the read loop stops, the connection
// closes, and no handler fires afterwards. Safe to call more than once.
func (s *Subscription) Dispose() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	s.cancel()
	conn.Close()
	<-s.done
}
