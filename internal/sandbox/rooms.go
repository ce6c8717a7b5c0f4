package sandbox

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
	"github.com/adarsh-naik-2004/bats-admin/internal/metrics"
	"github.com/adarsh-naik-2004/bats-admin/internal/realtime"
)

const adminRoom = "admin"

func storeRoom(storeID string) string {
	return "store:" + storeID
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdJoin struct {
	room string
	conn *websocket.Conn
}

func (cmdJoin) hubCmd() {}

type cmdLeave struct {
	room string
	conn *websocket.Conn
}

func (cmdLeave) hubCmd() {}

type cmdBroadcast struct {
	rooms []string
	data  []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

// hub fans order events out to rooms. All state lives in the run goroutine;
// the only way in is the command channel.
type hub struct {
	cmdCh chan hubCmd
	rooms map[string]map[*websocket.Conn]*clientWriter
}

func newHub() *hub {
	h := &hub{
		cmdCh: make(chan hubCmd, 256),
		rooms: make(map[string]map[*websocket.Conn]*clientWriter),
	}
	go h.run()
	return h
}

func (h *hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdJoin:
			h.handleJoin(c)
		case cmdLeave:
			h.handleLeave(c)
		case cmdBroadcast:
			h.handleBroadcast(c)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *hub) handleJoin(c cmdJoin) {
	clients, ok := h.rooms[c.room]
	if !ok {
		clients = make(map[*websocket.Conn]*clientWriter)
		h.rooms[c.room] = clients
	}
	clients[c.conn] = newClientWriter(c.conn)
	metrics.RealtimeClientsCurrent.Inc()
	slog.Debug("Realtime client joined", "room", c.room, "clients", len(clients))
}

func (h *hub) handleLeave(c cmdLeave) {
	clients, ok := h.rooms[c.room]
	if !ok {
		return
	}
	cw, ok := clients[c.conn]
	if !ok {
		return
	}
	cw.stop()
	delete(clients, c.conn)
	metrics.RealtimeClientsCurrent.Dec()
	if len(clients) == 0 {
		delete(h.rooms, c.room)
	}
}

func (h *hub) handleBroadcast(c cmdBroadcast) {
	for _, room := range c.rooms {
		for _, cw := range h.rooms[room] {
			select {
			case cw.sendCh <- c.data:
			default:
				// Slow consumer, drop the frame rather than block the hub.
			}
		}
	}
}

func (h *hub) handleStop() {
	for room, clients := range h.rooms {
		for conn, cw := range clients {
			cw.stop()
			delete(clients, conn)
		}
		delete(h.rooms, room)
	}
}

func (h *hub) join(room string, conn *websocket.Conn) {
	h.cmdCh <- cmdJoin{room: room, conn: conn}
}

func (h *hub) leave(room string, conn *websocket.Conn) {
	h.cmdCh <- cmdLeave{room: room, conn: conn}
}

// broadcastOrder pushes the order to the admin room and the order's store
// room. A connection only ever sits in one room, so nobody sees doubles.
func (h *hub) broadcastOrder(order domain.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		slog.Error("Failed to encode order event", "order_id", order.ID, "error", err)
		return
	}
	frame, err := json.Marshal(realtime.Envelope{Event: realtime.EventOrderUpdate, Data: payload})
	if err != nil {
		slog.Error("Failed to encode order frame", "order_id", order.ID, "error", err)
		return
	}

	rooms := []string{adminRoom, storeRoom(order.StoreID)}
	h.cmdCh <- cmdBroadcast{rooms: rooms, data: frame}
	for _, room := range rooms {
		metrics.OrderEventsTotal.WithLabelValues(room).Inc()
	}
}

func (h *hub) stop() {
	h.cmdCh <- cmdStop{}
}

// --- HTTP entry point ---

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	CheckOrigin:      func(*http.Request) bool { return true },
}

// handleWebSocket authenticates the upgrade via the session cookies, reads
// exactly one join frame, enforces the caller's scope, acknowledges, and then
// parks the connection in its room until it drops.
func (s *Server) handleWebSocket(c echo.Context) error {
	user, err := s.authenticate(c)
	if err != nil {
		return err
	}
	if !user.Role.Dashboard() {
		return echo.NewHTTPError(http.StatusForbidden, "dashboard roles only")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}

	room, err := s.negotiateRoom(conn, user)
	if err != nil {
		conn.Close()
		return nil
	}

	// Ack before the hub owns the write side, so only one writer ever
	// touches the connection at a time.
	ack, _ := json.Marshal(realtime.Envelope{Event: realtime.EventJoinAck, Data: mustJSON(map[string]string{"roomId": room})})
	if err := conn.WriteMessage(websocket.TextMessage, ack); err != nil {
		conn.Close()
		return nil
	}
	s.hub.join(room, conn)

	// Reads only serve liveness from here on, clients never send again.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.leave(room, conn)
	return nil
}

func (s *Server) negotiateRoom(conn *websocket.Conn, user *domain.User) (string, error) {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	var env realtime.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		return "", err
	}

	switch env.Event {
	case realtime.EventJoinAdmin:
		if user.Role != domain.RoleAdmin {
			return "", writeCloseError(conn, "admins only")
		}
		return adminRoom, nil
	case realtime.EventJoinStore:
		var payload struct {
			StoreID string `json:"storeId"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.StoreID == "" {
			return "", writeCloseError(conn, "storeId is required")
		}
		if user.Role == domain.RoleManager && (user.Store == nil || user.Store.ID != payload.StoreID) {
			return "", writeCloseError(conn, "managers may only join their own store")
		}
		return storeRoom(payload.StoreID), nil
	default:
		return "", writeCloseError(conn, "expected a join event")
	}
}

func writeCloseError(conn *websocket.Conn, reason string) error {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return echo.NewHTTPError(http.StatusForbidden, reason)
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
