package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (CORS handled by main server)
		return true
	},
}

var errSlowSubscriber = errors.New("subscriber send buffer full")

// wsSubscriber adapts one WebSocket connection to the registry's Sender
// contract. The registry only ever sees Send; the connection itself stays
// owned by the read/write pumps here.
type wsSubscriber struct {
	conn    *websocket.Conn
	send    chan []byte
	orderID string
	log     *zap.SugaredLogger

	detach func()
	once   sync.Once
}

// Send queues a payload for the write pump without blocking. A full buffer
// means the subscriber is not keeping up; the registry treats the error as a
// dead channel and evicts it.
func (c *wsSubscriber) Send(payload []byte) error {
	select {
	case c.send <- payload:
		return nil
	default:
		return errSlowSubscriber
	}
}

// teardown detaches from the registry and closes the connection exactly once,
// whichever pump fails first.
func (c *wsSubscriber) teardown() {
	c.once.Do(func() {
		c.detach()
		c.conn.Close()
	})
}

// readPump watches the connection for client close and keeps the read
// deadline fresh on pongs. Subscribers only listen, so inbound frames are
// discarded.
func (c *wsSubscriber) readPump() {
	defer c.teardown()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Infow("ws_read_error", "order_id", c.orderID, "err", err)
			}
			return
		}
	}
}

// writePump drains the send buffer onto the wire and pings to keep the
// connection alive.
func (c *wsSubscriber) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWebSocket upgrades the connection and attaches it as the order's
// subscriber. An attach for an order already being watched replaces the old
// subscriber. Nothing is replayed: events emitted before attachment are gone.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing orderId", "subscribe with /ws?orderId=<id>")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Infow("ws_upgrade_failed", "err", err)
		return
	}

	sub := &wsSubscriber{
		conn:    conn,
		send:    make(chan []byte, 64),
		orderID: orderID,
		log:     s.log,
	}
	// Detach by identity: if this subscriber has been replaced by a newer
	// attach, its late teardown must leave the replacement in place.
	sub.detach = func() { s.registry.DetachChannel(orderID, sub) }

	s.registry.Attach(orderID, sub)

	go sub.writePump()
	go sub.readPump()
}
