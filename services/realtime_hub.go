package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"healthdash/models"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 32
)

type WSClient struct {
	Conn *websocket.Conn
	send chan []byte
	mu   sync.Mutex // gorilla allows one concurrent writer
	once sync.Once
}

func NewWSClient(conn *websocket.Conn) *WSClient {
	return &WSClient{Conn: conn, send: make(chan []byte, sendBuffer)}
}

// Write sends one message with a deadline.
func (c *WSClient) Write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

// shutdown stops the write pump and closes the connection. Callers hold the
// hub lock so no Broadcast is sending on c.send.
func (c *WSClient) shutdown(goingAway bool) {
	c.once.Do(func() {
		close(c.send)
		if goingAway {
			_ = c.Write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		}
		_ = c.Conn.Close()
	})
}

// RealtimeHub pushes change events to every connected UI. Broadcast only
// queues; each client's WritePump does the socket writes.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
	log     *zap.Logger
}

func NewRealtimeHub(log *zap.Logger) *RealtimeHub {
	return &RealtimeHub{clients: make(map[*WSClient]struct{}), log: log}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	realtimeClients.Set(float64(n))
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	if ok {
		c.shutdown(false)
	}
	h.mu.Unlock()
	if ok {
		realtimeClients.Set(float64(n))
	}
}

// WritePump delivers queued events and keepalive pings to c until the client
// is unregistered or a write fails.
func (h *RealtimeHub) WritePump(c *WSClient) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.Write(websocket.TextMessage, msg); err != nil {
				h.log.Debug("dropping realtime client", zap.Error(err))
				h.Unregister(c)
				return
			}
		case <-t.C:
			if err := c.Write(websocket.PingMessage, nil); err != nil {
				h.Unregister(c)
				return
			}
		}
	}
}

// Broadcast queues evt for all clients without blocking. A client whose queue
// is full is dropped.
func (h *RealtimeHub) Broadcast(evt models.Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.Error("encode event", zap.Error(err))
		return
	}
	var slow []*WSClient
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow realtime client")
		h.Unregister(c)
	}
}

func (h *RealtimeHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *RealtimeHub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		c.shutdown(true)
	}
	h.clients = make(map[*WSClient]struct{})
	h.mu.Unlock()
	realtimeClients.Set(0)
}
