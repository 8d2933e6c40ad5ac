package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"marcador/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
	broadcastQueue = 256
)

var ErrHubFull = errors.New("websocket hub queue is full")

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Hub pushes match updates to connected websocket clients. A client
// either follows every match or a single match id.
type Hub struct {
	log      Logger
	upgrader websocket.Upgrader

	clients    map[*client]bool
	broadcast  chan models.MatchUpdate
	register   chan *client
	unregister chan *client

	mu      sync.RWMutex
	count   int
	stopped chan struct{}
	once    sync.Once
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu      sync.RWMutex
	matchID int // 0 follows every match
}

// clientMessage is what clients may send to change their subscription.
type clientMessage struct {
	Type    string `json:"type"`
	MatchID int    `json:"partidoId"`
}

func NewHub(log Logger, allowedOrigins []string) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan models.MatchUpdate, broadcastQueue),
		register:   make(chan *client),
		unregister: make(chan *client),
		stopped:    make(chan struct{}),
	}
}

func (h *Hub) Init() error {
	return nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.Stop()
			h.shutdown()
			return
		case <-h.stopped:
			h.shutdown()
			return

		case c := <-h.register:
			h.clients[c] = true
			h.setCount(len(h.clients))
			h.log.Debug("websocket client registered, total %d", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.setCount(len(h.clients))
			}

		case update := <-h.broadcast:
			payload, err := json.Marshal(update)
			if err != nil {
				h.log.Error("failed to marshal match update: %v", err)
				continue
			}
			for c := range h.clients {
				if !c.follows(update.MatchID) {
					continue
				}
				select {
				case c.send <- payload:
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.setCount(len(h.clients))
		}
	}
}

func (h *Hub) Stop() {
	h.once.Do(func() { close(h.stopped) })
}

// Notify queues an update for delivery. It never blocks the caller.
func (h *Hub) Notify(_ context.Context, update models.MatchUpdate) error {
	select {
	case h.broadcast <- update:
		return nil
	default:
		return ErrHubFull
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Serve upgrades the request and follows matchID, or every match when
// matchID is zero.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, matchID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		matchID: matchID,
	}

	select {
	case h.register <- c:
	case <-h.stopped:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

func (h *Hub) shutdown() {
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.setCount(0)
}

func (c *client) follows(matchID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchID == 0 || c.matchID == matchID
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read error: %v", err)
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *client) handleMessage(message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.hub.log.Debug("ignoring malformed websocket message: %v", err)
		return
	}

	switch msg.Type {
	case "subscribe":
		c.mu.Lock()
		c.matchID = msg.MatchID
		c.mu.Unlock()
	case "unsubscribe":
		c.mu.Lock()
		c.matchID = 0
		c.mu.Unlock()
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, candidate := range allowed {
			if candidate == origin {
				return true
			}
		}
		return false
	}
}
