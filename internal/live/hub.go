package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	clientBuffer   = 64
	hubBacklog     = 256
)

var (
	// ErrHubBacklogFull is returned when updates arrive faster than the hub drains them.
	ErrHubBacklogFull = errors.New("websocket hub backlog full")
	// ErrHubClosed is returned once Run has exited.
	ErrHubClosed = errors.New("websocket hub closed")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type envelope struct {
	matchID uint
	event   string
	data    []byte
}

// Client is one websocket subscriber pinned to a single match.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID uint

	mu     sync.RWMutex
	events map[string]bool // empty means every event
}

// clientMessage is what a subscriber may send to narrow its feed.
type clientMessage struct {
	Type   string   `json:"type"`
	Events []string `json:"events"`
}

// Hub keeps the set of websocket clients and fans updates out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, hubBacklog),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run drives the hub until ctx is cancelled, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", "client_id", c.id, "match_id", c.matchID, "clients", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("websocket client unregistered", "client_id", c.id, "clients", total)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if !c.shouldReceive(msg) {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("dropping slow websocket client", "client_id", c.id, "match_id", c.matchID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an update without blocking the caller.
func (h *Hub) Broadcast(_ context.Context, u Update) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.broadcast <- envelope{matchID: u.MatchID, event: u.Event, data: data}:
		return nil
	default:
		return ErrHubBacklogFull
	}
}

// ClientCount reports how many subscribers are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and subscribes the connection to one match.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, matchID uint) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade websocket: %w", err)
	}
	c := &Client{
		id:      uuid.NewString(),
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, clientBuffer),
		matchID: matchID,
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubClosed
	}
	go c.writePump()
	go c.readPump()
	return nil
}

func (c *Client) shouldReceive(msg envelope) bool {
	if c.matchID != 0 && msg.matchID != c.matchID {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.events) == 0 {
		return true
	}
	return c.events[msg.event]
}

func (c *Client) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.logger.Debug("ignoring malformed client message", "client_id", c.id, "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch msg.Type {
	case "subscribe":
		c.events = make(map[string]bool, len(msg.Events))
		for _, e := range msg.Events {
			c.events[e] = true
		}
	case "unsubscribe":
		c.events = nil
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", "client_id", c.id, "error", err)
			}
			return
		}
		c.handleMessage(data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
