package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Event is the wire format pushed to connected clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one websocket connection belonging to a user
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan Event

	mu     sync.Mutex
	tables map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Subscribe registers interest in one table's change events. Subscribing to a
// table the client already watches replaces the previous registration, so
// there is exactly one active subscription per (table, client) pair.
func (c *Client) Subscribe(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[table] = true
}

// Unsubscribe removes interest in a table
func (c *Client) Unsubscribe(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, table)
}

func (c *Client) watches(table string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tables[table]
}

// Hub tracks connected clients per user and fans events out to them
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients: map[uuid.UUID]map[*Client]struct{}{},
	}
}

// AddClient registers a connection for a user and starts its write loop
func (h *Hub) AddClient(userID uuid.UUID, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan Event, 64),
		tables: map[string]bool{},
		ctx:    ctx,
		cancel: cancel,
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()
	go c.keepAliveLoop()

	return c
}

// RemoveClient unregisters a connection and closes it
func (h *Hub) RemoveClient(c *Client) {
	c.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}

	_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
}

// NotifyUser pushes an event to every connection a user has open. A full send
// buffer drops the event; the client re-fetches on reconnect anyway.
func (h *Hub) NotifyUser(userID uuid.UUID, eventType string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.Send <- Event{Type: eventType, Data: data}:
		default:
		}
	}
}

// NotifyTableChange pushes a row-change event to every connection of each
// affected user that subscribed to the table.
func (h *Hub) NotifyTableChange(table string, userIDs []uuid.UUID, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, uid := range userIDs {
		for c := range h.clients[uid] {
			if !c.watches(table) {
				continue
			}
			select {
			case c.Send <- ev:
			default:
			}
		}
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.Conn, ev)
			cancel()
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Conn.Ping(pingCtx)
			cancel()
		}
	}
}
