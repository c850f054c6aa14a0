package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var ErrNotRegistered = errors.New("connection not registered")

// Conn is the part of *websocket.Conn the hub writes through.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn Conn
	mu   sync.Mutex
}

func (c *client) write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Hub tracks live connections per restaurant. The hub lock only guards the
// registry; each connection has its own write lock so a slow socket holds up
// nobody but its own writers.
type Hub struct {
	mu      sync.Mutex
	clients map[int]map[Conn]*client
	guards  map[int]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: map[int]map[Conn]*client{},
		guards:  map[int]*sync.Mutex{},
	}
}

var _ Broadcaster = (*Hub)(nil)

// Guard serializes delivery for one restaurant. Holding it across
// Broadcast+Push on one side and Attach on the other means an event is
// either sent live or sits in the buffer the next Attach drains.
func (h *Hub) Guard(restaurantID int) func() {
	h.mu.Lock()
	g, ok := h.guards[restaurantID]
	if !ok {
		g = &sync.Mutex{}
		h.guards[restaurantID] = g
	}
	h.mu.Unlock()

	g.Lock()
	return g.Unlock
}

func (h *Hub) Register(restaurantID int, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[restaurantID] == nil {
		h.clients[restaurantID] = map[Conn]*client{}
	}
	h.clients[restaurantID][conn] = &client{conn: conn}
}

func (h *Hub) Unregister(restaurantID int, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[restaurantID]
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, restaurantID)
	}
}

func (h *Hub) Connections(restaurantID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[restaurantID])
}

func (h *Hub) snapshot(restaurantID int) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*client, 0, len(h.clients[restaurantID]))
	for _, c := range h.clients[restaurantID] {
		out = append(out, c)
	}
	return out
}

// Broadcast writes frame to each of the restaurant's connections. A
// connection that fails the write is closed and dropped.
func (h *Hub) Broadcast(restaurantID int, frame []byte) int {
	delivered := 0
	for _, c := range h.snapshot(restaurantID) {
		if err := c.write(frame); err != nil {
			c.conn.Close()
			h.Unregister(restaurantID, c.conn)
			continue
		}
		delivered++
	}
	return delivered
}

// Send writes one frame to a single registered connection.
func (h *Hub) Send(restaurantID int, conn Conn, frame []byte) error {
	h.mu.Lock()
	c, ok := h.clients[restaurantID][conn]
	h.mu.Unlock()
	if !ok {
		return ErrNotRegistered
	}
	return c.write(frame)
}

// Attach registers conn and hands it everything buffered while the
// restaurant was offline, oldest first. Frames that could not be sent are
// put back in the buffer in their original order.
func (h *Hub) Attach(ctx context.Context, restaurantID int, conn Conn, buffer Buffer) (int, error) {
	unlock := h.Guard(restaurantID)
	defer unlock()

	h.Register(restaurantID, conn)

	frames, err := buffer.Drain(ctx, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("drain buffer: %w", err)
	}

	for i, frame := range frames {
		if err := h.Send(restaurantID, conn, frame); err != nil {
			for _, rest := range frames[i:] {
				if perr := buffer.Push(ctx, restaurantID, rest); perr != nil {
					return i, fmt.Errorf("send buffered notification: %w (restore failed: %v)", err, perr)
				}
			}
			return i, fmt.Errorf("send buffered notification: %w", err)
		}
	}
	return len(frames), nil
}
