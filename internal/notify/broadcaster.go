package notify

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"stock_orders/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// EventType names an order lifecycle transition.
type EventType string

const (
	EventOrderCreated  EventType = "order.created"
	EventOrderCanceled EventType = "order.canceled"
	EventOrderMatched  EventType = "order.matched"
)

// Event is one order lifecycle notification pushed to stream subscribers.
type Event struct {
	ID    string       `json:"id"`
	Type  EventType    `json:"type"`
	Order domain.Order `json:"order"`
	At    time.Time    `json:"at"`
}

// NewEvent builds an Event for a just-committed order transition.
func NewEvent(eventType EventType, order domain.Order) Event {
	return Event{
		ID:    uuid.NewString(),
		Type:  eventType,
		Order: order,
		At:    time.Now().UTC(),
	}
}

const clientBuffer = 64

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Broadcaster fans order events out to websocket subscribers. Publishing
// never blocks the order flow: a client that cannot keep up is dropped.
type Broadcaster struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With("module", "notify"),
	}
}

// Publish delivers the event to all connected subscribers.
func (b *Broadcaster) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for c := range b.clients {
		select {
		case c.send <- evt:
		default:
			// Slow consumer: close and forget it.
			delete(b.clients, c)
			close(c.send)
			b.logger.Warn("dropping slow event subscriber")
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams events until
// the client disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{conn: conn, send: make(chan Event, clientBuffer)}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	b.logger.Info("event subscriber connected", slog.String("remote", conn.RemoteAddr().String()))

	go b.writeLoop(c)
	b.readLoop(c)
}

// writeLoop pushes events to one client until its channel closes.
func (b *Broadcaster) writeLoop(c *client) {
	for evt := range c.send {
		if err := c.conn.WriteJSON(evt); err != nil {
			b.remove(c)
			return
		}
	}
	c.conn.Close()
}

// readLoop consumes (and discards) client frames so pings and close frames
// are processed; returning means the connection is gone.
func (b *Broadcaster) readLoop(c *client) {
	defer b.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) remove(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
	c.conn.Close()
}

// Close disconnects all subscribers.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		close(c.send)
		c.conn.Close()
	}
}
