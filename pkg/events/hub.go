package events

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
)

// DefaultClientBuffer is the per-client queue length.
const DefaultClientBuffer = 16

// Client is one subscriber of a Hub. Messages queue on a bounded channel
// that a single writer drains.
type Client struct {
	id   string
	send chan any
	done chan struct{}
	once sync.Once
}

func newClient(buffer int) *Client {
	return &Client{
		id:   uuid.NewString(),
		send: make(chan any, buffer),
		done: make(chan struct{}),
	}
}

// ID identifies the client in logs.
func (c *Client) ID() string {
	return c.id
}

// Messages is the queue the writer drains.
func (c *Client) Messages() <-chan any {
	return c.send
}

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Send queues msg without blocking. It reports false if the client is closed
// or its queue is full.
func (c *Client) Send(msg any) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close stops delivery to the client. It is safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() { close(c.done) })
}

// Hub broadcasts emitted events to every registered client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	buffer  int
	now     func() time.Time
}

// Ensure Hub implements EventSink
var _ interfaces.EventSink = (*Hub)(nil)

// NewHub creates a hub whose clients queue up to buffer messages.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		buffer:  buffer,
		now:     time.Now,
	}
}

// Register adds a client.
func (h *Hub) Register() *Client {
	c := newClient(h.buffer)

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	slog.Debug("event client registered", "client", c.id, "clients", n)
	return c
}

// Unregister removes and closes a client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.Close()
	slog.Debug("event client unregistered", "client", c.id, "clients", n)
}

// Clients returns the number of registered clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Emit encodes the event once and queues it for every client. A client with
// a full queue misses the event; the hub never blocks on a slow reader.
// Only an unencodable payload is an error.
func (h *Hub) Emit(name string, payload any) error {
	env, err := NewEnvelope(name, payload, h.now())
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.Send(env) {
			slog.Warn("event dropped for slow client", "event", name, "client", c.id)
		}
	}
	return nil
}

// ClientSink returns a sink that delivers only to c. Unlike Emit it reports
// a closed client or a full queue as ErrEmitFailed.
func (h *Hub) ClientSink(c *Client) interfaces.EventSink {
	return SinkFunc(func(name string, payload any) error {
		env, err := NewEnvelope(name, payload, h.now())
		if err != nil {
			return err
		}
		if !c.Send(env) {
			return fmt.Errorf("%w: %s: client %s not accepting events", ErrEmitFailed, name, c.id)
		}
		return nil
	})
}

// Close unregisters every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.Close()
	}
}
