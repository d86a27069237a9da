package network

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/kcc/core"
)

// client is one feed subscriber with its own outbound queue
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// Hub fans pose frames out to websocket subscribers
// Broadcast never blocks the simulation loop: a client whose queue is full misses the frame
type Hub struct {
	config   *Config
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	closed  atomic.Bool
	dropped atomic.Uint64
	wg      sync.WaitGroup
}

// NewHub creates a hub with the given configuration
func NewHub(cfg *Config) *Hub {
	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// Local debugging tool; any origin may observe
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and serves frames until the peer leaves or the hub closes
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "feed closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[network] upgrade failed: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, h.config.SendQueueSize),
		done: make(chan struct{}),
	}
	if !h.register(c) {
		conn.Close()
		return
	}
	log.Printf("[network] client connected: %s", r.RemoteAddr)

	core.Go(func() {
		defer h.wg.Done()
		h.writeLoop(c)
	})

	h.readLoop(c)
	h.unregister(c)
	log.Printf("[network] client disconnected: %s", r.RemoteAddr)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed.Load() {
		return false
	}
	h.clients[c] = struct{}{}
	h.wg.Add(1)
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.stop()
}

// readLoop discards inbound messages; it exists to process control frames and detect close
func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(512)
	deadline := 2 * h.config.PingInterval
	c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.stop()
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.config.WriteTimeout)); err != nil {
				c.stop()
				return
			}

		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
			c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.config.WriteTimeout))
			return
		}
	}
}

// Broadcast encodes v once and queues it for every client
func (h *Hub) Broadcast(v any) error {
	if h.closed.Load() {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// ClientCount returns connected subscriber count
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns frames skipped because a client queue was full
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close disconnects every client and waits for their writers to finish
func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		c.stop()
	}
	h.mu.Unlock()

	h.wg.Wait()
}
