// Package events fans committed game events out to WebSocket subscribers.
package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/questforge/questforge/internal/domain"
)

// HubConfig tunes the live feed.
type HubConfig struct {
	// SendBuffer is the per-client queue. A client whose queue is full
	// is disconnected.
	SendBuffer   int
	WriteTimeout time.Duration
	PingInterval time.Duration
	// AllowedOrigins restricts browser upgrades. Empty allows any origin.
	AllowedOrigins []string
}

// DefaultHubConfig returns the stock live feed settings.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		SendBuffer:   64,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

type client struct {
	conn *websocket.Conn
	send chan domain.Event
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub tracks subscribers and broadcasts events to them. It implements
// domain.Publisher and http.Handler.
type Hub struct {
	cfg      HubConfig
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(cfg HubConfig, log *zap.Logger) *Hub {
	def := DefaultHubConfig()
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		cfg:     cfg,
		log:     log.Named("events"),
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// ServeHTTP upgrades the request and streams events until the client
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.log.Debug("upgrade failed", zap.Error(err))
		return
	}
	c := &client{
		conn: conn,
		send: make(chan domain.Event, h.cfg.SendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.wg.Add(2)
	h.mu.Unlock()
	h.log.Debug("subscriber connected", zap.String("remote", r.RemoteAddr), zap.Int("subscribers", h.Count()))

	go func() {
		defer h.wg.Done()
		h.readLoop(c)
	}()
	go func() {
		defer h.wg.Done()
		h.writeLoop(c)
	}()
}

// readLoop drains client frames so close and pong control messages are
// processed. The feed is one-way; payloads are ignored.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ping := time.NewTicker(h.cfg.PingInterval)
	defer ping.Stop()
	defer h.remove(c)

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
	if ok {
		h.log.Debug("subscriber disconnected", zap.Int("subscribers", h.Count()))
	}
}

// Publish queues ev for every subscriber without blocking. Subscribers
// that cannot keep up are dropped.
func (h *Hub) Publish(ev domain.Event) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow subscriber", zap.String("event", string(ev.Type)))
		h.remove(c)
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber and waits for their goroutines.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.wg.Wait()
	return nil
}
