// Package websocket runs the live-reload channel of the preview server: a
// hub that accepts browser connections and broadcasts reload notices to all
// of them.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/pretextbook/pretext/internal/logging"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Hub tracks connected browsers and fans messages out to them.
//
// A central goroutine owns registration and broadcasting; clients map
// access is always under clientsMutex.
type Hub struct {
	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn

	logger logging.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// NewHub creates a hub and starts its goroutine
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client, 16),
		unregister: make(chan *websocket.Conn, 16),
		logger:     logger.WithComponent("livereload"),
		ctx:        ctx,
		cancel:     cancel,
	}

	go h.runHub()
	return h
}

// ServeHTTP upgrades the request and registers the browser. Only pages
// served by the same host may connect.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.ctx.Err() != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	if !sameHost(r) {
		h.logger.Warn(r.Context(), nil, "Rejected live reload connection", "origin", r.Header.Get("Origin"))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote", r.RemoteAddr)
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, 16)}

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	go h.writeToClient(client)
	h.readFromClient(client)
}

func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (h *Hub) runHub() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client.conn] = client
			n := len(h.clients)
			h.clientsMutex.Unlock()
			h.logger.Debug(h.ctx, "Browser connected", "clients", n)

		case conn := <-h.unregister:
			h.removeClient(conn)

		case message := <-h.broadcast:
			h.broadcastToClients(message)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	client, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(client.send)
	}
	n := len(h.clients)
	h.clientsMutex.Unlock()

	if ok {
		_ = conn.Close(websocket.StatusNormalClosure, "")
		h.logger.Debug(h.ctx, "Browser disconnected", "clients", n)
	}
}

func (h *Hub) broadcastToClients(message []byte) {
	h.clientsMutex.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMutex.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- message:
		default:
			// slow client
			h.removeClient(c.conn)
		}
	}
}

// readFromClient blocks until the browser goes away. Browsers never send
// anything meaningful on this channel.
func (h *Hub) readFromClient(client *Client) {
	defer func() {
		select {
		case h.unregister <- client.conn:
		case <-h.ctx.Done():
		}
	}()

	for {
		if _, _, err := client.conn.Read(h.ctx); err != nil {
			return
		}
	}
}

func (h *Hub) writeToClient(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := client.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				h.logger.Debug(h.ctx, "WebSocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := client.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-h.ctx.Done():
			return
		}
	}
}

// BroadcastReload tells every connected browser to reload
func (h *Hub) BroadcastReload(paths []string) {
	h.BroadcastMessage(UpdateMessage{Type: MessageReload, Paths: paths, Timestamp: time.Now()})
}

// BroadcastMessage sends a message to all connected clients. It drops the
// message when the hub is shut down or saturated.
func (h *Hub) BroadcastMessage(message UpdateMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error(h.ctx, err, "Failed to marshal broadcast message")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.ctx.Done():
	default:
		h.logger.Warn(h.ctx, nil, "Broadcast channel full, dropping message")
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// Shutdown closes every connection and stops the hub. It is safe to call
// more than once.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		h.cancel()

		h.clientsMutex.Lock()
		for conn := range h.clients {
			_ = conn.Close(websocket.StatusGoingAway, "server shutdown")
		}
		h.clients = make(map[*websocket.Conn]*Client)
		h.clientsMutex.Unlock()
	})
}
