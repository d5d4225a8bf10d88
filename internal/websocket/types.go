package websocket

import (
	"time"

	"github.com/coder/websocket"
)

// Message types sent to browsers
const (
	MessageReload = "reload"
)

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Paths     []string  `json:"paths,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	conn *websocket.Conn
	send chan []byte
}
