package server

import (
	"encoding/json"
	"time"

	"github.com/taskfoo/taskfoo-bot/internal/action"
)

// Config holds server settings.
type Config struct {
	AuthToken    string        // Empty disables auth
	MaxBodyBytes int64         // Request body cap for /webhook
	PingInterval time.Duration // WebSocket keepalive interval
	WriteTimeout time.Duration // WebSocket write deadline
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes: 1 << 20,
		PingInterval: 30 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Reply frame types.
const (
	FrameResponse = "response"
	FrameError    = "error"
)

// SocketRequest is one inbound WebSocket frame: an action call with an
// optional client-chosen correlation ID.
type SocketRequest struct {
	ID string `json:"id,omitempty"`
	action.Call
}

// SocketReply is one outbound WebSocket frame.
type SocketReply struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"` // "response" or "error"
	Body json.RawMessage `json:"body"`
}

// Stats contains request counters.
type Stats struct {
	Calls        int64 `json:"calls"`
	Failures     int64 `json:"failures"`
	SocketsOpen  int64 `json:"sockets_open"`
	SocketFrames int64 `json:"socket_frames"`
	Unauthorized int64 `json:"unauthorized"`
}
