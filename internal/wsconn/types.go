package wsconn

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// Message is one inbound frame with its local receive time.
type Message struct {
	Data       []byte    // Raw frame bytes
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Config configures a Client.
type Config struct {
	URL          string        // e.g. ws://localhost:5055/webhook/ws
	AuthToken    string        // Sent as a bearer token when set
	PingInterval time.Duration // Keepalive ping interval
	PingTimeout  time.Duration // Max silence before the connection is stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		PingInterval: 30 * time.Second,
		PingTimeout:  90 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   256,
	}
}
