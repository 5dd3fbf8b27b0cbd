package wsconn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/server"
)

// Client is a single WebSocket connection to an action server.
type Client interface {
	// Connect dials the server.
	Connect(ctx context.Context) error

	// Close gracefully closes the connection.
	Close() error

	// Send writes a raw frame.
	Send(data []byte) error

	// SendCall encodes an action call with a correlation ID and sends it.
	SendCall(id string, call action.Call) error

	// Messages returns every inbound frame.
	Messages() <-chan Message

	// Errors returns connection errors. At most one is delivered.
	Errors() <-chan error

	// IsConnected returns current connection state.
	IsConnected() bool
}

type client struct {
	cfg    Config
	logger *slog.Logger

	conn *websocket.Conn

	messages chan Message
	errors   chan error
	done     chan struct{}

	writeMu sync.Mutex

	mu         sync.RWMutex
	connected  bool
	lastSeenAt time.Time
	closed     bool
}

// NewClient creates a Client. Zero config fields take DefaultConfig values.
func NewClient(cfg Config, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}

	return &client{
		cfg:      cfg,
		logger:   logger,
		messages: make(chan Message, cfg.BufferSize),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	header := http.Header{}
	if c.cfg.AuthToken != "" {
		header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %w (status %d)", c.cfg.URL, err, resp.StatusCode)
		}
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.lastSeenAt = time.Now()
	c.mu.Unlock()

	conn.SetPingHandler(func(data string) error {
		c.touch()
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	conn.SetPongHandler(func(string) error {
		c.touch()
		return nil
	})

	go c.readLoop()
	go c.heartbeatLoop()

	c.logger.Debug("websocket connected", "url", c.cfg.URL)
	return nil
}

func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	close(c.done)

	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *client) Send(data []byte) error {
	c.mu.RLock()
	if !c.connected {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *client) SendCall(id string, call action.Call) error {
	data, err := json.Marshal(server.SocketRequest{ID: id, Call: call})
	if err != nil {
		return fmt.Errorf("encode call: %w", err)
	}
	return c.Send(data)
}

func (c *client) Messages() <-chan Message {
	return c.messages
}

func (c *client) Errors() <-chan error {
	return c.errors
}

func (c *client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *client) touch() {
	c.mu.Lock()
	c.lastSeenAt = time.Now()
	c.mu.Unlock()
}

func (c *client) reportError(err error) {
	select {
	case c.errors <- err:
	default:
	}
}

// readLoop delivers frames until the connection fails or Close is called.
func (c *client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			select {
			case <-c.done:
			default:
				c.reportError(err)
			}
			return
		}
		c.touch()

		select {
		case c.messages <- Message{Data: data, ReceivedAt: receivedAt}:
		case <-c.done:
			return
		default:
			c.logger.Warn("message buffer full, dropping message")
		}
	}
}

// heartbeatLoop pings the server and detects stale connections.
func (c *client) heartbeatLoop() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), time.Now().Add(c.cfg.WriteTimeout))
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Debug("failed to send ping", "error", err)
			}

			c.mu.RLock()
			lastSeen := c.lastSeenAt
			c.mu.RUnlock()

			if time.Since(lastSeen) > c.cfg.PingTimeout {
				c.logger.Warn("connection stale",
					"last_seen", lastSeen,
					"timeout", c.cfg.PingTimeout,
				)
				c.reportError(ErrStaleConnection)
				return
			}
		}
	}
}

// DecodeReply parses an inbound frame as a server reply envelope.
func DecodeReply(msg Message) (server.SocketReply, error) {
	var reply server.SocketReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return reply, fmt.Errorf("decode reply: %w", err)
	}
	return reply, nil
}
