package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskfoo/taskfoo-bot/internal/action"
)

// handleSocket upgrades to a WebSocket and serves action calls until the
// peer disconnects. Calls on one socket run in arrival order.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	s.socketsOpen.Add(1)
	defer s.socketsOpen.Add(-1)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sc := &socketConn{
		conn:         conn,
		writeTimeout: s.cfg.WriteTimeout,
	}
	defer conn.Close()

	readWait := 2 * s.cfg.PingInterval
	conn.SetReadLimit(s.cfg.MaxBodyBytes)
	conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	go s.keepalive(ctx, sc)

	requestID := RequestID(r.Context())
	s.logger.Debug("websocket opened", "request_id", requestID, "remote", r.RemoteAddr)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "request_id", requestID, "error", err)
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		conn.SetReadDeadline(time.Now().Add(readWait))
		s.socketFrames.Add(1)

		reply := s.handleFrame(ctx, data)
		if err := sc.writeJSON(reply); err != nil {
			s.logger.Warn("websocket write failed", "request_id", requestID, "error", err)
			break
		}
	}

	sc.close()
	s.logger.Debug("websocket closed", "request_id", requestID)
}

// handleFrame decodes one SocketRequest and runs it.
func (s *Server) handleFrame(ctx context.Context, data []byte) SocketReply {
	var req SocketRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.failures.Add(1)
		return errorReply("", action.ErrorBody{Error: fmt.Sprintf("invalid frame: %v", err)})
	}

	status, payload := s.execute(ctx, req.Call)
	if status != http.StatusOK {
		body, _ := payload.(action.ErrorBody)
		return errorReply(req.ID, body)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errorReply(req.ID, action.ErrorBody{Error: err.Error(), ActionName: req.NextAction})
	}
	return SocketReply{ID: req.ID, Type: FrameResponse, Body: raw}
}

func errorReply(id string, body action.ErrorBody) SocketReply {
	raw, _ := json.Marshal(body)
	return SocketReply{ID: id, Type: FrameError, Body: raw}
}

// keepalive pings the peer until ctx ends.
func (s *Server) keepalive(ctx context.Context, sc *socketConn) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sc.ping(); err != nil {
				s.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// socketConn serializes writes to a WebSocket connection.
type socketConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
}

func (c *socketConn) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *socketConn) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), time.Now().Add(c.writeTimeout))
}

func (c *socketConn) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
}
