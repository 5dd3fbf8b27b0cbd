package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/version"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the action executor.
type Server struct {
	cfg      Config
	exec     *action.Executor
	logger   *slog.Logger
	upgrader websocket.Upgrader

	store      Pinger
	auditStats func() any

	calls        atomic.Int64
	failures     atomic.Int64
	socketsOpen  atomic.Int64
	socketFrames atomic.Int64
	unauthorized atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithStore adds an audit store to the health check.
func WithStore(p Pinger) Option {
	return func(s *Server) {
		s.store = p
	}
}

// WithAuditStats exposes audit writer metrics on /health.
func WithAuditStats(fn func() any) Option {
	return func(s *Server) {
		s.auditStats = fn
	}
}

// New creates a Server.
func New(cfg Config, exec *action.Executor, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	s := &Server{
		cfg:    cfg,
		exec:   exec,
		logger: logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			// The host runtime and chat frontend are served from other origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/actions", s.handleActions).Methods(http.MethodGet)

	r.Handle("/webhook", s.authenticate(http.HandlerFunc(s.handleWebhook))).Methods(http.MethodPost)
	r.Handle("/webhook/ws", s.authenticate(http.HandlerFunc(s.handleSocket))).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	return r
}

// Stats returns request counters.
func (s *Server) Stats() Stats {
	return Stats{
		Calls:        s.calls.Load(),
		Failures:     s.failures.Load(),
		SocketsOpen:  s.socketsOpen.Load(),
		SocketFrames: s.socketFrames.Load(),
		Unauthorized: s.unauthorized.Load(),
	}
}

// handleHealth reports liveness and audit store connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "ok",
		Components: make(map[string]any),
	}

	health.Components["actions"] = len(s.exec.Actions())
	health.Components["server"] = s.Stats()

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["audit_store"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["audit_store"] = "connected"
		}
	}
	if s.auditStats != nil {
		health.Components["audit_writer"] = s.auditStats()
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

func (s *Server) handleActions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.exec.Actions())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
