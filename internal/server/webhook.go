package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/taskfoo/taskfoo-bot/internal/action"
)

// handleWebhook runs one action call from a JSON body.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var call action.Call
	if err := json.NewDecoder(body).Decode(&call); err != nil {
		s.failures.Add(1)
		s.logger.Warn("invalid webhook body",
			"request_id", RequestID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusBadRequest, action.ErrorBody{
			Error: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	status, payload := s.execute(r.Context(), call)
	writeJSON(w, status, payload)
}

// execute runs a call and maps the outcome to an HTTP status and body.
func (s *Server) execute(ctx context.Context, call action.Call) (int, any) {
	s.calls.Add(1)

	resp, err := s.exec.Run(ctx, call)
	if err == nil {
		return http.StatusOK, resp
	}

	s.failures.Add(1)

	body := action.ErrorBody{Error: err.Error(), ActionName: call.NextAction}
	var ae *action.ActionError
	if errors.As(err, &ae) {
		body = ae.Body()
	}

	switch {
	case errors.Is(err, action.ErrActionNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, action.ErrRejected), errors.Is(err, action.ErrInvalidCall):
		return http.StatusBadRequest, body
	default:
		s.logger.Error("action execution failed",
			"request_id", RequestID(ctx),
			"action", call.NextAction,
			"error", err,
		)
		return http.StatusInternalServerError, body
	}
}
