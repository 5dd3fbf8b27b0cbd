package actionclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/version"
)

// Health is the /health reply.
type Health struct {
	Status     string         `json:"status"`
	Components map[string]any `json:"components"`
}

// Call runs an action on the server.
func (c *Client) Call(ctx context.Context, call action.Call) (*action.Response, error) {
	payload, err := json.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("encode call: %w", err)
	}

	data, err := c.doWithRetry(ctx, http.MethodPost, "/webhook", payload)
	if err != nil {
		return nil, err
	}

	var resp action.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}

// Utter runs the named action against a one-message tracker holding text.
func (c *Client) Utter(ctx context.Context, actionName, senderID, text string) (*action.Response, error) {
	return c.Call(ctx, action.Call{
		NextAction: actionName,
		SenderID:   senderID,
		Tracker: &action.Tracker{
			SenderID:      senderID,
			LatestMessage: map[string]any{"text": text},
		},
		Domain: action.Domain{},
	})
}

// Actions lists the actions registered on the server.
func (c *Client) Actions(ctx context.Context) ([]action.Info, error) {
	var infos []action.Info
	if err := c.get(ctx, "/actions", &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// Health reads the server's health report. An unhealthy server still
// returns its report along with the *APIError.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/health", nil)

	var apiErr *APIError
	if err != nil && !errors.As(err, &apiErr) {
		return nil, err
	}

	var h Health
	if uerr := json.Unmarshal(data, &h); uerr != nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unmarshal response: %w", uerr)
	}
	return &h, err
}

// Version reads the server's build information.
func (c *Client) Version(ctx context.Context) (version.BuildInfo, error) {
	var info version.BuildInfo
	err := c.get(ctx, "/version", &info)
	return info, err
}
