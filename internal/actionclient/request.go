package actionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/taskfoo/taskfoo-bot/internal/action"
)

// APIError is a non-2xx reply from the action server.
type APIError struct {
	StatusCode int
	Message    string
	ActionName string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("action server error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether the server has no action by the requested name.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Body:       body,
	}
	var eb action.ErrorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		apiErr.Message = eb.Error
		apiErr.ActionName = eb.ActionName
	}
	return apiErr
}

// doRequest performs one HTTP request. payload is sent as the body when non-nil.
func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return data, newAPIError(resp.StatusCode, data)
	}

	return data, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// backoff * (0.5 to 1.5)
			wait := backoff
			if backoff > 0 {
				wait = backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			}
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", wait,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}

			backoff *= 2
		}

		data, err := c.doRequest(ctx, method, path, payload)
		if err == nil {
			return data, nil
		}

		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return data, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	data, err := c.doWithRetry(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
