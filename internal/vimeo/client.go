// Package vimeo reads account data from the Vimeo API on behalf of a presenter.
package vimeo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const acceptHeader = "application/vnd.vimeo.*+json;version=3.4"

// Client calls the Vimeo REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Vimeo client. baseURL is e.g. https://api.vimeo.com.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}, logger: logger}
}

// StatusError is a non-2xx answer from Vimeo.
type StatusError struct {
	Status  int
	Message string `json:"error"`
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vimeo: status %d: %s", e.Status, e.Message)
}

// Me returns the raw user document of the token's owner.
func (c *Client) Me(ctx context.Context, token string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build vimeo request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vimeo /me: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read vimeo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		se := &StatusError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, se)
		c.logger.Warn("vimeo request failed", zap.Int("status", resp.StatusCode), zap.String("error", se.Message))
		return nil, se
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("vimeo /me: invalid json")
	}
	return raw, nil
}
