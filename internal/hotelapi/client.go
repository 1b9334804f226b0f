package hotelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Client is a thin bearer-token HTTP client for one upstream service. Every
// request carries the token; responses may arrive bare or wrapped in a
// {"data": ...} envelope depending on which producer answers.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Get fetches path and decodes the JSON payload into dest.
func (c *Client) Get(ctx context.Context, path string, dest interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

// Send issues a mutating request with a JSON body, discarding the response
// payload.
func (c *Client) Send(ctx context.Context, method, path string, body interface{}) error {
	return c.do(ctx, method, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s returned status %d", method, path, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	return decodePayload(resp.Body, dest)
}

// decodePayload copies the response into dest, unwrapping a {"data": ...}
// envelope when one is present.
func decodePayload(r io.Reader, dest interface{}) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
