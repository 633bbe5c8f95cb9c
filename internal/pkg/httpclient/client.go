package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BrowserUserAgent is sent by providers whose endpoints expect a web client.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1.1 Safari/605.1.15"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s for url: %s", e.Status, e.URL)
}

// Client sends JSON requests with a fixed set of default headers.
type Client struct {
	http    *http.Client
	headers http.Header
}

// New builds a client. A zero timeout leaves requests without a deadline,
// relying on the transport defaults.
func New(timeout time.Duration, headers map[string]string) *Client {
	h := make(http.Header, len(headers))
	for k, v := range headers {
		h.Set(k, v)
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		headers: h,
	}
}

// PostJSON encodes body, posts it to url and decodes the response into out
// (when out is not nil).
func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, header, out)
}

// GetJSON fetches url and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, header, out)
}

func (c *Client) do(req *http.Request, header http.Header, out any) error {
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        req.URL.String(),
			Body:       string(body),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	// A 2xx without a body carries no errors, so out keeps its zero value.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.String(), err)
	}
	return nil
}
