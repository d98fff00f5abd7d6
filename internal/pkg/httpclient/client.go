package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every outbound call unless overridden.
const DefaultTimeout = 5 * time.Second

// StatusError is returned when the remote answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Client wraps resty for JSON calls to payment providers.
// Retries are disabled: one call, one outbound request.
type Client struct {
	r *resty.Client
}

// New creates a client with the default timeout and no retries.
func New() *Client {
	r := resty.New().
		SetTimeout(DefaultTimeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{r: r}
}

// WithTimeout sets a custom timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.r.SetTimeout(d)
	}
	return c
}

// WithHeader sets a custom header.
func (c *Client) WithHeader(key, value string) *Client {
	c.r.SetHeader(key, value)
	return c
}

// PostJSON sends body as JSON and decodes a 2xx response into out.
// Transport errors, non-2xx statuses and undecodable bodies are all errors.
func (c *Client) PostJSON(ctx context.Context, url string, body, out interface{}) error {
	resp, err := c.r.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
