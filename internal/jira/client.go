package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gi8lino/deskkit/internal/request"
	"github.com/gi8lino/deskkit/internal/utils"
)

// Executor performs a fully built request and returns the decoded JSON.
type Executor interface {
	Execute(ctx context.Context, d request.Descriptor) (any, error)
}

// TransportError is any failure of the HTTP exchange: connection errors
// (StatusCode 0), non-2xx responses and response bodies that are not JSON.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v: %s", e.Method, e.URL, e.Status, e.Err, trim(e.Body, 2048))
	default:
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, e.Status, trim(e.Body, 2048))
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client handles communication with the Jira REST API.
type Client struct {
	Client *http.Client // Underlying HTTP client
	auth   AuthFunc
	logger *slog.Logger
}

// NewClient returns a Jira client authenticating every request with auth.
func NewClient(auth AuthFunc, skipVerify bool, timeout time.Duration) *Client {
	return &Client{
		Client: newHTTPClient(skipVerify, timeout),
		auth:   auth,
	}
}

// WithLogger makes c log every request and response at debug level.
// Credentials in the logged headers are obfuscated.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// Execute sends d with credentials attached and decodes the JSON response.
// A 2xx response with an empty body yields nil.
func (c *Client) Execute(ctx context.Context, d request.Descriptor) (any, error) {
	var bodyReader io.Reader
	if len(d.Body) > 0 {
		jsonData, err := json.Marshal(d.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if d.Headers != nil {
		req.Header = d.Headers.Clone()
	}
	if c.auth != nil {
		c.auth(req) // apply authentication
	}
	if c.logger != nil {
		c.logger.Debug("jira request", "method", req.Method, "url", req.URL.String(), "headers", utils.RedactHeaders(req.Header))
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Method: d.Method, URL: d.URL, Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Method:     d.Method,
			URL:        d.URL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        fmt.Errorf("read response: %w", err),
		}
	}
	if c.logger != nil {
		c.logger.Debug("jira response", "method", d.Method, "url", d.URL, "status", resp.StatusCode, "bytes", len(raw))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Method:     d.Method,
			URL:        d.URL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       raw,
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	out, err := decodeJSONUseNumber(raw)
	if err != nil {
		// keep the status and body, the decode failure is secondary
		return nil, &TransportError{
			Method:     d.Method,
			URL:        d.URL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       raw,
			Err:        fmt.Errorf("invalid JSON: %w", err),
		}
	}
	return out, nil
}

// decodeJSONUseNumber decodes JSON using UseNumber to preserve integer precision.
func decodeJSONUseNumber(raw []byte) (any, error) {
	var out any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return out, nil
}

// trim returns at most n bytes from b as a string.
func trim(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
