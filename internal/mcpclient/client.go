// Package mcpclient talks to a tool server over HTTP: discovery and
// invocation, each bounded by the client timeout.
package mcpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffmcp/staffmcp/internal/mcp"
)

const maxErrorBody = 4 << 10

// Client reaches one tool server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the tool server at baseURL. Every request,
// discovery included, gives up after timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the tool server address without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// ListTools fetches the current descriptor list from the discovery endpoint.
// Descriptors are returned as served; callers that build schemas from them
// get the malformed ones reported by the schema adapter.
func (c *Client) ListTools(ctx context.Context) ([]mcp.ToolDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mcp.DiscoveryPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build discovery request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError("", "discovery", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("", resp)
	}

	var descriptors []mcp.ToolDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptors); err != nil {
		return nil, &mcp.Error{
			Kind:    mcp.KindToolExecutionFailed,
			Message: "decode discovery response",
			Status:  resp.StatusCode,
			Err:     err,
		}
	}

	return descriptors, nil
}

// Invoke posts args as the JSON body to endpoint and returns the raw result.
func (c *Client) Invoke(ctx context.Context, d mcp.ToolDescriptor, args map[string]any) (json.RawMessage, error) {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, mcp.InvalidArgument(d.Name, "encode arguments: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", d.Name)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(d.Name, "invoke", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("tool", d.Name).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("tool invoked")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(d.Name, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(d.Name, "read result", err)
	}
	if !json.Valid(raw) {
		return nil, &mcp.Error{
			Kind:    mcp.KindToolExecutionFailed,
			Tool:    d.Name,
			Message: "tool returned a non-JSON result",
			Status:  resp.StatusCode,
		}
	}
	return json.RawMessage(raw), nil
}

func transportError(tool, op string, err error) *mcp.Error {
	return &mcp.Error{
		Kind:      mcp.KindToolExecutionFailed,
		Tool:      tool,
		Message:   op + " failed",
		Retryable: isTimeout(err),
		Err:       err,
	}
}

// statusError turns a non-2xx reply into a typed error, taking the message
// from the {"error": ...} body when there is one.
func statusError(tool string, resp *http.Response) *mcp.Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &mcp.Error{
		Kind:      mcp.KindToolExecutionFailed,
		Tool:      tool,
		Message:   msg,
		Status:    resp.StatusCode,
		Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
