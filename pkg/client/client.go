// Package client is the Go SDK for the Inkwell API. It unwraps the
// {code, message, data, timestamp} envelope, injects bearer tokens and
// classifies failures into a small error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token per request. Implementations may
// refresh behind the scenes.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a fixed access token.
type StaticToken string

func (t StaticToken) AccessToken() string { return string(t) }

// envelope is the uniform API response shape.
type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Client talks to one Inkwell server.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout changes the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource sets the session token supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New builds a client for the given base URL (scheme://host[:port]).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource swaps the token supplier after login.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// do runs one request and decodes the envelope's data into out (out may be
// nil when the caller only needs success/failure).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	return c.doWith(ctx, method, path, query, body, out, c.tokens)
}

// doBare is do without bearer injection. The session refresh flow uses it
// so refreshing never re-enters the token source.
func (c *Client) doBare(ctx context.Context, method, path string, body, out interface{}) error {
	return c.doWith(ctx, method, path, nil, body, out, nil)
}

func (c *Client) doWith(ctx context.Context, method, path string, query url.Values, body, out interface{}, ts TokenSource) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.roundTrip(ctx, method, path, query, reader, contentType, out, ts)
}

// doMultipart uploads one file under the "file" form field.
func (c *Client) doMultipart(ctx context.Context, path, filename string, content io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return fmt.Errorf("read upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}
	return c.roundTrip(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), out, c.tokens)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}, ts TokenSource) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ts != nil {
		if token := ts.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{URL: u, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// No envelope at all: a proxy error page or similar.
		return newAPIError(resp.StatusCode, -1, strings.TrimSpace(string(raw)))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Code != 0 {
		return newAPIError(resp.StatusCode, env.Code, env.Message)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
