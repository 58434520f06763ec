package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"w9ayt_delivery_server/pkg/errorx"
)

// Client is the REST entry point. Construct with New, authenticate with
// Login, then use the typed wrappers.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: &Session{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the credential holder, shared with ChannelManager.
func (c *Client) Session() *Session {
	return c.session
}

// envelope mirrors the server's {code, msg, data} response shape.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// doJSON performs a request with an optional JSON body and decodes the
// envelope into out. Non-success envelopes surface as CodeError.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// send attaches credentials, executes and decodes.
func (c *Client) send(req *http.Request, out any) error {
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rsp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unexpected response (%d): %w", rsp.StatusCode, err)
	}
	if env.Code != errorx.CodeSuccess {
		return errorx.New(env.Code, env.Msg)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// queryPath appends non-empty query values to a path.
func queryPath(path string, values url.Values) string {
	q := values.Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}
