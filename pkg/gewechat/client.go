package gewechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/srediag/plugin-reconnect/api"
)

const (
	tokenHeader    = "X-GEWE-TOKEN"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1 << 10

	routeCheckOnline  = "/login/checkOnline"
	routeReconnection = "/login/reconnection"
)

// Response is the envelope every gewechat endpoint answers with.
type Response struct {
	Ret  int             `json:"ret"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// Client talks to one gewechat server with one token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	login *LoginAPI
}

var _ api.SessionClient = (*Client)(nil)

// NewClient returns a client for baseURL authenticated with token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.login = &LoginAPI{client: c}
	return c
}

// Login returns the login endpoint group.
func (c *Client) Login() *LoginAPI {
	return c.login
}

// CheckOnline reports whether the device is online.
func (c *Client) CheckOnline(ctx context.Context, appID string) (bool, error) {
	return c.login.CheckOnline(ctx, appID)
}

// Reconnect asks the server to reconnect the device session.
func (c *Client) Reconnect(ctx context.Context, appID string) (api.ReconnectResponse, error) {
	resp, err := c.login.Reconnection(ctx, appID)
	if err != nil {
		return api.ReconnectResponse{}, err
	}
	return api.ReconnectResponse{Ret: resp.Ret, Msg: resp.Msg}, nil
}

// postJSON sends param to route and decodes the envelope. A ret other than
// RetOK is reported as *APIError.
func (c *Client) postJSON(ctx context.Context, route string, param interface{}) (*Response, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := json.NewEncoder(buf).Encode(param); err != nil {
		return nil, fmt.Errorf("gewechat %s: encode request: %w", route, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(buf.B))
	if err != nil {
		return nil, fmt.Errorf("gewechat %s: build request: %w", route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.token)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gewechat %s: %w", route, err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return nil, &APIError{Route: route, StatusCode: httpResp.StatusCode, Msg: strings.TrimSpace(string(body))}
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("gewechat %s: decode response: %w", route, err)
	}
	if resp.Ret != RetOK {
		return nil, &APIError{Route: route, StatusCode: httpResp.StatusCode, Ret: resp.Ret, Msg: resp.Msg}
	}
	return &resp, nil
}
