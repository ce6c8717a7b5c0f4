// Package api is the HTTP client layer for the admin gateway. All outbound
// traffic funnels through Client.do, which is where the transparent
// re-authentication coordinator lives.
package api

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

	"github.com/adarsh-naik-2004/bats-admin/internal/platform/correlation"
	"github.com/adarsh-naik-2004/bats-admin/internal/platform/version"
)

// Gateway service prefixes, mirroring the backend's routing.
const (
	authService    = "/api/auth"
	catalogService = "/api/catalog"
	orderService   = "/api/order"
)

const defaultTimeout = 15 * time.Second

// ReauthHooks connects the transport to the session manager without importing
// it. HasSession gates the silent refresh (no refresh storms on the login
// screen); OnRefreshFailed is invoked exactly once per failed refresh, even
// when concurrent requests share it.
type ReauthHooks struct {
	HasSession      func() bool
	OnRefreshFailed func(error)
}

// Client talks to the admin gateway. Construct with NewClient; the exported
// service fields cover every REST surface the dashboard consumes.
type Client struct {
	base  *url.URL
	http  *http.Client
	jar   *Jar
	hooks ReauthHooks
	gate  *refreshGate

	Auth       *AuthService
	Users      *UsersService
	Stores     *StoresService
	Categories *CategoriesService
	Products   *ProductsService
	Orders     *OrdersService
	Coupons    *CouponsService
}

type Option func(*Client)

// WithReauth installs the session hooks for the re-authentication coordinator.
// Without it, 401 responses surface unchanged.
func WithReauth(hooks ReauthHooks) Option {
	return func(c *Client) { c.hooks = hooks }
}

// WithCookieFile persists the cookie jar to the given path so credentials
// survive between CLI invocations.
func WithCookieFile(path string) Option {
	return func(c *Client) { c.jar.path = path }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func NewClient(gatewayURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(gatewayURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL: %w", err)
	}

	jar, err := newJar(base)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base: base,
		jar:  jar,
		http: &http.Client{Jar: jar.jar, Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.jar.path != "" {
		if err := c.jar.load(); err != nil {
			return nil, err
		}
	}

	c.gate = newRefreshGate(c.postRefresh, c.hooks.OnRefreshFailed)

	c.Auth = &AuthService{c: c}
	c.Users = &UsersService{c: c}
	c.Stores = &StoresService{c: c}
	c.Categories = &CategoriesService{c: c}
	c.Products = &ProductsService{c: c}
	c.Orders = &OrdersService{c: c}
	c.Coupons = &CouponsService{c: c}
	return c, nil
}

// CookieJar exposes the jar so the realtime dialer can present the same
// credentials as the HTTP client.
func (c *Client) CookieJar() http.CookieJar {
	return c.jar.jar
}

// SaveCookies flushes the cookie jar to disk, if a cookie file is configured.
func (c *Client) SaveCookies() error {
	return c.jar.save()
}

// ClearCookies drops all stored credentials, locally and on disk.
func (c *Client) ClearCookies() error {
	return c.jar.clear()
}

// request is the immutable descriptor of one logical API call. Each send
// attempt materializes a fresh http.Request from it, so the cookie jar applies
// the current credentials and a replay after refresh carries the new ones.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// attempt pairs a request with its send count. The count is the retry marker:
// attempt 2 is only ever built after a successful refresh, and nothing builds
// an attempt 3.
type attempt struct {
	req request
	n   int
}

// do sends the request, transparently refreshing the session and replaying
// once when the gateway reports 401 for an authenticated client.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	ctx = correlation.Ensure(ctx)

	resp, err := c.send(ctx, attempt{req: r, n: 1})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || !c.reauthEligible(r) {
		return resp, nil
	}

	drain(resp)
	if err := c.gate.refresh(ctx); err != nil {
		return nil, err
	}
	return c.send(ctx, attempt{req: r, n: 2})
}

// reauthEligible applies the trigger conditions: hooks installed, a session
// currently exists, and the request is not itself an auth-lifecycle call.
func (c *Client) reauthEligible(r request) bool {
	if c.hooks.HasSession == nil || !c.hooks.HasSession() {
		return false
	}
	switch r.path {
	case authService + "/auth/login", authService + "/auth/refresh", authService + "/auth/logout":
		return false
	}
	return true
}

func (c *Client) send(ctx context.Context, a attempt) (*http.Response, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + a.req.path
	if a.req.query != nil {
		u.RawQuery = a.req.query.Encode()
	}

	var body io.Reader
	if a.req.body != nil {
		body = bytes.NewReader(a.req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, a.req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if a.req.contentType != "" {
		httpReq.Header.Set("Content-Type", a.req.contentType)
	}
	correlation.Apply(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", a.req.method, a.req.path, err)
	}
	return resp, nil
}

// postRefresh exchanges the long-lived refresh credential for a fresh access
// credential. It bypasses do on purpose: refresh is never itself refreshed.
func (c *Client) postRefresh(ctx context.Context) error {
	a := attempt{req: request{method: http.MethodPost, path: authService + "/auth/refresh"}, n: 1}
	resp, err := c.send(ctx, a)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp)
	}
	drain(resp)
	return nil
}

// doJSON runs the request and decodes a JSON body into out (nil to discard).
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp)
	}
	if out == nil {
		drain(resp)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func jsonRequest(method, path string, payload any) (request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("failed to encode payload: %w", err)
	}
	return request{method: method, path: path, body: body, contentType: "application/json"}, nil
}

func newStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		msg = envelope.Message
		if msg == "" && len(envelope.Errors) > 0 {
			msg = envelope.Errors[0].Message
		}
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
