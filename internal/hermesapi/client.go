package hermesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hermes/internal/config"
)

const (
	// GoogleTokenHeader carries the Google access token when Hermes runs
	// with the Google auth provider.
	GoogleTokenHeader = "Hermes-Google-Access-Token"

	ProviderGoogle = "google"
	ProviderDex    = "dex"
	ProviderOkta   = "okta"
)

// Client talks to the Hermes REST API. A Client is bound to at most one
// user's access token; use WithToken to derive a client for another user.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL  *url.URL
	version  string
	provider string
	token    string
	http     *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAccessToken binds the client to a token at construction time.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the backend described by cfg.
func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("hermes base url is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse hermes base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("hermes base url must be absolute: %q", cfg.BaseURL)
	}

	version := cfg.APIVersion
	if version == "" {
		version = "v2"
	}

	c := &Client{
		baseURL:  u,
		version:  version,
		provider: cfg.AuthProvider,
		http: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of c that authenticates as the owner of token.
// The copy shares the underlying HTTP client.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// authHeaders sets the provider-specific authentication header.
func (c *Client) authHeaders(h http.Header) {
	if c.token == "" {
		return
	}
	switch c.provider {
	case ProviderGoogle:
		h.Set(GoogleTokenHeader, c.token)
	case ProviderDex, ProviderOkta:
		h.Set("Authorization", "Bearer "+c.token)
	}
}

// apiURL builds {base}/api/{version}/{segments...}. Escaping happens when
// the URL is rendered.
func (c *Client) apiURL(query url.Values, segments ...string) string {
	u := *c.baseURL
	parts := append([]string{u.Path, "api", c.version}, segments...)
	u.Path = strings.Join(parts, "/")
	u.RawPath = ""
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authHeaders(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &ResponseError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/health"
	return c.doJSON(ctx, http.MethodGet, u.String(), nil, nil)
}
