package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Endpoint paths on the report service.
const (
	ScansPath         = "/api/v1/scans"
	PackageReportPath = "/package_report"
)

// defaultTimeout applies when no timeout option is given.
const defaultTimeout = 30 * time.Second

// ErrInvalidBaseURL is returned by NewClient for a base URL that is not an
// absolute http(s) URL.
var ErrInvalidBaseURL = errors.New("invalid report service base url")

// Client is an HTTP client for the report service.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	timeout      time.Duration
	proxyAddress string
	userAgent    string
	headers      http.Header
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Timeout and proxy
// options are ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSOCKS5Proxy routes requests through a SOCKS5 proxy at host:port.
func WithSOCKS5Proxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers.Set(k, v)
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the report service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL: u,
		timeout: defaultTimeout,
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.httpClient == nil {
		hc, err := newHTTPClient(c.timeout, c.proxyAddress)
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}

	return c, nil
}

// newHTTPClient builds an *http.Client, dialing through a SOCKS5 proxy when
// proxyAddress is set.
func newHTTPClient(timeout time.Duration, proxyAddress string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, errors.New("SOCKS5 dialer does not support contexts")
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer.DialContext
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// BaseURL returns the report service root URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// endpoint joins path and an optional encoded query onto the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// newRequest builds a request carrying the configured headers.
func (c *Client) newRequest(ctx context.Context, method, uri string, body *strings.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, uri, http.NoBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, uri, body)
	}
	if err != nil {
		return nil, err
	}

	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}
