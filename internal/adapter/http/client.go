// Package adapthttp implements the authenticated transport to the remote
// DevSocial service.
package adapthttp

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devsocial/internal/domain"
)

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 15 * time.Second

// Client is the single shared HTTP client for the remote service. Every
// request passes through the bearer hook, which re-reads the token from the
// credential store.
type Client struct {
	base    *url.URL
	http    *http.Client
	log     *slog.Logger
	timeout time.Duration
	rt      http.RoundTripper
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRoundTripper replaces the base transport below the bearer hook.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Client) { c.rt = rt }
}

// New creates a Client for baseURL (e.g. "https://devsocial.example/api").
func New(baseURL string, store domain.CredentialStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: baseURL, Err: errMissingHost}
	}

	c := &Client{
		base:    u,
		log:     slog.Default(),
		timeout: DefaultTimeout,
		rt:      http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &http.Client{
		Timeout:   c.timeout,
		Transport: withLogging(c.log, withRequestID(withBearer(store, c.rt))),
	}
	return c, nil
}

// Ensure the client implements every remote port.
var (
	_ domain.AuthAPI         = (*Client)(nil)
	_ domain.UserAPI         = (*Client)(nil)
	_ domain.PostAPI         = (*Client)(nil)
	_ domain.NotificationAPI = (*Client)(nil)
	_ domain.MediaAPI        = (*Client)(nil)
	_ domain.AIAPI           = (*Client)(nil)
)
