package eutils

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/genemap/genemap/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint root, e.g. for a local stub server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithAPIKey sets the API key passed as a request parameter.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpc.Timeout = timeout
		}
	}
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(policy Policy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithRatePerSecond sets the outbound request ceiling. The remote service
// allows 10/s with an API key, 3/s without.
func WithRatePerSecond(n float64) Option {
	return func(c *Client) {
		if n > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(n), 1)
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
