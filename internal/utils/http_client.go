package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "pawres"

// HTTPClient wraps resty.Client for outbound calls to identity providers.
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption configures an HTTPClient at construction.
type HTTPClientOption func(*resty.Client)

// WithTimeout bounds every request made by the client. Non-positive values
// leave the client without a timeout.
func WithTimeout(timeout time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// WithRetries retries transport failures count times, waiting wait between
// attempts.
func WithRetries(count int, wait time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetHeader("User-Agent", agent)
	}
}

// NewHTTPClient returns an independent client with its own connection pool.
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	client := resty.New().SetHeader("User-Agent", defaultUserAgent)
	for _, opt := range opts {
		opt(client)
	}
	return &HTTPClient{Client: client}
}
