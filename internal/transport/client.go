// Package transport provides the HTTP client the probe runs on. Every request
// that leaves the process passes through it so the one-request invariant can
// be observed and logged.
package transport

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/agentstation/keyprobe/pkg/logging"
)

// Client provides HTTP client functionality with request accounting.
type Client struct {
	http    *http.Client
	counter *countingTransport
}

// Option configures a Client.
type Option func(*Client)

// WithRoundTripper replaces the underlying transport, e.g. with a stub in tests.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.counter.next = rt
		}
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	counter := &countingTransport{next: http.DefaultTransport}
	c := &Client{
		http:    &http.Client{Transport: counter},
		counter: counter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient returns the *http.Client to hand to SDK clients.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Requests returns how many requests have been sent so far.
func (c *Client) Requests() int {
	return int(c.counter.count.Load())
}

type countingTransport struct {
	next  http.RoundTripper
	count atomic.Int64
}

// RoundTrip implements http.RoundTripper.
func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := t.count.Add(1)
	logger := logging.FromContext(req.Context())
	logger.Debug().
		Int64("attempt", n).
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Msg("Sending request")

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		logger.Debug().Err(err).Dur("elapsed", elapsed).Msg("Request failed")
		return nil, err
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("Response received")
	return resp, nil
}
