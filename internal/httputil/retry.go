// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// RetryTransport is an http.RoundTripper that retries requests on HTTP 429
// (Too Many Requests) with exponential backoff: RetryBaseDelay doubling each
// attempt. It is wired into the generation backend's HTTP client so quota
// blips do not surface as generation failures.
type RetryTransport struct {
	// Base is the underlying transport. Nil uses http.DefaultTransport.
	Base http.RoundTripper

	// MaxRetries is the retry budget. Zero or negative uses the default (3).
	MaxRetries int
}

// RoundTrip implements http.RoundTripper. Requests with a body must carry a
// GetBody func (true for all client-constructed requests); otherwise the
// first 429 response is returned as-is. On each retry the previous response
// body is drained and closed. A cancelled request context ends the backoff
// wait early with the context error.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	maxRetries := t.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		r := req
		if attempt > 0 {
			var err error
			r, err = rewind(req)
			if err != nil {
				return nil, err
			}
		}

		resp, err := base.RoundTrip(r)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries, or the body cannot be replayed.
		if attempt >= maxRetries || (req.Body != nil && req.GetBody == nil) {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
	}
}

// rewind clones the request with a fresh body for replay.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	return r, nil
}

// NewRetryClient returns an HTTP client with retrying transport and the given
// overall timeout.
func NewRetryClient(timeout time.Duration, maxRetries int) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &RetryTransport{MaxRetries: maxRetries},
	}
}
