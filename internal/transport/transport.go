// Package transport provides HTTP transport middleware for the model client.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// maxRetryAfterWait caps how long a single Retry-After header can stall the
// review; CI jobs have their own timeouts and a stuck action helps nobody.
const maxRetryAfterWait = 2 * time.Minute

// RetryAfterTransport retries requests rejected with 429, waiting out the
// server-provided Retry-After interval. The SDK's own retry layer handles
// transient 5xx responses; this layer exists because rate-limit waits can
// exceed the SDK's backoff budget.
type RetryAfterTransport struct {
	base http.RoundTripper
}

func WithRetryAfter(base http.RoundTripper) *RetryAfterTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RetryAfterTransport{base: base}
}

func (t *RetryAfterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Buffer the body so it can be replayed on retry
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if err := req.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		wait := parseRetryAfter(resp.Header.Get("retry-after"))
		if wait <= 0 {
			return resp, nil
		}
		if wait > maxRetryAfterWait {
			wait = maxRetryAfterWait
		}

		if err := resp.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close response body: %w", err)
		}

		log.Printf("[transport] Rate limited, waiting %s before retrying", wait)
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
	}
}

// parseRetryAfter handles both forms of the header: delay seconds and an
// HTTP-date. Returns 0 when the header is absent or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if retryTime, err := time.Parse(time.RFC1123, header); err == nil {
		return time.Until(retryTime)
	}
	return 0
}
