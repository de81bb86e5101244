package core

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// retryingTransport wraps http.RoundTripper with exponential-backoff
// retries, configured once at Fetcher construction so the core never
// re-implements a second retry loop above the transport (SPEC_FULL.md §9:
// "delegate retries/backoff to the RPC client").
type retryingTransport struct {
	inner            http.RoundTripper
	maxRetries       int
	initialBackoff   time.Duration
}

func newRetryingHTTPClient(maxRetries, initialBackoffMS int) *http.Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if initialBackoffMS <= 0 {
		initialBackoffMS = 100
	}
	return &http.Client{
		Transport: &retryingTransport{
			inner:          http.DefaultTransport,
			maxRetries:     maxRetries,
			initialBackoff: time.Duration(initialBackoffMS) * time.Millisecond,
		},
	}
}

// RoundTrip retries on transport-level errors and 5xx responses with
// exponential doubling from initialBackoff, up to maxRetries retries after
// the first attempt (maxRetries+1 attempts in all).
func (t *retryingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	backoff := t.initialBackoff
	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
		resp, err := t.inner.RoundTrip(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = &httpStatusError{resp.StatusCode}
			resp.Body.Close()
		}
		if attempt == t.maxRetries {
			break
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.status)
}
