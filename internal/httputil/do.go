// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across providers.
package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrRateLimited marks an HTTP 429 response. Callers surface it as a
// distinct warning so rate limiting is not confused with "no results".
var ErrRateLimited = errors.New("rate limited")

// StatusError reports a non-2xx response other than 429.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// Do executes a single HTTP request and classifies the outcome. There are
// no retries: each provider fetch is one shot. On a non-2xx status the
// response body is drained, closed, and an error is returned; 429 maps to
// ErrRateLimited, everything else to a StatusError. The caller owns the
// body only when the returned error is nil.
func Do(client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("HTTP %d: %w", resp.StatusCode, ErrRateLimited)
	}
	return nil, &StatusError{StatusCode: resp.StatusCode}
}
