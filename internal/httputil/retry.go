// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// transient responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 5

// Transient reports whether an HTTP status is worth retrying: rate
// limiting, server-side errors, and save conflicts. Anything else is a
// definitive answer and must surface to the caller unchanged.
func Transient(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusConflict:
		return true
	}
	return status >= 500
}

// DoWithRetry executes an HTTP request and retries transient responses
// (see Transient) with exponential backoff: RetryBaseDelay doubled each
// attempt. A Retry-After header, when present and longer than the
// computed backoff, wins.
//
// When maxRetries is 0 the default (5) is used. Before each retry the
// response body is drained and closed. If the context is cancelled during
// a backoff wait the function returns ctx.Err(). After exhausting retries
// the last transient response is returned so the caller can turn it into
// its own error type.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		// Clone shares the (possibly consumed) body reader; requests
		// built with a bytes.Reader carry GetBody, so rewind through it.
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !Transient(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries — hand back the transient response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if ra := retryAfter(resp); ra > backoff {
			backoff = ra
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryAfter reads the Retry-After header in its delay-seconds form.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
