// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil fetches Article documents from http(s) URLs.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RetryBaseDelay is the first backoff on a throttled response. It doubles
// on each attempt. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// MaxRetryDelay caps a single wait, including one requested by Retry-After.
var MaxRetryDelay = 30 * time.Second

const defaultMaxRetries = 4

const acceptHeader = "application/json, application/x-ndjson;q=0.9, application/yaml;q=0.9, */*;q=0.1"

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// PathOf returns the path component of rawURL, used to infer the document
// format from its extension.
func PathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// Open GETs rawURL and returns the response body. A non-empty token is sent
// as a bearer credential. Throttled responses are retried through
// DoWithRetry; any other non-2xx status is an error.
func Open(ctx context.Context, client *http.Client, rawURL, token string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", acceptHeader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %s", rawURL, resp.Status)
	}
	return resp.Body, nil
}

// DoWithRetry executes req and retries on 429 (Too Many Requests) and 503
// (Service Unavailable). The wait is the server's Retry-After in seconds
// when present, otherwise RetryBaseDelay doubled per attempt, and never
// more than MaxRetryDelay.
//
// When maxRetries is 0 the default (4) is used. If the context is
// cancelled during a wait the function returns ctx.Err(). After exhausting
// retries the last throttled response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !throttled(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(attempt, resp.Header.Get("Retry-After"))):
		}
	}
}

func throttled(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func backoff(attempt int, retryAfter string) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
	if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
		d = time.Duration(secs) * time.Second
	}
	if d > MaxRetryDelay {
		d = MaxRetryDelay
	}
	return d
}
