// Package httpx provides the shared HTTP request helper for the CEDAR and
// BioPortal clients: JSON GETs with bounded, 429-aware retry.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryOptions bounds the retry loop for rate-limited upstreams. Only 429
// responses are retried; every other status returns immediately.
type RetryOptions struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int

	// InitialDelay seeds the exponential backoff (delay doubles per retry).
	InitialDelay time.Duration

	// MaxDelay caps the backoff, including upstream Retry-After hints.
	MaxDelay time.Duration
}

// DefaultRetryOptions mirrors the limits the upstream services tolerate well.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
	}
}

func (o RetryOptions) normalized() RetryOptions {
	defaults := DefaultRetryOptions()
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = defaults.InitialDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = defaults.MaxDelay
	}
	return o
}

// Do issues the request, retrying 429 responses with capped exponential
// backoff. An upstream Retry-After hint takes precedence over the computed
// delay but is still capped at MaxDelay. The final 429 is returned to the
// caller once attempts run out. Requests must be body-less (all upstream
// calls here are GETs) so they can be cloned per attempt.
func Do(ctx context.Context, client *http.Client, req *http.Request, opts RetryOptions) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	opts = opts.normalized()

	delay := opts.InitialDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt == opts.MaxRetries {
			return resp, nil
		}

		sleep := delay
		if hint := retryAfter(resp.Header); hint > 0 {
			sleep = hint
		}
		if sleep > opts.MaxDelay {
			sleep = opts.MaxDelay
		}
		drain(resp)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("httpx: retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		delay *= 2
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}
}

// GetJSON performs a retried GET and decodes the 2xx payload into a generic
// JSON object. Non-2xx statuses become errors carrying the status line.
func GetJSON(ctx context.Context, client *http.Client, req *http.Request, opts RetryOptions) (map[string]any, error) {
	value, err := GetJSONValue(ctx, client, req, opts)
	if err != nil {
		return nil, err
	}
	payload, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("httpx: decode response: expected object, got %T", value)
	}
	return payload, nil
}

// GetJSONValue is like GetJSON but accepts any top-level JSON value. Some
// upstream endpoints respond with bare arrays.
func GetJSONValue(ctx context.Context, client *http.Client, req *http.Request, opts RetryOptions) (any, error) {
	resp, err := Do(ctx, client, req, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var value any
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		return nil, fmt.Errorf("httpx: decode response: %w", err)
	}
	return value, nil
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "httpx: unexpected status " + e.Status
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// retryAfter reads the Retry-After header as whole seconds. Unparseable or
// absent values read as zero.
func retryAfter(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
