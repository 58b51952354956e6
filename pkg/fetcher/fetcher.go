// Package fetcher retrieves feed payloads over HTTP with conditional requests
// and bounded retries.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// Status is the outcome of a fetch attempt
type Status int

// fetch outcomes
const (
	Fresh       Status = iota // 200, new payload in Body
	NotModified               // 304, upstream unchanged
	Failed                    // retries exhausted or terminal error
)

// String names a status for logs
func (s Status) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case NotModified:
		return "not-modified"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of a single Fetch call. Validators are taken from the
// response headers and replace whatever the caller sent.
type Result struct {
	Status     Status
	Body       []byte
	Validators domain.Validators
}

// errTerminal marks HTTP errors that retrying cannot fix
var errTerminal = errors.New("terminal fetch error")

const maxBodySize = 10 << 20 // feeds larger than this are broken

// Client fetches feeds with conditional GET and exponential backoff on
// transient failures. It holds no per-feed state; one client serves all
// workers concurrently.
type Client struct {
	client     *http.Client
	userAgent  string
	attempts   int
	retryDelay time.Duration
}

// New creates a fetch client. maxAttempts bounds retries per Fetch call,
// retryDelay is the initial backoff step.
func New(timeout time.Duration, userAgent string, maxAttempts int, retryDelay time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:  userAgent,
		attempts:   maxAttempts,
		retryDelay: retryDelay,
	}
}

// Fetch performs a conditional GET of url. Validators from the previous fetch
// are sent as If-None-Match / If-Modified-Since when present. Transient
// failures (transport errors, 5xx, 429) are retried with exponential backoff
// and jitter; other 4xx are terminal. On exhaustion the result is Failed and
// the last error is returned.
func (c *Client) Fetch(ctx context.Context, url string, validators domain.Validators) (Result, error) {
	var res Result

	retrier := repeater.NewBackoff(c.attempts, c.retryDelay,
		repeater.WithMaxDelay(30*time.Second), repeater.WithJitter(0.1))

	err := retrier.Do(ctx, func() error {
		attempt, err := c.fetchOnce(ctx, url, validators)
		if err != nil {
			return err
		}
		res = attempt
		return nil
	}, errTerminal)

	if err != nil {
		return Result{Status: Failed}, fmt.Errorf("fetch %s: %w", url, err)
	}
	return res, nil
}

// fetchOnce performs a single conditional GET without retries
func (c *Client) fetchOnce(ctx context.Context, url string, validators domain.Validators) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", errTerminal)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if validators.ETag != "" {
		req.Header.Set("If-None-Match", validators.ETag)
	}
	if validators.LastModified != "" {
		req.Header.Set("If-Modified-Since", validators.LastModified)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("do request: %w", err) // transport error, retryable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return Result{Status: NotModified, Validators: validators}, nil

	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return Result{}, fmt.Errorf("read body: %w", err)
		}
		return Result{
			Status: Fresh,
			Body:   body,
			Validators: domain.Validators{
				ETag:         resp.Header.Get("ETag"),
				LastModified: resp.Header.Get("Last-Modified"),
			},
		}, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		lgr.Printf("[DEBUG] retryable status %d from %s", resp.StatusCode, url)
		return Result{}, fmt.Errorf("status %d", resp.StatusCode)

	default: // remaining 4xx and odd 3xx won't get better on retry
		return Result{}, fmt.Errorf("status %d: %w", resp.StatusCode, errTerminal)
	}
}
