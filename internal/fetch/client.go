// Package fetch is the shared HTTP layer for all adapters: one client with
// a timeout, the policy gate, and bounded retry with exponential backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"aijobs-engine/internal/policy"
)

// ErrDisallowed marks a URL the policy guard refused; callers skip the unit
// instead of retrying.
var ErrDisallowed = errors.New("fetch: disallowed by policy")

// maxElapsed caps the total wall-clock time spent retrying one URL.
const maxElapsed = 5 * time.Minute

type Client struct {
	hc         *http.Client
	guard      *policy.Guard
	userAgent  string
	maxRetries int
	accept     string
}

func New(guard *policy.Guard, userAgent string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		hc:         &http.Client{Timeout: timeout},
		guard:      guard,
		userAgent:  userAgent,
		maxRetries: maxRetries,
	}
}

// WithAccept sets an Accept header for subsequent requests.
func (c *Client) WithAccept(accept string) *Client {
	c.accept = accept
	return c
}

// Get fetches a URL: guard permission, rate-limited wait, then the request,
// retried with exponential backoff on transport errors and retryable
// statuses up to maxRetries attempts.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.guard != nil && !c.guard.CanFetch(url) {
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, url)
	}

	var body []byte
	op := func() error {
		if c.guard != nil {
			if err := c.guard.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		if c.accept != "" {
			req.Header.Set("Accept", c.accept)
		}

		res, err := c.hc.Do(req)
		if err != nil {
			return fmt.Errorf("get %s: %w", url, err)
		}
		defer res.Body.Close()

		if res.StatusCode >= 400 {
			err := fmt.Errorf("get %s: status %d", url, res.StatusCode)
			if retryable(res.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		body, err = io.ReadAll(res.Body)
		if err != nil {
			return fmt.Errorf("read %s: %w", url, err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed
	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.maxRetries-1)), ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
