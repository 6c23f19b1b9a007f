// Package apiclient is the single chokepoint for outbound calls to the IJS
// VAULT admin API. It attaches bearer auth, normalizes both response envelope
// shapes, clears the session on 401 and applies a bounded GET-only retry.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/ijsvault/vaultadmin/internal/config"
	"github.com/ijsvault/vaultadmin/internal/session"
)

type Client struct {
	baseURL       string
	httpClient    *http.Client
	session       *session.Context
	clock         clock.Clock
	retryAttempts int
	retryDelay    time.Duration
	restart       func() error
}

func New(cfg *config.Config, sess *session.Context) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		session:       sess,
		clock:         clock.WallClock,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
	}
}

// SetClock replaces the retry clock. Tests use this to avoid real backoff.
func (c *Client) SetClock(clk clock.Clock) {
	if clk != nil {
		c.clock = clk
	}
}

// SetRestarter registers a hook run between retry attempts, used in local
// development to kick an unreliable mock transport back to life. Production
// deployments leave it unset.
func (c *Client) SetRestarter(fn func() error) {
	c.restart = fn
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// GetRaw fetches a possibly non-JSON response (file exports). JSON bodies are
// still envelope-normalized; anything else is returned verbatim with its
// content type.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	req, err := c.buildRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &APIError{Message: genericNetworkError}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &APIError{Message: genericNetworkError}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.ClearSession()
	}
	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, contentType, failureFromBody(body, resp.StatusCode)
	}
	if strings.Contains(contentType, "application/json") {
		payload, err := decodeEnvelope(body, resp.StatusCode)
		if err != nil {
			return nil, contentType, err
		}
		return payload, contentType, nil
	}
	return body, contentType, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	call := func() error {
		return c.roundTrip(ctx, method, path, query, body, out)
	}
	// Mutating requests are never retried: a timed-out suspend may well have
	// been applied server-side.
	if method != http.MethodGet || c.retryAttempts <= 1 {
		return call()
	}

	err := retry.Call(retry.CallArgs{
		Func: call,
		IsFatalError: func(err error) bool {
			return !retryable(err)
		},
		NotifyFunc: func(lastErr error, attempt int) {
			log.Printf("apiclient: %s %s attempt %d failed: %v", method, path, attempt, lastErr)
			if c.restart != nil {
				if rerr := c.restart(); rerr != nil {
					log.Printf("apiclient: restart hook failed: %v", rerr)
				}
			}
		},
		Attempts:    c.retryAttempts,
		Delay:       c.retryDelay,
		BackoffFunc: linearBackoff,
		Clock:       c.clock,
		Stop:        ctx.Done(),
	})
	if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
		err = retry.LastError(err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.buildRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: genericNetworkError}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: genericNetworkError}
	}

	// The session is cleared on 401 before any envelope handling so that no
	// code path can observe a surviving token after an auth failure.
	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.ClearSession()
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return failureFromBody(raw, resp.StatusCode)
	}

	payload, err := decodeEnvelope(raw, resp.StatusCode)
	if err != nil {
		return err
	}
	if out == nil || rawIsNull(payload) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response payload: %w", err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if token := c.session.Token(); !token.Empty() {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}
	return req, nil
}

// retryable reports whether an error is worth another attempt: transport
// failures, 5xx responses and undecodable bodies. Validation and auth errors
// are final.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 0 || apiErr.Status >= http.StatusInternalServerError
	}
	return errors.Is(err, ErrMalformedResponse)
}

func linearBackoff(delay time.Duration, attempt int) time.Duration {
	return time.Duration(attempt) * delay
}
