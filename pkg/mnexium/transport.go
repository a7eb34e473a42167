package mnexium

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"
)

// maxBodyBytes caps how much of a response body is read into memory.
const maxBodyBytes = 10 << 20

// Backoff tuning for retried requests.
const (
	backoffBase = 500 * time.Millisecond
	backoffCap  = 8 * time.Second
)

// request performs a JSON API call with retries and decodes the response
// into out. A nil out discards the body; HTTP 204 and empty bodies leave
// out untouched. Network errors, 5xx, and 429 responses are retried up to
// MaxRetries times, everything else fails immediately.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, header http.Header, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewError("request", fmt.Errorf("encode body: %w", err))
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return NewError("request", err)
			}
			c.logger.Debug("retrying request",
				"method", method, "path", path, "attempt", attempt)
		}

		err := c.requestOnce(ctx, method, path, query, payload, header, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// requestOnce performs a single HTTP round trip.
func (c *Client) requestOnce(ctx context.Context, method, path string, query url.Values, payload []byte, header http.Header, out any) error {
	req, err := c.newRequest(ctx, method, path, query, payload, header)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewError("request", err)
	}
	defer resp.Body.Close()

	c.captureTrialKey(resp.Header)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return NewError("request", fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewError("request", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// requestStream opens a streaming request and hands back the live response.
// Streaming requests are not retried: a replayed chat turn would be
// processed twice by the memory layer. The caller owns resp.Body.
func (c *Client) requestStream(ctx context.Context, method, path string, query url.Values, body any, header http.Header) (*http.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, NewError("request", fmt.Errorf("encode body: %w", err))
		}
		payload = data
	}

	req, err := c.newRequest(ctx, method, path, query, payload, header)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, NewError("request", err)
	}

	c.captureTrialKey(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		return nil, newAPIError(resp.StatusCode, data)
	}
	return resp, nil
}

// newRequest builds an HTTP request with authentication and JSON headers.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte, header http.Header) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, NewError("request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if key := c.effectiveAPIKey(); key != "" {
		req.Header.Set("x-mnexium-key", key)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

// isRetryable reports whether the error is worth another attempt: network
// failures, HTTP 5xx, and rate limits. Everything else, including context
// cancellation and decode failures, is terminal.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// sleepBackoff waits before retry attempt n (1-based), honoring ctx. The
// delay doubles per attempt up to a cap, with equal jitter so retry herds
// spread out.
func sleepBackoff(ctx context.Context, attempt int) error {
	backoff := backoffBase << uint(attempt-1)
	if backoff <= 0 || backoff > backoffCap {
		backoff = backoffCap
	}
	half := backoff / 2
	delay := half + time.Duration(rand.Int63n(int64(half)+1))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
