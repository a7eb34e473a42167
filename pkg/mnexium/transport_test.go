package mnexium_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnexium/mnexium-go/pkg/mnexium"
)

const memoryFixture = `{"id": "mem_1", "subject_id": "user_1", "text": "Prefers dark roast"}`

// Test HTTP error statuses map onto the right error types
func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"message": "subject_id is malformed"}`,
			check: func(t *testing.T, err error) {
				var apiErr *mnexium.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
				assert.Equal(t, "subject_id is malformed", apiErr.Message)
				assert.False(t, mnexium.IsNotFound(err))
				assert.False(t, mnexium.IsAuthentication(err))
				assert.False(t, mnexium.IsRateLimit(err))
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error": "invalid api key"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, mnexium.IsAuthentication(err))
				var apiErr *mnexium.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "invalid api key", apiErr.Message)
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"error": "key lacks access"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, mnexium.IsAuthentication(err))
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"message": "memory not found"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, mnexium.IsNotFound(err))
				var notFound *mnexium.NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error": "monthly limit reached", "current": 1000, "limit": 1000}`,
			check: func(t *testing.T, err error) {
				assert.True(t, mnexium.IsRateLimit(err))
				var rateLimited *mnexium.RateLimitError
				require.ErrorAs(t, err, &rateLimited)
				assert.Equal(t, 1000, rateLimited.Current)
				assert.Equal(t, 1000, rateLimited.Limit)
			},
		},
		{
			name:   "unparseable body",
			status: http.StatusBadRequest,
			body:   `<html>nope</html>`,
			check: func(t *testing.T, err error) {
				var apiErr *mnexium.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "Unknown error", apiErr.Message)
				assert.Contains(t, string(apiErr.Body), "nope")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respondWith(tt.status, tt.body))
			_, err := client.Memories.Get(context.Background(), "mem_1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

// Test a 500 is retried and the retry can succeed
func TestRetryOnServerError(t *testing.T) {
	rec := &requestRecorder{respond: func(n int) (int, string) {
		if n == 0 {
			return http.StatusInternalServerError, `{"error": "transient"}`
		}
		return http.StatusOK, memoryFixture
	}}
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.MaxRetries = 2
	})

	memory, err := client.Memories.Get(context.Background(), "mem_1")
	require.NoError(t, err)
	assert.Equal(t, "mem_1", memory.ID)
	assert.Equal(t, 2, rec.Count())
}

// Test a 429 is retried and the retry can succeed
func TestRetryOnRateLimit(t *testing.T) {
	rec := &requestRecorder{respond: func(n int) (int, string) {
		if n == 0 {
			return http.StatusTooManyRequests, `{"error": "slow down"}`
		}
		return http.StatusOK, memoryFixture
	}}
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.MaxRetries = 2
	})

	memory, err := client.Memories.Get(context.Background(), "mem_1")
	require.NoError(t, err)
	assert.Equal(t, "mem_1", memory.ID)
	assert.Equal(t, 2, rec.Count())
}

// Test client errors are not retried
func TestNoRetryOnClientError(t *testing.T) {
	rec := respondWith(http.StatusBadRequest, `{"message": "bad"}`)
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.MaxRetries = 3
	})

	_, err := client.Memories.Get(context.Background(), "mem_1")
	require.Error(t, err)
	assert.Equal(t, 1, rec.Count())
}

// Test the retry budget is bounded by MaxRetries
func TestRetryBudgetExhausted(t *testing.T) {
	rec := respondWith(http.StatusTooManyRequests, `{"error": "limit", "current": 50, "limit": 50}`)
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.MaxRetries = 1
	})

	_, err := client.Memories.Get(context.Background(), "mem_1")
	require.Error(t, err)
	assert.True(t, mnexium.IsRateLimit(err))
	assert.Equal(t, 2, rec.Count())
}

// Test MaxRetries zero means exactly one attempt
func TestZeroRetriesSingleAttempt(t *testing.T) {
	rec := respondWith(http.StatusInternalServerError, `{"error": "boom"}`)
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.MaxRetries = 0
	})

	_, err := client.Memories.Get(context.Background(), "mem_1")
	require.Error(t, err)
	assert.Equal(t, 1, rec.Count())
}

// Test a malformed success body fails without being retried
func TestDecodeFailureNotRetried(t *testing.T) {
	rec := respondWith(http.StatusOK, `this is not json`)
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.MaxRetries = 3
	})

	_, err := client.Memories.Get(context.Background(), "mem_1")
	require.Error(t, err)
	assert.Equal(t, 1, rec.Count())

	var clientErr *mnexium.Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, "request", clientErr.Op)
}

// Test a cancelled context stops the request
func TestContextCancellation(t *testing.T) {
	client := newTestClientConfig(t, respondWith(http.StatusOK, memoryFixture), func(config *mnexium.Config) {
		config.MaxRetries = 3
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Memories.Get(ctx, "mem_1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

// Test deletes tolerate an empty 204 response
func TestDeleteNoContent(t *testing.T) {
	rec := respondWith(http.StatusNoContent, "")
	client := newTestClient(t, rec)

	err := client.Memories.Delete(context.Background(), "mem_1")
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/memories/mem_1", requests[0].Path)
}
