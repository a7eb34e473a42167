package mnexium_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnexium/mnexium-go/pkg/mnexium"
)

// Test Set puts the value with the subject in a header, not the body
func TestStateSet(t *testing.T) {
	rec := respondWith(http.StatusOK, `{"key": "onboarding_step", "value": 3, "ttl_seconds": 3600}`)
	client := newTestClient(t, rec)

	state, err := client.State.Set(context.Background(), "user_1", "onboarding_step", 3,
		mnexium.WithTTL(3600))
	require.NoError(t, err)
	assert.Equal(t, "onboarding_step", state.Key)
	assert.Equal(t, float64(3), state.Value)
	assert.Equal(t, 3600, state.TTLSeconds)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/state/onboarding_step", req.Path)
	assert.Equal(t, "user_1", req.Header.Get("x-subject-id"))
	assert.Equal(t, float64(3), req.Body["value"])
	assert.Equal(t, float64(3600), req.Body["ttl_seconds"])
	assert.NotContains(t, req.Body, "subject_id")
}

// Test Set without TTL leaves ttl_seconds off the wire
func TestStateSetNoTTL(t *testing.T) {
	rec := respondWith(http.StatusOK, `{"key": "draft", "value": "dear diary"}`)
	client := newTestClient(t, rec)

	_, err := client.State.Set(context.Background(), "user_1", "draft", "dear diary")
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	assert.NotContains(t, requests[0].Body, "ttl_seconds")
}

// Test Get reads an entry under the subject header
func TestStateGet(t *testing.T) {
	rec := respondWith(http.StatusOK, `{"key": "cursor", "value": {"page": 4}, "expires_at": "2026-01-01T00:00:00Z"}`)
	client := newTestClient(t, rec)

	state, err := client.State.Get(context.Background(), "user_1", "cursor")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"page": float64(4)}, state.Value)
	assert.NotEmpty(t, state.ExpiresAt)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodGet, requests[0].Method)
	assert.Equal(t, "/state/cursor", requests[0].Path)
	assert.Equal(t, "user_1", requests[0].Header.Get("x-subject-id"))
}

// Test expired entries surface as NotFoundError
func TestStateGetExpired(t *testing.T) {
	rec := respondWith(http.StatusNotFound, `{"error": "state not found"}`)
	client := newTestClient(t, rec)

	_, err := client.State.Get(context.Background(), "user_1", "cursor")
	require.Error(t, err)
	assert.True(t, mnexium.IsNotFound(err))
}

// Test Delete targets the key with the subject header
func TestStateDelete(t *testing.T) {
	rec := respondWith(http.StatusNoContent, "")
	client := newTestClient(t, rec)

	err := client.State.Delete(context.Background(), "user_1", "cursor")
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/state/cursor", requests[0].Path)
	assert.Equal(t, "user_1", requests[0].Header.Get("x-subject-id"))
}

// Test state input validation happens client-side
func TestStateValidation(t *testing.T) {
	rec := respondWith(http.StatusOK, `{}`)
	client := newTestClient(t, rec)
	ctx := context.Background()

	_, err := client.State.Set(ctx, "", "key", 1)
	assert.Error(t, err)

	_, err = client.State.Set(ctx, "user_1", "", 1)
	assert.Error(t, err)

	_, err = client.State.Set(ctx, "user_1", "key", 1, mnexium.WithTTL(-5))
	assert.Error(t, err)

	_, err = client.State.Get(ctx, "user_1", "")
	assert.Error(t, err)

	err = client.State.Delete(ctx, "", "key")
	assert.Error(t, err)

	assert.Equal(t, 0, rec.Count())
}

// Test the subject-bound view carries its subject on every call
func TestSubjectStateBinding(t *testing.T) {
	rec := respondWith(http.StatusOK, `{"key": "step", "value": 1}`)
	client := newTestClient(t, rec)
	user := client.Subject("user_42")
	ctx := context.Background()

	_, err := user.State.Set(ctx, "step", 1)
	require.NoError(t, err)
	_, err = user.State.Get(ctx, "step")
	require.NoError(t, err)
	err = user.State.Delete(ctx, "step")
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 3)
	for _, req := range requests {
		assert.Equal(t, "user_42", req.Header.Get("x-subject-id"))
	}
}
