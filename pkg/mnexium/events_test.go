package mnexium_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnexium/mnexium-go/pkg/mnexium"
)

// Test a subscription delivers events in order and ends with EOF
func TestSubscribe(t *testing.T) {
	type opened struct {
		method string
		path   string
		query  string
		accept string
	}
	requests := make(chan opened, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- opened{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query().Get("subject_id"),
			accept: r.Header.Get("Accept"),
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "event: connected\ndata: {\"status\": \"ok\"}\n\n")
		io.WriteString(w, ": keep-alive\n\n")
		io.WriteString(w, "data: this is not json\n\n")
		io.WriteString(w, "data: {\"memory_id\": \"mem_1\"}\n\n")
		io.WriteString(w, "event: memory.created\ndata: {\"memory_id\": \"mem_2\", \"text\": \"Likes espresso\"}\n\n")
		io.WriteString(w, "event: memory.merged\ndata: {\"memory_id\": \"mem_3\"}\n\n")
	})
	client := newTestClient(t, handler)

	events, err := client.Memories.Subscribe(context.Background(), "user_1")
	require.NoError(t, err)
	defer events.Close()
	assert.True(t, events.IsConnected())

	req := <-requests
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/events/memories", req.path)
	assert.Equal(t, "user_1", req.query)
	assert.Equal(t, "text/event-stream", req.accept)

	event, err := events.Recv()
	require.NoError(t, err)
	assert.Equal(t, mnexium.EventConnected, event.Type)
	assert.Equal(t, "ok", event.Data["status"])

	// The keep-alive comment and the unparseable frame are skipped; the
	// unnamed frame arrives with the unknown type.
	event, err = events.Recv()
	require.NoError(t, err)
	assert.Equal(t, mnexium.EventUnknown, event.Type)
	assert.Equal(t, "mem_1", event.Data["memory_id"])

	event, err = events.Recv()
	require.NoError(t, err)
	assert.Equal(t, "memory.created", event.Type)
	assert.Equal(t, "mem_2", event.Data["memory_id"])
	assert.Equal(t, "Likes espresso", event.Data["text"])

	// Event types this SDK version does not know about still come through
	// with their tag and payload intact.
	event, err = events.Recv()
	require.NoError(t, err)
	assert.Equal(t, "memory.merged", event.Type)
	assert.Equal(t, "mem_3", event.Data["memory_id"])

	_, err = events.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, events.IsConnected())

	_, err = events.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

// Test Subscribe requires a subject
func TestSubscribeValidation(t *testing.T) {
	client := newTestClient(t, respondWith(http.StatusOK, "{}"))

	_, err := client.Memories.Subscribe(context.Background(), "")
	require.Error(t, err)
	var validationErr *mnexium.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

// Test Close unblocks a pending Recv
func TestEventStreamCloseUnblocksRecv(t *testing.T) {
	handlerDone := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "event: connected\ndata: {\"status\": \"ok\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-handlerDone:
		}
	})
	client := newTestClient(t, handler)
	t.Cleanup(func() { close(handlerDone) })

	events, err := client.Subject("user_1").Memories.Subscribe(context.Background())
	require.NoError(t, err)

	event, err := events.Recv()
	require.NoError(t, err)
	assert.Equal(t, mnexium.EventConnected, event.Type)

	recvDone := make(chan error, 1)
	go func() {
		_, err := events.Recv()
		recvDone <- err
	}()

	require.NoError(t, events.Close())

	select {
	case err := <-recvDone:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(2 * time.Second):
		t.Fatal("Recv did not unblock after Close")
	}

	assert.False(t, events.IsConnected())
	require.NoError(t, events.Close())
}

// Test a dropped subscription surfaces the failure once
func TestEventStreamInterrupted(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"memory_id\": \"mem_1\"}\n\n")
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	})
	client := newTestClient(t, handler)

	events, err := client.Memories.Subscribe(context.Background(), "user_1")
	require.NoError(t, err)
	defer events.Close()

	_, err = events.Recv()
	require.NoError(t, err)

	_, err = events.Recv()
	require.Error(t, err)
	assert.False(t, errors.Is(err, io.EOF))
	assert.False(t, events.IsConnected())

	// After the failure surfaced once, further reads are just EOF.
	_, err = events.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

// Test an HTTP error on subscribe is mapped before any stream exists
func TestSubscribeAuthError(t *testing.T) {
	client := newTestClient(t, respondWith(http.StatusUnauthorized, `{"error": "invalid api key"}`))

	_, err := client.Memories.Subscribe(context.Background(), "user_1")
	require.Error(t, err)
	assert.True(t, mnexium.IsAuthentication(err))
}
