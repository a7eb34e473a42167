package mnexium_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnexium/mnexium-go/pkg/mnexium"
)

// Test List returns the subject's threads with paging parameters
func TestChatsList(t *testing.T) {
	rec := respondWith(http.StatusOK, `{"chats": [
		{"chat_id": "chat_2", "message_count": 12, "last_message_at": "2026-03-02T10:00:00Z"},
		{"chat_id": "chat_1", "message_count": 4}
	]}`)
	client := newTestClient(t, rec)

	chats, err := client.Subject("user_1").Chats.List(context.Background(),
		mnexium.WithLimitForList(10), mnexium.WithOffset(20))
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "chat_2", chats[0].ChatID)
	assert.Equal(t, 12, chats[0].MessageCount)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/chat/history/list", req.Path)
	assert.Equal(t, "user_1", req.Query.Get("subject_id"))
	assert.Equal(t, "10", req.Query.Get("limit"))
	assert.Equal(t, "20", req.Query.Get("offset"))
}

// Test Read returns a thread's messages in order
func TestChatsRead(t *testing.T) {
	rec := respondWith(http.StatusOK, `{"data": [
		{"role": "user", "content": "I moved to Lisbon"},
		{"role": "assistant", "content": "Noted. How are you finding it?"}
	]}`)
	client := newTestClient(t, rec)

	messages, err := client.Subject("user_1").Chats.Read(context.Background(), "chat_1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, mnexium.RoleUser, messages[0].Role)
	assert.Equal(t, "I moved to Lisbon", messages[0].Content)
	assert.Equal(t, mnexium.RoleAssistant, messages[1].Role)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "/chat/history/read", req.Path)
	assert.Equal(t, "user_1", req.Query.Get("subject_id"))
	assert.Equal(t, "chat_1", req.Query.Get("chat_id"))
}

// Test Delete removes a thread by ID
func TestChatsDelete(t *testing.T) {
	rec := respondWith(http.StatusOK, `{"deleted": true}`)
	client := newTestClient(t, rec)

	err := client.Subject("user_1").Chats.Delete(context.Background(), "chat_1")
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/chat/history/delete", req.Path)
	assert.Equal(t, "user_1", req.Query.Get("subject_id"))
	assert.Equal(t, "chat_1", req.Query.Get("chat_id"))
}

// Test thread operations reject an empty chat id
func TestChatsValidation(t *testing.T) {
	rec := respondWith(http.StatusOK, `{}`)
	client := newTestClient(t, rec)
	user := client.Subject("user_1")
	ctx := context.Background()

	_, err := user.Chats.Read(ctx, "")
	assert.Error(t, err)

	err = user.Chats.Delete(ctx, "")
	assert.Error(t, err)

	assert.Equal(t, 0, rec.Count())
}
