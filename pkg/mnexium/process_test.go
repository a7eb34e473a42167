package mnexium_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnexium/mnexium-go/pkg/mnexium"
)

// completionFixture builds an OpenAI-shaped chat completion body with the
// service's mnx echo block.
func completionFixture(content, chatID, subjectID string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-1",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12},
		"mnx": {"chat_id": %q, "subject_id": %q}
	}`, content, chatID, subjectID)
}

// mnxBlock digs the mnx object out of a captured request body.
func mnxBlock(t *testing.T, req recordedRequest) map[string]any {
	t.Helper()
	block, ok := req.Body["mnx"].(map[string]any)
	require.True(t, ok, "request body has no mnx block: %v", req.Body)
	return block
}

// Test the built-in defaults reach the wire unchanged
func TestProcessDefaultsOnWire(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("Hello!", "chat_1", "user_1"))
	client := newTestClient(t, rec)

	resp, err := client.Process(context.Background(), "hi", mnexium.WithSubjectID("user_1"))
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Content)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/chat/completions", req.Path)

	assert.Equal(t, "gpt-4o-mini", req.Body["model"])
	assert.Equal(t, false, req.Body["stream"])
	assert.NotContains(t, req.Body, "max_tokens")
	assert.NotContains(t, req.Body, "temperature")

	messages, ok := req.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "hi", first["content"])

	mnx := mnxBlock(t, req)
	assert.Equal(t, "user_1", mnx["subject_id"])
	assert.Equal(t, true, mnx["log"])
	assert.Equal(t, true, mnx["learn"])
	assert.Equal(t, false, mnx["recall"])
	assert.Equal(t, false, mnx["profile"])
	assert.Equal(t, true, mnx["history"])
	assert.Equal(t, false, mnx["summarize"])
	assert.Equal(t, true, mnx["system_prompt"])
	assert.Equal(t, false, mnx["regenerate_key"])
	assert.NotContains(t, mnx, "chat_id")
	assert.NotContains(t, mnx, "memory_policy")
	assert.NotContains(t, mnx, "metadata")
}

// Test the response fields are populated from the body
func TestProcessResponseFields(t *testing.T) {
	body := `{
		"model": "gpt-4o",
		"choices": [{"message": {"role": "assistant", "content": "Noted."}}],
		"usage": {"prompt_tokens": 20, "completion_tokens": 2, "total_tokens": 22},
		"mnx": {
			"chat_id": "chat_9", "subject_id": "user_9",
			"provisioned_key": "mnx_trial_xyz", "claim_url": "https://mnexium.com/claim/xyz"
		}
	}`
	client := newTestClient(t, respondWith(http.StatusOK, body))

	resp, err := client.Process(context.Background(), "remember this")
	require.NoError(t, err)
	assert.Equal(t, "Noted.", resp.Content)
	assert.Equal(t, "chat_9", resp.ChatID)
	assert.Equal(t, "user_9", resp.SubjectID)
	assert.Equal(t, "gpt-4o", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 22, resp.Usage.TotalTokens)
	assert.Equal(t, "mnx_trial_xyz", resp.ProvisionedKey)
	assert.Equal(t, "https://mnexium.com/claim/xyz", resp.ClaimURL)
	assert.NotEmpty(t, resp.Raw)
}

// Test an Anthropic-shaped response body is decoded too
func TestProcessAnthropicResponse(t *testing.T) {
	body := `{
		"id": "msg_1",
		"model": "claude-sonnet-4-5",
		"content": [{"type": "text", "text": "Bonjour."}],
		"usage": {"input_tokens": 15, "output_tokens": 4},
		"mnx": {"chat_id": "chat_2", "subject_id": "user_2"}
	}`
	client := newTestClient(t, respondWith(http.StatusOK, body))

	resp, err := client.Process(context.Background(), "salut",
		mnexium.WithModel("claude-sonnet-4-5"))
	require.NoError(t, err)
	assert.Equal(t, "Bonjour.", resp.Content)
	assert.Equal(t, "claude-sonnet-4-5", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 19, resp.Usage.TotalTokens)
	assert.Equal(t, "chat_2", resp.ChatID)
}

// Test call options beat chat options, which beat client defaults
func TestProcessMergePrecedence(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_1", "user_1"))
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.Defaults = &mnexium.Defaults{
			Model:     "gpt-4o",
			Recall:    mnexium.On,
			Summarize: mnexium.SummarizeLight,
		}
	})

	chat := client.Subject("user_1").CreateChat(
		mnexium.WithModelForChat("gpt-4.1"),
		mnexium.WithRecallForChat(false))

	// Call layer wins where it speaks.
	_, err := chat.Process(context.Background(), "q",
		mnexium.WithModel("o3-mini"),
		mnexium.WithLearnForce())
	require.NoError(t, err)

	// Chat layer wins where the call is silent, defaults where both are.
	_, err = chat.Process(context.Background(), "q")
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 2)

	assert.Equal(t, "o3-mini", requests[0].Body["model"])
	mnx := mnxBlock(t, requests[0])
	assert.Equal(t, false, mnx["recall"])
	assert.Equal(t, "force", mnx["learn"])
	assert.Equal(t, "light", mnx["summarize"])

	assert.Equal(t, "gpt-4.1", requests[1].Body["model"])
	mnx = mnxBlock(t, requests[1])
	assert.Equal(t, false, mnx["recall"])
	assert.Equal(t, true, mnx["learn"])
	assert.Equal(t, "light", mnx["summarize"])
}

// Test each call option lands on the wire in its encoded form
func TestProcessCallOptionsOnWire(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_1", "user_1"))
	client := newTestClient(t, rec)

	_, err := client.Process(context.Background(), "hello",
		mnexium.WithSubjectID("user_1"),
		mnexium.WithChatID("chat_7"),
		mnexium.WithLog(false),
		mnexium.WithHistory(false),
		mnexium.WithProfile(true),
		mnexium.WithSummarizeLevel(mnexium.SummarizeAggressive),
		mnexium.WithSystemPromptID("prompt_4"),
		mnexium.WithMetadata(map[string]any{"channel": "web"}),
		mnexium.WithMaxTokens(256),
		mnexium.WithTemperature(0.2),
		mnexium.WithRegenerateKey(true))
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	req := requests[0]

	assert.Equal(t, float64(256), req.Body["max_tokens"])
	assert.InDelta(t, 0.2, req.Body["temperature"].(float64), 1e-6)

	mnx := mnxBlock(t, req)
	assert.Equal(t, "chat_7", mnx["chat_id"])
	assert.Equal(t, false, mnx["log"])
	assert.Equal(t, false, mnx["history"])
	assert.Equal(t, true, mnx["profile"])
	assert.Equal(t, "aggressive", mnx["summarize"])
	assert.Equal(t, "prompt_4", mnx["system_prompt"])
	assert.Equal(t, map[string]any{"channel": "web"}, mnx["metadata"])
	assert.Equal(t, true, mnx["regenerate_key"])
}

// Test the memory policy travels in both the body and the header
func TestProcessMemoryPolicy(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_1", "user_1"))
	client := newTestClient(t, rec)

	_, err := client.Process(context.Background(), "q",
		mnexium.WithMemoryPolicy("policy_1"))
	require.NoError(t, err)

	_, err = client.Process(context.Background(), "q",
		mnexium.WithMemoryPolicyDisabled())
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 2)

	assert.Equal(t, "policy_1", mnxBlock(t, requests[0])["memory_policy"])
	assert.Equal(t, "policy_1", requests[0].Header.Get("x-mnx-memory-policy"))

	assert.Equal(t, false, mnxBlock(t, requests[1])["memory_policy"])
	assert.Equal(t, "false", requests[1].Header.Get("x-mnx-memory-policy"))
}

// Test the provider key matching the model is forwarded
func TestProviderKeyHeaders(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_1", "user_1"))
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.OpenAI = &mnexium.ProviderConfig{APIKey: "sk-openai"}
		config.Anthropic = &mnexium.ProviderConfig{APIKey: "sk-ant"}
		config.Google = &mnexium.ProviderConfig{APIKey: "sk-goog"}
	})

	models := []string{"gpt-4o", "claude-sonnet-4-5", "gemini-2.0-flash", "mystery-model"}
	for _, model := range models {
		_, err := client.Process(context.Background(), "q", mnexium.WithModel(model))
		require.NoError(t, err)
	}

	requests := rec.Requests()
	require.Len(t, requests, 4)

	assert.Equal(t, "sk-openai", requests[0].Header.Get("x-openai-key"))
	assert.Empty(t, requests[0].Header.Get("x-anthropic-key"))

	assert.Equal(t, "sk-ant", requests[1].Header.Get("x-anthropic-key"))
	assert.Empty(t, requests[1].Header.Get("x-openai-key"))

	assert.Equal(t, "sk-goog", requests[2].Header.Get("x-google-key"))

	// Unknown model family falls back to the first configured key.
	assert.Equal(t, "sk-openai", requests[3].Header.Get("x-openai-key"))
}

// Test the fallback walks the configured keys in order
func TestProviderKeyFallbackOrder(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_1", "user_1"))
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.Google = &mnexium.ProviderConfig{APIKey: "sk-goog"}
	})

	_, err := client.Process(context.Background(), "q", mnexium.WithModel("gpt-4o"))
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "sk-goog", requests[0].Header.Get("x-google-key"))
	assert.Empty(t, requests[0].Header.Get("x-openai-key"))
}

// Test a thread adopts the server-assigned chat ID and keeps using it
func TestChatThreadCarriesConversation(t *testing.T) {
	rec := &requestRecorder{respond: func(n int) (int, string) {
		if n == 0 {
			return http.StatusOK, completionFixture("Got it, blue it is.", "chat_srv", "user_1")
		}
		return http.StatusOK, completionFixture("Your favorite color is blue.", "chat_srv", "user_1")
	}}
	client := newTestClient(t, rec)

	chat := client.Subject("user_1").CreateChat()
	assert.Empty(t, chat.ID())

	resp, err := chat.Process(context.Background(), "My favorite color is blue")
	require.NoError(t, err)
	assert.Equal(t, "chat_srv", resp.ChatID)
	assert.Equal(t, "chat_srv", chat.ID())

	resp, err = chat.Process(context.Background(), "What is my favorite color?")
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "blue")

	requests := rec.Requests()
	require.Len(t, requests, 2)
	assert.NotContains(t, mnxBlock(t, requests[0]), "chat_id")
	assert.Equal(t, "chat_srv", mnxBlock(t, requests[1])["chat_id"])
	assert.Equal(t, "user_1", mnxBlock(t, requests[1])["subject_id"])
}

// Test a thread created with an explicit ID keeps it
func TestChatThreadResumesExplicitID(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_other", "user_1"))
	client := newTestClient(t, rec)

	chat := client.CreateChat("user_1", mnexium.WithChatIDForChat("chat_mine"))
	assert.Equal(t, "chat_mine", chat.ID())

	_, err := chat.Process(context.Background(), "continue")
	require.NoError(t, err)

	assert.Equal(t, "chat_mine", chat.ID())
	requests := rec.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "chat_mine", mnxBlock(t, requests[0])["chat_id"])
}

// Test Subject.Process pins the turn to the bound subject
func TestSubjectProcessPinsSubject(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_1", "user_7"))
	client := newTestClient(t, rec)

	user := client.Subject("user_7")
	_, err := user.Process(context.Background(), "q",
		mnexium.WithSubjectID("someone_else"))
	require.NoError(t, err)

	requests := rec.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "user_7", mnxBlock(t, requests[0])["subject_id"])
}

// Test malformed defaults are rejected before any traffic
func TestProcessRejectsInvalidDefaults(t *testing.T) {
	rec := respondWith(http.StatusOK, completionFixture("ok", "chat_1", "user_1"))
	client := newTestClientConfig(t, rec, func(config *mnexium.Config) {
		config.Defaults = &mnexium.Defaults{Learn: mnexium.LearnSetting("sometimes")}
	})

	_, err := client.Process(context.Background(), "q")
	require.Error(t, err)
	var validationErr *mnexium.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, rec.Count())
}
