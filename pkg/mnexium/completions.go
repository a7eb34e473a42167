package mnexium

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// MnxOptions is the memory-control block of a low-level chat completion
// request. Zero-valued fields are left off the wire and the server applies
// its defaults; nothing is merged in from chat or client configuration.
type MnxOptions struct {
	// SubjectID scopes the turn to a subject.
	SubjectID string `json:"subject_id,omitempty"`

	// ChatID continues an existing conversation thread.
	ChatID string `json:"chat_id,omitempty"`

	// Log controls whether the turn is written to chat history.
	Log Toggle `json:"log,omitempty"`

	// Learn controls memory extraction.
	Learn LearnSetting `json:"learn,omitempty"`

	// Recall controls retrieval of relevant memories into the prompt.
	Recall Toggle `json:"recall,omitempty"`

	// Profile controls injection of the subject's profile.
	Profile Toggle `json:"profile,omitempty"`

	// History controls injection of prior conversation turns.
	History Toggle `json:"history,omitempty"`

	// Summarize controls conversation summarization.
	Summarize SummarizeSetting `json:"summarize,omitempty"`

	// SystemPrompt controls system prompt injection.
	SystemPrompt PromptSelection `json:"system_prompt,omitempty"`

	// MemoryPolicy picks the memory policy for the turn.
	MemoryPolicy PolicySelection `json:"memory_policy,omitempty"`

	// Metadata is attached to the logged turn.
	Metadata map[string]any `json:"metadata,omitempty"`

	// RegenerateKey asks the server to mint a fresh trial key.
	RegenerateKey bool `json:"regenerate_key,omitempty"`
}

// ChatCompletionRequest is the low-level request for CreateChatCompletion
// and CreateChatCompletionStream. Unlike Process, this surface is a direct
// pass-through: what you set is what goes on the wire.
type ChatCompletionRequest struct {
	// Model is the model to complete with.
	Model string `json:"model"`

	// Messages is the full conversation to complete, including any system
	// message.
	Messages []ChatMessage `json:"messages"`

	// MaxTokens caps the completion length. Zero omits the cap.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature is the sampling temperature. Nil leaves it to the model.
	Temperature *float32 `json:"temperature,omitempty"`

	// Mnx carries the memory-control block.
	Mnx *MnxOptions `json:"mnx,omitempty"`

	// OpenAIKey is a per-request OpenAI key, forwarded in addition to any
	// configured keys.
	OpenAIKey string `json:"-"`

	// AnthropicKey is a per-request Anthropic key.
	AnthropicKey string `json:"-"`

	// GoogleKey is a per-request Google key.
	GoogleKey string `json:"-"`
}

// ChatCompletionResponse is the OpenAI-compatible response of
// CreateChatCompletion, plus the service's mnx echo block.
type ChatCompletionResponse struct {
	// ID identifies the completion.
	ID string `json:"id,omitempty"`

	// Object is the response object type.
	Object string `json:"object,omitempty"`

	// Created is the completion timestamp, seconds since the epoch.
	Created int64 `json:"created,omitempty"`

	// Model is the model that produced the completion.
	Model string `json:"model,omitempty"`

	// Choices holds the generated completions.
	Choices []openai.ChatCompletionChoice `json:"choices"`

	// Usage reports token consumption.
	Usage *Usage `json:"usage,omitempty"`

	// Mnx echoes the memory-layer outcome: thread and subject IDs, trial
	// key provisioning.
	Mnx *MnxResponseData `json:"mnx,omitempty"`
}

// Content returns the first choice's message content, or an empty string
// when there are no choices.
func (r *ChatCompletionResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// CreateChatCompletion sends a raw chat completion through the memory
// layer. Most callers want Process instead; this surface exists for full
// control over the message list and the mnx block.
//
// Example:
//
//	resp, err := client.CreateChatCompletion(ctx, mnexium.ChatCompletionRequest{
//	    Model: "gpt-4o",
//	    Messages: []mnexium.ChatMessage{
//	        {Role: mnexium.RoleSystem, Content: "Answer in one sentence."},
//	        {Role: mnexium.RoleUser, Content: "What do you know about me?"},
//	    },
//	    Mnx: &mnexium.MnxOptions{SubjectID: "user_123", Recall: mnexium.On},
//	})
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var out ChatCompletionResponse
	err := c.request(ctx, http.MethodPost, "/chat/completions", nil,
		completionBody(req, false), c.completionHeaders(req), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateChatCompletionStream is the streaming form of CreateChatCompletion.
// See StreamResponse for the consumption contract.
func (c *Client) CreateChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (*StreamResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	resp, err := c.requestStream(ctx, http.MethodPost, "/chat/completions", nil,
		completionBody(req, true), c.completionHeaders(req))
	if err != nil {
		return nil, err
	}

	var chatID, subjectID string
	if req.Mnx != nil {
		chatID = req.Mnx.ChatID
		subjectID = req.Mnx.SubjectID
	}
	return newStreamResponse(resp, chatID, subjectID, req.Model), nil
}

func (r *ChatCompletionRequest) validate() error {
	if r.Model == "" {
		return newValidationError("model is required")
	}
	if len(r.Messages) == 0 {
		return newValidationError("at least one message is required")
	}
	for _, message := range r.Messages {
		if message.Role == "" {
			return newValidationError("message role is required")
		}
	}
	return nil
}

// completionBody adds the stream flag the endpoint expects alongside the
// request fields.
func completionBody(req ChatCompletionRequest, stream bool) any {
	return struct {
		ChatCompletionRequest
		Stream bool `json:"stream"`
	}{req, stream}
}

// completionHeaders forwards provider keys for a raw completion: the
// configured selection for the model, plus every per-request key override.
func (c *Client) completionHeaders(req ChatCompletionRequest) http.Header {
	header := c.providerHeaders(req.Model)
	if req.OpenAIKey != "" {
		header.Set("x-openai-key", req.OpenAIKey)
	}
	if req.AnthropicKey != "" {
		header.Set("x-anthropic-key", req.AnthropicKey)
	}
	if req.GoogleKey != "" {
		header.Set("x-google-key", req.GoogleKey)
	}
	if req.Mnx != nil && req.Mnx.MemoryPolicy.IsSet() {
		header.Set("x-mnx-memory-policy", req.Mnx.MemoryPolicy.headerValue())
	}
	return header
}
