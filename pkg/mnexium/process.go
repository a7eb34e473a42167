package mnexium

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mnexium/mnexium-go/pkg/provider"
)

// processRequest is the wire body of a process call.
type processRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
	Mnx         mnxPayload    `json:"mnx"`
}

// mnxPayload is the memory-layer block of a process call.
type mnxPayload struct {
	SubjectID     string           `json:"subject_id,omitempty"`
	ChatID        string           `json:"chat_id,omitempty"`
	Log           bool             `json:"log"`
	Learn         LearnSetting     `json:"learn"`
	Recall        bool             `json:"recall"`
	Profile       bool             `json:"profile"`
	History       bool             `json:"history"`
	Summarize     SummarizeSetting `json:"summarize"`
	SystemPrompt  PromptSelection  `json:"system_prompt"`
	MemoryPolicy  PolicySelection  `json:"memory_policy,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	RegenerateKey bool             `json:"regenerate_key"`
}

// resolvedProcess holds the fully resolved settings for one turn. Call
// options override chat options, which override client defaults, which
// override the built-in defaults.
type resolvedProcess struct {
	model         string
	subjectID     string
	chatID        string
	log           bool
	learn         LearnSetting
	recall        bool
	profile       bool
	history       bool
	summarize     SummarizeSetting
	systemPrompt  PromptSelection
	memoryPolicy  PolicySelection
	metadata      map[string]any
	maxTokens     int
	temperature   *float32
	regenerateKey bool
}

// resolveProcess merges the configuration layers for one turn. chat may be
// nil for calls outside a conversation thread.
func (c *Client) resolveProcess(call *ProcessOptions, chat *ChatOptions) (*resolvedProcess, error) {
	defaults := c.defaults
	if chat == nil {
		chat = &ChatOptions{}
	}

	r := &resolvedProcess{
		model:         firstNonEmpty(call.Model, chat.Model, defaults.Model, DefaultModel),
		subjectID:     firstNonEmpty(call.SubjectID, defaults.SubjectID),
		chatID:        firstNonEmpty(call.ChatID, chat.ChatID, defaults.ChatID),
		log:           resolveToggle(true, call.Log, chat.Log, defaults.Log),
		learn:         resolveLearn(LearnOn, call.Learn, chat.Learn, defaults.Learn),
		recall:        resolveToggle(false, call.Recall, chat.Recall, defaults.Recall),
		profile:       resolveToggle(false, call.Profile, chat.Profile, defaults.Profile),
		history:       resolveToggle(true, call.History, chat.History, defaults.History),
		summarize:     resolveSummarize(SummarizeOff, call.Summarize, chat.Summarize, defaults.Summarize),
		systemPrompt:  resolvePrompt(PromptEnabled, call.SystemPrompt, chat.SystemPrompt, defaults.SystemPrompt),
		memoryPolicy:  call.MemoryPolicy,
		metadata:      firstMetadata(call.Metadata, chat.Metadata, defaults.Metadata),
		maxTokens:     firstPositive(call.MaxTokens, chat.MaxTokens, defaults.MaxTokens),
		temperature:   firstTemperature(call.Temperature, chat.Temperature, defaults.Temperature),
		regenerateKey: resolveToggle(false, call.RegenerateKey, defaults.RegenerateKey),
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// validate rejects malformed option values before any network traffic.
func (r *resolvedProcess) validate() error {
	switch r.learn {
	case LearnOn, LearnOff, LearnForce:
	default:
		return newValidationError("learn must be on, off, or force, got %q", string(r.learn))
	}
	switch r.summarize {
	case SummarizeOn, SummarizeOff, SummarizeLight, SummarizeBalanced, SummarizeAggressive:
	default:
		return newValidationError("summarize must be on, off, or a level, got %q", string(r.summarize))
	}
	if r.maxTokens < 0 {
		return newValidationError("max tokens must not be negative")
	}
	return nil
}

// buildProcessRequest assembles the wire body for one turn.
func buildProcessRequest(r *resolvedProcess, content string, stream bool) *processRequest {
	return &processRequest{
		Model:       r.model,
		Messages:    []ChatMessage{{Role: RoleUser, Content: content}},
		Stream:      stream,
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
		Mnx: mnxPayload{
			SubjectID:     r.subjectID,
			ChatID:        r.chatID,
			Log:           r.log,
			Learn:         r.learn,
			Recall:        r.recall,
			Profile:       r.profile,
			History:       r.history,
			Summarize:     r.summarize,
			SystemPrompt:  r.systemPrompt,
			MemoryPolicy:  r.memoryPolicy,
			Metadata:      r.metadata,
			RegenerateKey: r.regenerateKey,
		},
	}
}

// providerHeaders picks which provider key to forward with a chat request.
// The key matching the detected provider wins; without a match the first
// configured key is sent, in the order OpenAI, Anthropic, Google.
func (c *Client) providerHeaders(model string) http.Header {
	header := http.Header{}
	cfg := c.config
	switch provider.Detect(model) {
	case provider.Anthropic:
		if cfg.Anthropic != nil {
			header.Set("x-anthropic-key", cfg.Anthropic.APIKey)
			return header
		}
	case provider.Google:
		if cfg.Google != nil {
			header.Set("x-google-key", cfg.Google.APIKey)
			return header
		}
	}
	switch {
	case cfg.OpenAI != nil:
		header.Set("x-openai-key", cfg.OpenAI.APIKey)
	case cfg.Anthropic != nil:
		header.Set("x-anthropic-key", cfg.Anthropic.APIKey)
	case cfg.Google != nil:
		header.Set("x-google-key", cfg.Google.APIKey)
	}
	return header
}

// Process runs one memory-enhanced chat turn and returns the complete
// response. The service recalls what it knows about the subject, forwards
// the message to the model's provider, and remembers what it learned.
//
// Example:
//
//	resp, err := client.Process(ctx, "I moved to Lisbon last month",
//	    mnexium.WithSubjectID("user_123"))
//	if err != nil {
//	    log.Fatalf("Process failed: %v", err)
//	}
//	fmt.Println(resp.Content)
func (c *Client) Process(ctx context.Context, content string, opts ...ProcessOption) (*ProcessResponse, error) {
	return c.process(ctx, content, applyProcessOptions(opts...), nil)
}

// ProcessStream runs one memory-enhanced chat turn and streams the
// response as it is generated. See StreamResponse for the consumption
// contract.
func (c *Client) ProcessStream(ctx context.Context, content string, opts ...ProcessOption) (*StreamResponse, error) {
	return c.processStream(ctx, content, applyProcessOptions(opts...), nil)
}

// process runs one non-streaming turn.
func (c *Client) process(ctx context.Context, content string, call *ProcessOptions, chat *ChatOptions) (*ProcessResponse, error) {
	r, err := c.resolveProcess(call, chat)
	if err != nil {
		return nil, err
	}

	header := c.providerHeaders(r.model)
	if r.memoryPolicy.IsSet() {
		header.Set("x-mnx-memory-policy", r.memoryPolicy.headerValue())
	}

	var raw json.RawMessage
	err = c.request(ctx, http.MethodPost, "/chat/completions", nil,
		buildProcessRequest(r, content, false), header, &raw)
	if err != nil {
		return nil, err
	}

	text, usage, err := provider.ExtractContent(raw)
	if err != nil {
		return nil, NewError("process", err)
	}

	var envelope struct {
		Model string           `json:"model"`
		Mnx   *MnxResponseData `json:"mnx"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, NewError("process", err)
	}

	model := envelope.Model
	if model == "" {
		model = r.model
	}
	resp := &ProcessResponse{
		Content: text,
		Model:   model,
		Usage:   usage,
		Raw:     raw,
	}
	if envelope.Mnx != nil {
		resp.ChatID = envelope.Mnx.ChatID
		resp.SubjectID = envelope.Mnx.SubjectID
		resp.ProvisionedKey = envelope.Mnx.ProvisionedKey
		resp.ClaimURL = envelope.Mnx.ClaimURL
	}
	return resp, nil
}

// processStream runs one streaming turn.
func (c *Client) processStream(ctx context.Context, content string, call *ProcessOptions, chat *ChatOptions) (*StreamResponse, error) {
	r, err := c.resolveProcess(call, chat)
	if err != nil {
		return nil, err
	}

	header := c.providerHeaders(r.model)
	if r.memoryPolicy.IsSet() {
		header.Set("x-mnx-memory-policy", r.memoryPolicy.headerValue())
	}

	resp, err := c.requestStream(ctx, http.MethodPost, "/chat/completions", nil,
		buildProcessRequest(r, content, true), header)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("stream opened", "model", r.model, "subject_id", r.subjectID)
	return newStreamResponse(resp, r.chatID, r.subjectID, r.model), nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveToggle returns the first explicitly set toggle, or fallback.
func resolveToggle(fallback bool, layers ...Toggle) bool {
	for _, layer := range layers {
		if layer.IsSet() {
			return layer == On
		}
	}
	return fallback
}

// resolveLearn returns the first explicitly set learn setting, or fallback.
func resolveLearn(fallback LearnSetting, layers ...LearnSetting) LearnSetting {
	for _, layer := range layers {
		if layer.IsSet() {
			return layer
		}
	}
	return fallback
}

// resolveSummarize returns the first explicitly set summarize setting, or
// fallback.
func resolveSummarize(fallback SummarizeSetting, layers ...SummarizeSetting) SummarizeSetting {
	for _, layer := range layers {
		if layer.IsSet() {
			return layer
		}
	}
	return fallback
}

// resolvePrompt returns the first explicitly set prompt selection, or
// fallback.
func resolvePrompt(fallback PromptSelection, layers ...PromptSelection) PromptSelection {
	for _, layer := range layers {
		if layer.IsSet() {
			return layer
		}
	}
	return fallback
}

// firstMetadata returns the first non-nil metadata map.
func firstMetadata(layers ...map[string]any) map[string]any {
	for _, layer := range layers {
		if layer != nil {
			return layer
		}
	}
	return nil
}

// firstPositive returns the first positive value.
func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// firstTemperature returns the first explicitly set temperature.
func firstTemperature(values ...*float32) *float32 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
