package mnexium

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// PromptsService manages stored system prompts. The service injects the
// resolved prompt into chat turns that run with system prompts enabled.
type PromptsService struct {
	client *Client
}

// Create stores a new system prompt.
//
// Example:
//
//	prompt, err := client.Prompts.Create(ctx, "support",
//	    "You are a patient support agent.", mnexium.WithPromptDefault(true))
func (s *PromptsService) Create(ctx context.Context, name, text string, opts ...PromptCreateOption) (*SystemPrompt, error) {
	if name == "" {
		return nil, newValidationError("prompt name is required")
	}
	if text == "" {
		return nil, newValidationError("prompt text is required")
	}
	options := applyPromptCreateOptions(opts...)

	body := struct {
		Name       string `json:"name"`
		PromptText string `json:"prompt_text"`
		IsDefault  bool   `json:"is_default"`
	}{name, text, options.IsDefault}

	var raw json.RawMessage
	if err := s.client.request(ctx, http.MethodPost, "/prompts", nil, body, nil, &raw); err != nil {
		return nil, err
	}
	return decodePrompt(raw)
}

// Get retrieves a prompt by ID.
func (s *PromptsService) Get(ctx context.Context, promptID string) (*SystemPrompt, error) {
	if promptID == "" {
		return nil, newValidationError("prompt id is required")
	}
	var raw json.RawMessage
	if err := s.client.request(ctx, http.MethodGet, "/prompts/"+promptID, nil, nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodePrompt(raw)
}

// List returns the project's stored prompts.
func (s *PromptsService) List(ctx context.Context) ([]*SystemPrompt, error) {
	var envelope struct {
		Prompts []*SystemPrompt `json:"prompts"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/prompts", nil, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Prompts, nil
}

// Update modifies a prompt. Only the fields selected through options are
// sent.
func (s *PromptsService) Update(ctx context.Context, promptID string, opts ...PromptUpdateOption) (*SystemPrompt, error) {
	if promptID == "" {
		return nil, newValidationError("prompt id is required")
	}
	options := applyPromptUpdateOptions(opts...)

	body := struct {
		Name       *string `json:"name,omitempty"`
		PromptText *string `json:"prompt_text,omitempty"`
		IsDefault  *bool   `json:"is_default,omitempty"`
	}{options.Name, options.PromptText, options.IsDefault}

	var raw json.RawMessage
	if err := s.client.request(ctx, http.MethodPatch, "/prompts/"+promptID, nil, body, nil, &raw); err != nil {
		return nil, err
	}
	return decodePrompt(raw)
}

// Delete removes a prompt.
func (s *PromptsService) Delete(ctx context.Context, promptID string) error {
	if promptID == "" {
		return newValidationError("prompt id is required")
	}
	return s.client.request(ctx, http.MethodDelete, "/prompts/"+promptID, nil, nil, nil, nil)
}

// Resolve reports which prompt the service would compose for a given
// subject or thread, after defaults and per-chat overrides are applied.
func (s *PromptsService) Resolve(ctx context.Context, opts ...ResolvePromptOption) (map[string]any, error) {
	options := applyResolvePromptOptions(opts...)

	params := url.Values{}
	if options.SubjectID != "" {
		params.Set("subject_id", options.SubjectID)
	}
	if options.ChatID != "" {
		params.Set("chat_id", options.ChatID)
	}
	if options.Combined != nil {
		params.Set("combined", strconv.FormatBool(*options.Combined))
	}

	var out map[string]any
	if err := s.client.request(ctx, http.MethodGet, "/prompts/resolve", params, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodePrompt handles both response shapes the prompt endpoints use: a
// bare prompt object, or one nested under a "prompt" key.
func decodePrompt(raw json.RawMessage) (*SystemPrompt, error) {
	if len(raw) == 0 {
		return &SystemPrompt{}, nil
	}
	var envelope struct {
		Prompt *SystemPrompt `json:"prompt"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Prompt != nil {
		return envelope.Prompt, nil
	}
	var prompt SystemPrompt
	if err := json.Unmarshal(raw, &prompt); err != nil {
		return nil, NewError("prompts", err)
	}
	return &prompt, nil
}
