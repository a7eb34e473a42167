package provider

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openaiContent decodes an OpenAI chat completion response. It is the
// fallback shape and therefore the only extractor that can fail: a body that
// is not valid JSON is an error rather than a "not this provider" miss.
func openaiContent(raw []byte) (string, *Usage, error) {
	var parsed struct {
		Choices []openai.ChatCompletionChoice `json:"choices"`
		Usage   *openai.Usage                 `json:"usage"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", nil, fmt.Errorf("provider: decode openai response: %w", err)
	}

	var content string
	if len(parsed.Choices) > 0 {
		content = parsed.Choices[0].Message.Content
	}

	var usage *Usage
	if parsed.Usage != nil {
		usage = &Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}
	return content, usage, nil
}

// openaiChunk pulls the text delta from an OpenAI streaming frame:
// choices[0].delta.content. Frames with no choices or an empty delta (role
// preludes, finish frames) report ok=false.
func openaiChunk(raw []byte) (string, bool) {
	var parsed struct {
		Choices []openai.ChatCompletionStreamChoice `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false
	}
	if len(parsed.Choices) == 0 {
		return "", false
	}
	content := parsed.Choices[0].Delta.Content
	if content == "" {
		return "", false
	}
	return content, true
}
