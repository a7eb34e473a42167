// Package provider identifies LLM providers from model names and normalizes
// their response payloads into a single shape.
//
// The Mnexium API forwards chat traffic to OpenAI, Anthropic, or Google and
// relays each provider's native JSON back to the client. This package keeps
// the rest of the SDK provider-agnostic: Detect picks the provider so the
// right key header can be attached, and the Extract functions pull assistant
// text and token usage out of whichever response format arrived.
package provider

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Name identifies an upstream LLM provider.
type Name string

const (
	// OpenAI covers the GPT, o-series, and legacy completion model families.
	OpenAI Name = "openai"

	// Anthropic covers the Claude model family.
	Anthropic Name = "anthropic"

	// Google covers the Gemini and PaLM model families.
	Google Name = "google"

	// Unknown is returned by Detect when a model name matches no known family.
	Unknown Name = ""
)

// modelFamilies maps model-name substrings to providers. Order matters: the
// first matching entry wins.
var modelFamilies = []struct {
	substr string
	name   Name
}{
	{"claude", Anthropic},
	{"gemini", Google},
	{"palm", Google},
	{"gpt", OpenAI},
	{"o1", OpenAI},
	{"o3", OpenAI},
	{"davinci", OpenAI},
}

// Detect returns the provider that serves the given model, using
// case-insensitive substring matching on well-known family names.
//
// Example:
//
//	provider.Detect("gpt-4o-mini")        // provider.OpenAI
//	provider.Detect("claude-sonnet-4-5")  // provider.Anthropic
//	provider.Detect("gemini-2.0-flash")   // provider.Google
//	provider.Detect("mystery-model")      // provider.Unknown
func Detect(model string) Name {
	lower := strings.ToLower(model)
	for _, family := range modelFamilies {
		if strings.Contains(lower, family.substr) {
			return family.name
		}
	}
	return Unknown
}

// Usage reports token consumption in the OpenAI convention, which the SDK
// treats as canonical. Anthropic and Google counts are converted into it.
type Usage struct {
	// PromptTokens is the number of tokens in the request.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the generated reply.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the sum of prompt and completion tokens.
	TotalTokens int `json:"total_tokens"`
}

// ExtractContent returns the assistant text and token usage from a complete
// (non-streaming) chat response body, regardless of which provider produced
// it. The Anthropic and Google shapes are probed first; anything else is
// decoded as OpenAI, the default wire format.
func ExtractContent(raw []byte) (string, *Usage, error) {
	if content, usage, ok := anthropicContent(raw); ok {
		return content, usage, nil
	}
	if content, usage, ok := googleContent(raw); ok {
		return content, usage, nil
	}
	return openaiContent(raw)
}

// ExtractChunk returns the text delta carried by a single streaming frame.
// It reports ok=false for frames that carry no text, such as role preludes,
// stop events, and usage-only frames. An Anthropic text delta may legitimately
// carry an empty string with ok=true.
func ExtractChunk(raw []byte) (string, bool) {
	if delta, ok := openaiChunk(raw); ok {
		return delta, true
	}
	if delta, ok := anthropicChunk(raw); ok {
		return delta, true
	}
	return googleChunk(raw)
}

// ExtractUsage returns token usage if the frame reports any. All three
// provider conventions are checked; providers usually report usage once, on
// or near the final frame of a stream.
func ExtractUsage(raw []byte) (*Usage, bool) {
	var probe struct {
		Type          string          `json:"type"`
		Usage         json.RawMessage `json:"usage"`
		UsageMetadata json.RawMessage `json:"usageMetadata"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}

	var usage *Usage
	if nonEmptyObject(probe.Usage) {
		if probe.Type == "message_delta" {
			usage = anthropicDeltaUsage(probe.Usage)
		} else {
			var u Usage
			if err := json.Unmarshal(probe.Usage, &u); err == nil {
				usage = &u
			}
		}
	}
	if nonEmptyObject(probe.UsageMetadata) {
		if u := googleUsage(probe.UsageMetadata); u != nil {
			usage = u
		}
	}
	return usage, usage != nil
}

// nonEmptyObject reports whether raw holds a JSON object with at least one
// member.
func nonEmptyObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 2 && trimmed[0] == '{'
}

// nonEmptyArray reports whether raw holds a JSON array with at least one
// element.
func nonEmptyArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 2 && trimmed[0] == '['
}
