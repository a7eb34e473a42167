package provider

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
)

// anthropicContent decodes an Anthropic Messages API response, recognized by
// its "content" field holding a list of blocks. Text blocks are concatenated;
// tool-use and other block types contribute nothing.
func anthropicContent(raw []byte) (string, *Usage, bool) {
	var probe struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", nil, false
	}
	if !nonEmptyArray(probe.Content) {
		return "", nil, false
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage *anthropic.Usage `json:"usage"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", nil, false
	}

	var content string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	var usage *Usage
	if parsed.Usage != nil {
		in := int(parsed.Usage.InputTokens)
		out := int(parsed.Usage.OutputTokens)
		usage = &Usage{
			PromptTokens:     in,
			CompletionTokens: out,
			TotalTokens:      in + out,
		}
	}
	return content, usage, true
}

// anthropicChunk pulls the text delta from an Anthropic streaming event of
// type content_block_delta. Anthropic may emit an empty text delta, which is
// still reported with ok=true so callers can forward it faithfully.
func anthropicChunk(raw []byte) (string, bool) {
	var parsed struct {
		Type  string `json:"type"`
		Delta struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"delta"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false
	}
	if parsed.Type != "content_block_delta" || parsed.Delta.Type != "text_delta" {
		return "", false
	}
	return parsed.Delta.Text, true
}

// anthropicDeltaUsage decodes the usage block attached to a message_delta
// event. Anthropic reports input and output counts; the total is derived.
func anthropicDeltaUsage(raw json.RawMessage) *Usage {
	var u struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &Usage{
		PromptTokens:     u.InputTokens,
		CompletionTokens: u.OutputTokens,
		TotalTokens:      u.InputTokens + u.OutputTokens,
	}
}
