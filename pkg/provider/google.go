package provider

import (
	"encoding/json"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
)

// googleContent decodes a Google generateContent response, recognized by its
// "candidates" list. Text parts of the first candidate are concatenated.
func googleContent(raw []byte) (string, *Usage, bool) {
	var parsed struct {
		Candidates    []*generativelanguage.Candidate                          `json:"candidates"`
		UsageMetadata *generativelanguage.GenerateContentResponseUsageMetadata `json:"usageMetadata"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", nil, false
	}
	if len(parsed.Candidates) == 0 {
		return "", nil, false
	}

	content := candidateText(parsed.Candidates[0])

	var usage *Usage
	if parsed.UsageMetadata != nil {
		usage = &Usage{
			PromptTokens:     int(parsed.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(parsed.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(parsed.UsageMetadata.TotalTokenCount),
		}
	}
	return content, usage, true
}

// googleChunk pulls the text delta from a Google streaming frame, which uses
// the same candidates shape as the non-streaming response.
func googleChunk(raw []byte) (string, bool) {
	var parsed struct {
		Candidates []*generativelanguage.Candidate `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false
	}
	if len(parsed.Candidates) == 0 {
		return "", false
	}
	text := candidateText(parsed.Candidates[0])
	if text == "" {
		return "", false
	}
	return text, true
}

// googleUsage decodes a usageMetadata block.
func googleUsage(raw json.RawMessage) *Usage {
	var um generativelanguage.GenerateContentResponseUsageMetadata
	if err := json.Unmarshal(raw, &um); err != nil {
		return nil
	}
	return &Usage{
		PromptTokens:     int(um.PromptTokenCount),
		CompletionTokens: int(um.CandidatesTokenCount),
		TotalTokens:      int(um.TotalTokenCount),
	}
}

// candidateText joins the text parts of a candidate's content.
func candidateText(candidate *generativelanguage.Candidate) string {
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
