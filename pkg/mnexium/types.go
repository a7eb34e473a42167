// Package mnexium provides the official Go client for the Mnexium API,
// a persistent memory layer for AI agents.
//
// The client proxies chat traffic to an LLM provider while the service
// records, recalls, and injects long-term memory about each subject. It also
// exposes the service's resource APIs: memories, claims, profiles, agent
// state, chat history, system prompts, and structured records.
package mnexium

import (
	"encoding/json"

	"github.com/mnexium/mnexium-go/pkg/provider"
)

// Usage reports token consumption for a chat turn, normalized to the OpenAI
// convention regardless of which provider served the request.
type Usage = provider.Usage

// Memory visibility values.
const (
	// VisibilityPrivate memories are only returned for their own subject.
	VisibilityPrivate = "private"

	// VisibilityShared memories can be recalled across subjects in the
	// same project.
	VisibilityShared = "shared"
)

// Message roles used in chat completion requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Memory is a single remembered fact about a subject.
type Memory struct {
	// ID is the unique identifier of the memory.
	ID string `json:"id"`

	// ProjectID is the project the memory belongs to.
	ProjectID string `json:"project_id,omitempty"`

	// SubjectID is the subject the memory is about.
	SubjectID string `json:"subject_id,omitempty"`

	// Text is the memory content.
	Text string `json:"text"`

	// Source records where the memory came from, such as "chat" or "api".
	Source string `json:"source,omitempty"`

	// Visibility is either VisibilityPrivate or VisibilityShared.
	Visibility string `json:"visibility,omitempty"`

	// Metadata holds arbitrary key-value pairs attached to the memory.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is the creation timestamp as reported by the server.
	CreatedAt string `json:"created_at,omitempty"`

	// UpdatedAt is the last modification timestamp.
	UpdatedAt string `json:"updated_at,omitempty"`

	// IsDeleted marks soft-deleted memories.
	IsDeleted bool `json:"is_deleted,omitempty"`

	// SupersededBy is the ID of the memory that replaced this one, if any.
	SupersededBy string `json:"superseded_by,omitempty"`

	// Score is the relevance score attached to search results.
	Score float64 `json:"score,omitempty"`
}

// Claim is a structured fact about a subject: a slot (predicate) with a
// value and a confidence.
type Claim struct {
	// ID is the unique identifier of the claim.
	ID string `json:"id"`

	// ProjectID is the project the claim belongs to.
	ProjectID string `json:"project_id,omitempty"`

	// SubjectID is the subject the claim is about.
	SubjectID string `json:"subject_id,omitempty"`

	// Slot is the predicate, such as "location" or "favorite_color".
	Slot string `json:"slot"`

	// Value is the claimed value.
	Value any `json:"value"`

	// Confidence is the confidence score in [0, 1].
	Confidence float64 `json:"confidence,omitempty"`

	// Source records how the claim was established, such as "manual" or
	// "extracted".
	Source string `json:"source,omitempty"`

	// SourceMemoryID links the claim to the memory it was extracted from.
	SourceMemoryID string `json:"source_memory_id,omitempty"`

	// CreatedAt is the creation timestamp.
	CreatedAt string `json:"created_at,omitempty"`

	// UpdatedAt is the last modification timestamp.
	UpdatedAt string `json:"updated_at,omitempty"`

	// RetractedAt is set once the claim has been retracted.
	RetractedAt string `json:"retracted_at,omitempty"`
}

// Profile is the aggregated view of a subject.
type Profile struct {
	// SubjectID identifies the subject.
	SubjectID string `json:"subject_id"`

	// ProjectID is the project the profile belongs to.
	ProjectID string `json:"project_id,omitempty"`

	// Claims maps slots to their current values.
	Claims map[string]any `json:"claims,omitempty"`

	// MemoryCount is the number of memories stored for the subject.
	MemoryCount int `json:"memory_count,omitempty"`

	// LastActive is the timestamp of the subject's most recent activity.
	LastActive string `json:"last_active,omitempty"`
}

// ProfileFieldUpdate sets one profile field to a new value.
type ProfileFieldUpdate struct {
	// FieldKey is the profile field to update.
	FieldKey string `json:"field_key"`

	// Value is the new value.
	Value any `json:"value"`
}

// AgentState is a key-value entry in a subject's scratch store, optionally
// expiring after a TTL.
type AgentState struct {
	// Key identifies the entry within the subject's store.
	Key string `json:"key"`

	// Value is the stored value.
	Value any `json:"value"`

	// SubjectID is the subject the entry belongs to.
	SubjectID string `json:"subject_id,omitempty"`

	// TTLSeconds is the configured time-to-live, zero for no expiry.
	TTLSeconds int `json:"ttl_seconds,omitempty"`

	// CreatedAt is the creation timestamp.
	CreatedAt string `json:"created_at,omitempty"`

	// UpdatedAt is the last modification timestamp.
	UpdatedAt string `json:"updated_at,omitempty"`

	// ExpiresAt is the computed expiry timestamp, empty for no expiry.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// SystemPrompt is a stored system prompt that the service can inject into
// chat turns.
type SystemPrompt struct {
	// ID is the unique identifier of the prompt.
	ID string `json:"id"`

	// ProjectID is the project the prompt belongs to.
	ProjectID string `json:"project_id,omitempty"`

	// Name is the human-readable prompt name.
	Name string `json:"name"`

	// PromptText is the prompt content.
	PromptText string `json:"prompt_text"`

	// IsDefault marks the project's default prompt.
	IsDefault bool `json:"is_default,omitempty"`

	// CreatedAt is the creation timestamp.
	CreatedAt string `json:"created_at,omitempty"`

	// UpdatedAt is the last modification timestamp.
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ChatHistoryItem summarizes one stored conversation thread.
type ChatHistoryItem struct {
	// ChatID identifies the thread.
	ChatID string `json:"chat_id"`

	// SubjectID is the subject the thread belongs to.
	SubjectID string `json:"subject_id,omitempty"`

	// CreatedAt is the thread creation timestamp.
	CreatedAt string `json:"created_at,omitempty"`

	// MessageCount is the number of messages in the thread.
	MessageCount int `json:"message_count,omitempty"`

	// LastMessageAt is the timestamp of the most recent message.
	LastMessageAt string `json:"last_message_at,omitempty"`
}

// HistoryMessage is one stored message from a conversation thread.
type HistoryMessage struct {
	// Role is the message author: "user" or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// CreatedAt is the message timestamp.
	CreatedAt string `json:"created_at,omitempty"`
}

// RecordFieldDef declares one field of a record schema.
type RecordFieldDef struct {
	// Type is the field type: "string", "number", "boolean", or a reference
	// such as "ref:account".
	Type string `json:"type"`

	// Required marks fields that must be present on insert.
	Required bool `json:"required,omitempty"`
}

// RecordSchema describes a structured record type.
type RecordSchema struct {
	// TypeName is the schema identifier used in record operations.
	TypeName string `json:"type_name"`

	// DisplayName is the human-readable schema name.
	DisplayName string `json:"display_name,omitempty"`

	// Description explains what the record type holds.
	Description string `json:"description,omitempty"`

	// Fields maps field names to their definitions.
	Fields map[string]RecordFieldDef `json:"fields,omitempty"`

	// CreatedAt is the schema creation timestamp.
	CreatedAt string `json:"created_at,omitempty"`
}

// Record is one structured record instance.
type Record struct {
	// ID is the unique identifier of the record.
	ID string `json:"id"`

	// TypeName is the schema the record conforms to.
	TypeName string `json:"type_name,omitempty"`

	// Data holds the record's field values.
	Data map[string]any `json:"data"`

	// Similarity is the match score attached to search results.
	Similarity float64 `json:"similarity,omitempty"`

	// CreatedAt is the creation timestamp.
	CreatedAt string `json:"created_at,omitempty"`

	// UpdatedAt is the last modification timestamp.
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ChatMessage is one message in a chat completion request.
type ChatMessage struct {
	// Role is the message author: RoleSystem, RoleUser, RoleAssistant, or
	// RoleTool.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Name optionally identifies the participant.
	Name string `json:"name,omitempty"`

	// ToolCallID links a RoleTool message to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// MnxResponseData is the memory-layer block attached to chat completion
// responses.
type MnxResponseData struct {
	// ChatID is the conversation thread the turn was recorded under.
	ChatID string `json:"chat_id,omitempty"`

	// SubjectID is the subject the turn was processed for.
	SubjectID string `json:"subject_id,omitempty"`

	// ProvisionedKey is a trial API key minted by the server for clients
	// that connected without one.
	ProvisionedKey string `json:"provisioned_key,omitempty"`

	// ClaimURL is where a provisioned trial key can be claimed.
	ClaimURL string `json:"claim_url,omitempty"`
}

// ProcessResponse is the result of a non-streaming process call.
type ProcessResponse struct {
	// Content is the assistant's reply text.
	Content string

	// ChatID is the conversation thread the turn was recorded under.
	ChatID string

	// SubjectID is the subject the turn was processed for.
	SubjectID string

	// Model is the model that produced the reply.
	Model string

	// Usage reports token consumption, when the provider supplied it.
	Usage *Usage

	// ProvisionedKey is set when the server minted a trial API key for
	// this client.
	ProvisionedKey string

	// ClaimURL is where a provisioned trial key can be claimed.
	ClaimURL string

	// Raw is the unmodified response body.
	Raw json.RawMessage
}

// StreamChunk is one text delta from a streaming response.
type StreamChunk struct {
	// Content is the text delta.
	Content string

	// Raw is the frame payload the delta was extracted from.
	Raw json.RawMessage
}

// Well-known event types delivered by EventStream. Any other type string is
// passed through as the server sent it.
const (
	// EventConnected is the first event on a successfully opened stream.
	EventConnected = "connected"

	// EventHeartbeat is a periodic keep-alive.
	EventHeartbeat = "heartbeat"

	// EventUnknown marks events whose frames carried no event type.
	EventUnknown = "unknown"
)

// MemoryEvent is one real-time event from a memory event subscription.
type MemoryEvent struct {
	// Type is the event type, such as EventConnected or EventHeartbeat.
	Type string `json:"type"`

	// Data is the event payload.
	Data map[string]any `json:"data"`
}

// TrialInfo describes the trial key state of a client that connected
// without an API key.
type TrialInfo struct {
	// Key is the server-provisioned trial key, empty if none was minted.
	Key string `json:"key,omitempty"`

	// ClaimURL is where the trial key can be claimed into an account.
	ClaimURL string `json:"claim_url"`
}
