package mnexium

import (
	"encoding/json"
	"fmt"
)

// Toggle is a three-state switch for behavior flags. The zero value
// (ToggleUnset) means "inherit": the decision falls through to the chat's
// settings, then the client defaults, then the built-in defaults.
type Toggle string

const (
	// ToggleUnset leaves the decision to the next configuration layer.
	ToggleUnset Toggle = ""

	// On explicitly enables the behavior.
	On Toggle = "on"

	// Off explicitly disables the behavior.
	Off Toggle = "off"
)

// IsSet reports whether the toggle was explicitly set.
func (t Toggle) IsSet() bool {
	return t != ToggleUnset
}

// Enabled resolves the toggle to a bool, falling back to def when unset.
func (t Toggle) Enabled(def bool) bool {
	if t == ToggleUnset {
		return def
	}
	return t == On
}

// toggleOf converts a plain bool into an explicit Toggle.
func toggleOf(v bool) Toggle {
	if v {
		return On
	}
	return Off
}

// MarshalJSON encodes the wire form: true, false, or null when unset.
func (t Toggle) MarshalJSON() ([]byte, error) {
	switch t {
	case On:
		return []byte("true"), nil
	case Off:
		return []byte("false"), nil
	case ToggleUnset:
		return []byte("null"), nil
	}
	return nil, fmt.Errorf("invalid toggle value %q", string(t))
}

// UnmarshalJSON accepts both the boolean wire form and the string constant
// names, so toggles can be loaded from JSON configuration.
func (t *Toggle) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ToggleUnset
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = toggleOf(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid toggle value %s", string(data))
	}
	switch Toggle(s) {
	case ToggleUnset, On, Off:
		*t = Toggle(s)
		return nil
	}
	return fmt.Errorf("invalid toggle value %q", s)
}

// LearnSetting controls memory extraction for a chat turn. Besides on and
// off it has a third state, LearnForce, which extracts memories even from
// messages the service would normally judge not worth remembering.
type LearnSetting string

const (
	// LearnUnset leaves the decision to the next configuration layer.
	LearnUnset LearnSetting = ""

	// LearnOn extracts memories from messages the service finds memorable.
	LearnOn LearnSetting = "on"

	// LearnOff disables memory extraction.
	LearnOff LearnSetting = "off"

	// LearnForce extracts memories unconditionally.
	LearnForce LearnSetting = "force"
)

// IsSet reports whether the setting was explicitly set.
func (s LearnSetting) IsSet() bool {
	return s != LearnUnset
}

// MarshalJSON encodes the wire form: true, false, or "force".
func (s LearnSetting) MarshalJSON() ([]byte, error) {
	switch s {
	case LearnOn:
		return []byte("true"), nil
	case LearnOff:
		return []byte("false"), nil
	case LearnForce:
		return []byte(`"force"`), nil
	case LearnUnset:
		return []byte("null"), nil
	}
	return nil, fmt.Errorf("invalid learn setting %q", string(s))
}

// UnmarshalJSON accepts the boolean wire form, "force", and the string
// constant names.
func (s *LearnSetting) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = LearnUnset
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*s = LearnOn
		} else {
			*s = LearnOff
		}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid learn setting %s", string(data))
	}
	switch LearnSetting(v) {
	case LearnUnset, LearnOn, LearnOff, LearnForce:
		*s = LearnSetting(v)
		return nil
	}
	return fmt.Errorf("invalid learn setting %q", v)
}

// SummarizeSetting controls conversation summarization. Besides on and off
// it can pick an aggressiveness level, which implies on.
type SummarizeSetting string

const (
	// SummarizeUnset leaves the decision to the next configuration layer.
	SummarizeUnset SummarizeSetting = ""

	// SummarizeOn enables summarization at the server's default level.
	SummarizeOn SummarizeSetting = "on"

	// SummarizeOff disables summarization.
	SummarizeOff SummarizeSetting = "off"

	// SummarizeLight keeps summaries short and detail-light.
	SummarizeLight SummarizeSetting = "light"

	// SummarizeBalanced is the middle ground between detail and brevity.
	SummarizeBalanced SummarizeSetting = "balanced"

	// SummarizeAggressive condenses hard, trading detail for brevity.
	SummarizeAggressive SummarizeSetting = "aggressive"
)

// IsSet reports whether the setting was explicitly set.
func (s SummarizeSetting) IsSet() bool {
	return s != SummarizeUnset
}

// MarshalJSON encodes the wire form: true, false, or the level name.
func (s SummarizeSetting) MarshalJSON() ([]byte, error) {
	switch s {
	case SummarizeOn:
		return []byte("true"), nil
	case SummarizeOff:
		return []byte("false"), nil
	case SummarizeLight, SummarizeBalanced, SummarizeAggressive:
		return []byte(`"` + string(s) + `"`), nil
	case SummarizeUnset:
		return []byte("null"), nil
	}
	return nil, fmt.Errorf("invalid summarize setting %q", string(s))
}

// UnmarshalJSON accepts the boolean wire form, the level names, and the
// string constant names.
func (s *SummarizeSetting) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = SummarizeUnset
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*s = SummarizeOn
		} else {
			*s = SummarizeOff
		}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid summarize setting %s", string(data))
	}
	switch SummarizeSetting(v) {
	case SummarizeUnset, SummarizeOn, SummarizeOff,
		SummarizeLight, SummarizeBalanced, SummarizeAggressive:
		*s = SummarizeSetting(v)
		return nil
	}
	return fmt.Errorf("invalid summarize setting %q", v)
}

// PromptSelection controls system prompt injection: enabled (the project
// default prompt), disabled, or a specific stored prompt chosen by ID.
type PromptSelection string

const (
	// PromptUnset leaves the decision to the next configuration layer.
	PromptUnset PromptSelection = ""

	// PromptEnabled injects the project's default system prompt.
	PromptEnabled PromptSelection = "on"

	// PromptDisabled suppresses system prompt injection.
	PromptDisabled PromptSelection = "off"
)

// PromptID selects the stored system prompt with the given ID.
func PromptID(id string) PromptSelection {
	return PromptSelection(id)
}

// IsSet reports whether the selection was explicitly set.
func (p PromptSelection) IsSet() bool {
	return p != PromptUnset
}

// MarshalJSON encodes the wire form: true, false, or the prompt ID.
func (p PromptSelection) MarshalJSON() ([]byte, error) {
	switch p {
	case PromptEnabled:
		return []byte("true"), nil
	case PromptDisabled:
		return []byte("false"), nil
	case PromptUnset:
		return []byte("null"), nil
	}
	return []byte(`"` + string(p) + `"`), nil
}

// UnmarshalJSON accepts the boolean wire form and prompt ID strings.
func (p *PromptSelection) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PromptUnset
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*p = PromptEnabled
		} else {
			*p = PromptDisabled
		}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid system prompt selection %s", string(data))
	}
	*p = PromptSelection(v)
	return nil
}

// PolicySelection picks the memory policy for a chat turn: a stored policy
// chosen by ID, or PolicyDisabled to turn memory injection off entirely.
type PolicySelection string

const (
	// PolicyUnset leaves the server's default policy in effect.
	PolicyUnset PolicySelection = ""

	// PolicyDisabled turns the memory layer off for the call.
	PolicyDisabled PolicySelection = "off"
)

// PolicyID selects the stored memory policy with the given ID.
func PolicyID(id string) PolicySelection {
	return PolicySelection(id)
}

// IsSet reports whether the selection was explicitly set.
func (p PolicySelection) IsSet() bool {
	return p != PolicyUnset
}

// MarshalJSON encodes the wire form: false or the policy ID.
func (p PolicySelection) MarshalJSON() ([]byte, error) {
	switch p {
	case PolicyDisabled:
		return []byte("false"), nil
	case PolicyUnset:
		return []byte("null"), nil
	}
	return []byte(`"` + string(p) + `"`), nil
}

// UnmarshalJSON accepts false and policy ID strings. A bare true is
// rejected: enabling a policy requires naming one.
func (p *PolicySelection) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PolicyUnset
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			return fmt.Errorf("memory policy needs a policy id, not true")
		}
		*p = PolicyDisabled
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid memory policy selection %s", string(data))
	}
	*p = PolicySelection(v)
	return nil
}

// headerValue returns the x-mnx-memory-policy header form of the selection.
func (p PolicySelection) headerValue() string {
	if p == PolicyDisabled {
		return "false"
	}
	return string(p)
}

// Defaults are client-wide settings applied to every process call that does
// not override them. All fields are optional; unset fields fall through to
// the built-in defaults.
type Defaults struct {
	// Model is the default model, e.g. "gpt-4o-mini".
	Model string `json:"model,omitempty"`

	// SubjectID is the default subject for client-level process calls.
	SubjectID string `json:"subject_id,omitempty"`

	// ChatID is the default conversation thread.
	ChatID string `json:"chat_id,omitempty"`

	// Log controls whether turns are written to chat history.
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

	// Metadata is attached to every logged turn.
	Metadata map[string]any `json:"metadata,omitempty"`

	// MaxTokens caps the completion length. Zero means no explicit cap.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature is the sampling temperature. Nil leaves it to the model.
	Temperature *float32 `json:"temperature,omitempty"`

	// RegenerateKey asks the server to mint a fresh trial key.
	RegenerateKey Toggle `json:"regenerate_key,omitempty"`
}

// clone returns a deep copy so later mutation of the caller's struct cannot
// change the client's behavior.
func (d *Defaults) clone() *Defaults {
	if d == nil {
		return &Defaults{}
	}
	out := *d
	if d.Metadata != nil {
		out.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	if d.Temperature != nil {
		t := *d.Temperature
		out.Temperature = &t
	}
	return &out
}

// ProcessOptions configure a single process call. Unset fields inherit from
// the chat (for chat-scoped calls), then the client defaults, then the
// built-in defaults.
type ProcessOptions struct {
	// Model overrides the model for this call.
	Model string

	// SubjectID sets the subject for client-level process calls. Subject
	// and chat scoped calls always use their own subject.
	SubjectID string

	// ChatID records the turn under an existing conversation thread.
	ChatID string

	// Log controls whether the turn is written to chat history.
	Log Toggle

	// Learn controls memory extraction for this turn.
	Learn LearnSetting

	// Recall controls retrieval of relevant memories into the prompt.
	Recall Toggle

	// Profile controls injection of the subject's profile.
	Profile Toggle

	// History controls injection of prior conversation turns.
	History Toggle

	// Summarize controls conversation summarization.
	Summarize SummarizeSetting

	// SystemPrompt controls system prompt injection.
	SystemPrompt PromptSelection

	// MemoryPolicy selects the memory policy for this turn.
	MemoryPolicy PolicySelection

	// Metadata is attached to the logged turn.
	Metadata map[string]any

	// MaxTokens caps the completion length. Zero means inherit.
	MaxTokens int

	// Temperature is the sampling temperature. Nil means inherit.
	Temperature *float32

	// RegenerateKey asks the server to mint a fresh trial key.
	RegenerateKey Toggle
}

// ProcessOption configures a single process call.
type ProcessOption func(*ProcessOptions)

// WithModel overrides the model for this call.
//
// Example:
//
//	resp, err := client.Process(ctx, "Hello", mnexium.WithModel("claude-sonnet-4-5"))
func WithModel(model string) ProcessOption {
	return func(o *ProcessOptions) {
		o.Model = model
	}
}

// WithSubjectID sets the subject a client-level process call is about.
//
// Example:
//
//	resp, err := client.Process(ctx, "Hello", mnexium.WithSubjectID("user_123"))
func WithSubjectID(subjectID string) ProcessOption {
	return func(o *ProcessOptions) {
		o.SubjectID = subjectID
	}
}

// WithChatID records the turn under an existing conversation thread.
func WithChatID(chatID string) ProcessOption {
	return func(o *ProcessOptions) {
		o.ChatID = chatID
	}
}

// WithLog controls whether the turn is written to chat history.
func WithLog(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		o.Log = toggleOf(enabled)
	}
}

// WithLearn controls memory extraction for this turn.
func WithLearn(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		if enabled {
			o.Learn = LearnOn
		} else {
			o.Learn = LearnOff
		}
	}
}

// WithLearnForce extracts memories from this turn unconditionally, even if
// the service would normally judge it not worth remembering.
func WithLearnForce() ProcessOption {
	return func(o *ProcessOptions) {
		o.Learn = LearnForce
	}
}

// WithRecall controls retrieval of relevant memories into the prompt.
//
// Example:
//
//	resp, err := user.Process(ctx, "What do I like?", mnexium.WithRecall(true))
func WithRecall(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		o.Recall = toggleOf(enabled)
	}
}

// WithProfile controls injection of the subject's profile.
func WithProfile(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		o.Profile = toggleOf(enabled)
	}
}

// WithHistory controls injection of prior conversation turns.
func WithHistory(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		o.History = toggleOf(enabled)
	}
}

// WithSummarize enables or disables conversation summarization at the
// server's default level.
func WithSummarize(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		if enabled {
			o.Summarize = SummarizeOn
		} else {
			o.Summarize = SummarizeOff
		}
	}
}

// WithSummarizeLevel enables summarization at a specific level.
//
// Example:
//
//	resp, err := chat.Process(ctx, msg, mnexium.WithSummarizeLevel(mnexium.SummarizeAggressive))
func WithSummarizeLevel(level SummarizeSetting) ProcessOption {
	return func(o *ProcessOptions) {
		o.Summarize = level
	}
}

// WithSystemPrompt enables or disables system prompt injection.
func WithSystemPrompt(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		if enabled {
			o.SystemPrompt = PromptEnabled
		} else {
			o.SystemPrompt = PromptDisabled
		}
	}
}

// WithSystemPromptID injects a specific stored system prompt.
func WithSystemPromptID(promptID string) ProcessOption {
	return func(o *ProcessOptions) {
		o.SystemPrompt = PromptID(promptID)
	}
}

// WithMemoryPolicy applies a stored memory policy to this turn.
func WithMemoryPolicy(policyID string) ProcessOption {
	return func(o *ProcessOptions) {
		o.MemoryPolicy = PolicyID(policyID)
	}
}

// WithMemoryPolicyDisabled turns the memory layer off for this turn.
func WithMemoryPolicyDisabled() ProcessOption {
	return func(o *ProcessOptions) {
		o.MemoryPolicy = PolicyDisabled
	}
}

// WithMetadata attaches arbitrary key-value pairs to the logged turn.
func WithMetadata(metadata map[string]any) ProcessOption {
	return func(o *ProcessOptions) {
		o.Metadata = metadata
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(maxTokens int) ProcessOption {
	return func(o *ProcessOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float32) ProcessOption {
	return func(o *ProcessOptions) {
		o.Temperature = &temperature
	}
}

// WithRegenerateKey asks the server to mint a fresh trial key on this turn.
func WithRegenerateKey(enabled bool) ProcessOption {
	return func(o *ProcessOptions) {
		o.RegenerateKey = toggleOf(enabled)
	}
}

// applyProcessOptions builds a ProcessOptions from the given options. All
// fields start unset so resolution can tell explicit choices apart from
// inherited ones.
func applyProcessOptions(opts ...ProcessOption) *ProcessOptions {
	options := &ProcessOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ChatOptions configure a conversation thread created with CreateChat.
// Every process call on the chat inherits them unless overridden per call.
type ChatOptions struct {
	// ChatID resumes an existing thread instead of starting a new one.
	ChatID string

	// Model is the thread's default model.
	Model string

	// Log controls whether turns are written to chat history.
	Log Toggle

	// Learn controls memory extraction.
	Learn LearnSetting

	// Recall controls retrieval of relevant memories into the prompt.
	Recall Toggle

	// Profile controls injection of the subject's profile.
	Profile Toggle

	// History controls injection of prior conversation turns.
	History Toggle

	// Summarize controls conversation summarization.
	Summarize SummarizeSetting

	// SystemPrompt controls system prompt injection.
	SystemPrompt PromptSelection

	// Metadata is attached to every logged turn of the thread.
	Metadata map[string]any

	// MaxTokens caps completion length for the thread. Zero means inherit.
	MaxTokens int

	// Temperature is the thread's sampling temperature. Nil means inherit.
	Temperature *float32
}

// ChatOption configures a conversation thread.
type ChatOption func(*ChatOptions)

// WithChatIDForChat resumes an existing conversation thread.
//
// Example:
//
//	chat := user.CreateChat(mnexium.WithChatIDForChat("chat_abc123"))
func WithChatIDForChat(chatID string) ChatOption {
	return func(o *ChatOptions) {
		o.ChatID = chatID
	}
}

// WithModelForChat sets the thread's default model.
func WithModelForChat(model string) ChatOption {
	return func(o *ChatOptions) {
		o.Model = model
	}
}

// WithLogForChat controls whether the thread's turns are written to chat
// history.
func WithLogForChat(enabled bool) ChatOption {
	return func(o *ChatOptions) {
		o.Log = toggleOf(enabled)
	}
}

// WithLearnForChat controls memory extraction for the thread.
func WithLearnForChat(enabled bool) ChatOption {
	return func(o *ChatOptions) {
		if enabled {
			o.Learn = LearnOn
		} else {
			o.Learn = LearnOff
		}
	}
}

// WithLearnForceForChat extracts memories from every turn unconditionally.
func WithLearnForceForChat() ChatOption {
	return func(o *ChatOptions) {
		o.Learn = LearnForce
	}
}

// WithRecallForChat controls memory retrieval for the thread.
func WithRecallForChat(enabled bool) ChatOption {
	return func(o *ChatOptions) {
		o.Recall = toggleOf(enabled)
	}
}

// WithProfileForChat controls profile injection for the thread.
func WithProfileForChat(enabled bool) ChatOption {
	return func(o *ChatOptions) {
		o.Profile = toggleOf(enabled)
	}
}

// WithHistoryForChat controls history injection for the thread.
func WithHistoryForChat(enabled bool) ChatOption {
	return func(o *ChatOptions) {
		o.History = toggleOf(enabled)
	}
}

// WithSummarizeForChat enables or disables summarization for the thread.
func WithSummarizeForChat(enabled bool) ChatOption {
	return func(o *ChatOptions) {
		if enabled {
			o.Summarize = SummarizeOn
		} else {
			o.Summarize = SummarizeOff
		}
	}
}

// WithSummarizeLevelForChat enables summarization at a specific level.
func WithSummarizeLevelForChat(level SummarizeSetting) ChatOption {
	return func(o *ChatOptions) {
		o.Summarize = level
	}
}

// WithSystemPromptForChat enables or disables system prompt injection for
// the thread.
func WithSystemPromptForChat(enabled bool) ChatOption {
	return func(o *ChatOptions) {
		if enabled {
			o.SystemPrompt = PromptEnabled
		} else {
			o.SystemPrompt = PromptDisabled
		}
	}
}

// WithSystemPromptIDForChat injects a specific stored system prompt on
// every turn of the thread.
func WithSystemPromptIDForChat(promptID string) ChatOption {
	return func(o *ChatOptions) {
		o.SystemPrompt = PromptID(promptID)
	}
}

// WithMetadataForChat attaches key-value pairs to every logged turn of the
// thread.
func WithMetadataForChat(metadata map[string]any) ChatOption {
	return func(o *ChatOptions) {
		o.Metadata = metadata
	}
}

// WithMaxTokensForChat caps completion length for the thread.
func WithMaxTokensForChat(maxTokens int) ChatOption {
	return func(o *ChatOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithTemperatureForChat sets the thread's sampling temperature.
func WithTemperatureForChat(temperature float32) ChatOption {
	return func(o *ChatOptions) {
		o.Temperature = &temperature
	}
}

// applyChatOptions builds a ChatOptions from the given options.
func applyChatOptions(opts ...ChatOption) *ChatOptions {
	options := &ChatOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// AddMemoryOptions configure MemoriesService.Add.
type AddMemoryOptions struct {
	// Source records where the memory came from. Defaults to "api" on the
	// server.
	Source string

	// Visibility is VisibilityPrivate or VisibilityShared.
	Visibility string

	// Metadata holds arbitrary key-value pairs.
	Metadata map[string]any

	// NoSupersede stores the memory without replacing similar older ones.
	NoSupersede bool
}

// AddMemoryOption configures MemoriesService.Add.
type AddMemoryOption func(*AddMemoryOptions)

// WithSource records where the memory came from.
func WithSource(source string) AddMemoryOption {
	return func(o *AddMemoryOptions) {
		o.Source = source
	}
}

// WithVisibility sets the memory's visibility.
//
// Example:
//
//	mem, err := user.Memories.Add(ctx, "Prefers dark mode",
//	    mnexium.WithVisibility(mnexium.VisibilityShared))
func WithVisibility(visibility string) AddMemoryOption {
	return func(o *AddMemoryOptions) {
		o.Visibility = visibility
	}
}

// WithMetadataForAdd attaches key-value pairs to the memory.
func WithMetadataForAdd(metadata map[string]any) AddMemoryOption {
	return func(o *AddMemoryOptions) {
		o.Metadata = metadata
	}
}

// WithNoSupersede stores the memory without replacing similar older ones.
func WithNoSupersede() AddMemoryOption {
	return func(o *AddMemoryOptions) {
		o.NoSupersede = true
	}
}

// applyAddMemoryOptions builds an AddMemoryOptions from the given options.
func applyAddMemoryOptions(opts ...AddMemoryOption) *AddMemoryOptions {
	options := &AddMemoryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// SearchOptions configure MemoriesService.Search.
type SearchOptions struct {
	// Limit caps the number of results. Zero uses the server default.
	Limit int

	// MinScore filters out results scoring below the threshold.
	MinScore float64
}

// SearchOption configures MemoriesService.Search.
type SearchOption func(*SearchOptions)

// WithLimit caps the number of search results.
//
// Example:
//
//	memories, err := user.Memories.Search(ctx, "coffee", mnexium.WithLimit(5))
func WithLimit(limit int) SearchOption {
	return func(o *SearchOptions) {
		o.Limit = limit
	}
}

// WithMinScore filters out results scoring below the threshold.
func WithMinScore(minScore float64) SearchOption {
	return func(o *SearchOptions) {
		o.MinScore = minScore
	}
}

// applySearchOptions builds a SearchOptions from the given options.
func applySearchOptions(opts ...SearchOption) *SearchOptions {
	options := &SearchOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ListOptions control pagination for list operations.
type ListOptions struct {
	// Limit caps the number of results. Zero uses the server default.
	Limit int

	// Offset skips the first N results.
	Offset int
}

// ListOption controls pagination for list operations.
type ListOption func(*ListOptions)

// WithLimitForList caps the number of results returned by a list call.
func WithLimitForList(limit int) ListOption {
	return func(o *ListOptions) {
		o.Limit = limit
	}
}

// WithOffset skips the first N results of a list call.
func WithOffset(offset int) ListOption {
	return func(o *ListOptions) {
		o.Offset = offset
	}
}

// applyListOptions builds a ListOptions from the given options.
func applyListOptions(opts ...ListOption) *ListOptions {
	options := &ListOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// UpdateMemoryOptions configure MemoriesService.Update. Only fields that
// were explicitly set are sent.
type UpdateMemoryOptions struct {
	// Text replaces the memory content.
	Text *string

	// Visibility replaces the memory's visibility.
	Visibility *string

	// Metadata replaces the memory's metadata.
	Metadata map[string]any
}

// UpdateMemoryOption configures MemoriesService.Update.
type UpdateMemoryOption func(*UpdateMemoryOptions)

// WithTextForUpdate replaces the memory content.
func WithTextForUpdate(text string) UpdateMemoryOption {
	return func(o *UpdateMemoryOptions) {
		o.Text = &text
	}
}

// WithVisibilityForUpdate replaces the memory's visibility.
func WithVisibilityForUpdate(visibility string) UpdateMemoryOption {
	return func(o *UpdateMemoryOptions) {
		o.Visibility = &visibility
	}
}

// WithMetadataForUpdate replaces the memory's metadata.
func WithMetadataForUpdate(metadata map[string]any) UpdateMemoryOption {
	return func(o *UpdateMemoryOptions) {
		o.Metadata = metadata
	}
}

// applyUpdateMemoryOptions builds an UpdateMemoryOptions from the given
// options.
func applyUpdateMemoryOptions(opts ...UpdateMemoryOption) *UpdateMemoryOptions {
	options := &UpdateMemoryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// RecallsOptions configure MemoriesService.Recalls. At least one filter
// should be set.
type RecallsOptions struct {
	// ChatID lists memories recalled during a specific thread.
	ChatID string

	// MemoryID lists the recall history of a specific memory.
	MemoryID string
}

// RecallsOption configures MemoriesService.Recalls.
type RecallsOption func(*RecallsOptions)

// WithChatIDForRecalls lists memories recalled during a specific thread.
func WithChatIDForRecalls(chatID string) RecallsOption {
	return func(o *RecallsOptions) {
		o.ChatID = chatID
	}
}

// WithMemoryIDForRecalls lists the recall history of a specific memory.
func WithMemoryIDForRecalls(memoryID string) RecallsOption {
	return func(o *RecallsOptions) {
		o.MemoryID = memoryID
	}
}

// applyRecallsOptions builds a RecallsOptions from the given options.
func applyRecallsOptions(opts ...RecallsOption) *RecallsOptions {
	options := &RecallsOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// StateSetOptions configure StateService.Set.
type StateSetOptions struct {
	// TTLSeconds expires the entry after the given number of seconds.
	// Zero stores it without expiry.
	TTLSeconds int
}

// StateSetOption configures StateService.Set.
type StateSetOption func(*StateSetOptions)

// WithTTL expires the state entry after the given number of seconds.
//
// Example:
//
//	_, err := user.State.Set(ctx, "draft", payload, mnexium.WithTTL(3600))
func WithTTL(seconds int) StateSetOption {
	return func(o *StateSetOptions) {
		o.TTLSeconds = seconds
	}
}

// applyStateSetOptions builds a StateSetOptions from the given options.
func applyStateSetOptions(opts ...StateSetOption) *StateSetOptions {
	options := &StateSetOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ClaimSetOptions configure ClaimsService.Set.
type ClaimSetOptions struct {
	// Confidence scores the claim in [0, 1]. Nil uses the server default.
	Confidence *float64

	// Source records how the claim was established, such as "manual".
	Source string
}

// ClaimSetOption configures ClaimsService.Set.
type ClaimSetOption func(*ClaimSetOptions)

// WithConfidence scores the claim.
//
// Example:
//
//	_, err := user.Claims.Set(ctx, "location", "Lisbon", mnexium.WithConfidence(0.9))
func WithConfidence(confidence float64) ClaimSetOption {
	return func(o *ClaimSetOptions) {
		o.Confidence = &confidence
	}
}

// WithClaimSource records how the claim was established.
func WithClaimSource(source string) ClaimSetOption {
	return func(o *ClaimSetOptions) {
		o.Source = source
	}
}

// applyClaimSetOptions builds a ClaimSetOptions from the given options.
func applyClaimSetOptions(opts ...ClaimSetOption) *ClaimSetOptions {
	options := &ClaimSetOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// PromptCreateOptions configure PromptsService.Create.
type PromptCreateOptions struct {
	// IsDefault makes the new prompt the project default.
	IsDefault bool
}

// PromptCreateOption configures PromptsService.Create.
type PromptCreateOption func(*PromptCreateOptions)

// WithPromptDefault makes the new prompt the project default.
func WithPromptDefault(isDefault bool) PromptCreateOption {
	return func(o *PromptCreateOptions) {
		o.IsDefault = isDefault
	}
}

// applyPromptCreateOptions builds a PromptCreateOptions from the given
// options.
func applyPromptCreateOptions(opts ...PromptCreateOption) *PromptCreateOptions {
	options := &PromptCreateOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// PromptUpdateOptions configure PromptsService.Update. Only fields that
// were explicitly set are sent.
type PromptUpdateOptions struct {
	// Name replaces the prompt name.
	Name *string

	// PromptText replaces the prompt content.
	PromptText *string

	// IsDefault changes whether the prompt is the project default.
	IsDefault *bool
}

// PromptUpdateOption configures PromptsService.Update.
type PromptUpdateOption func(*PromptUpdateOptions)

// WithPromptName replaces the prompt name.
func WithPromptName(name string) PromptUpdateOption {
	return func(o *PromptUpdateOptions) {
		o.Name = &name
	}
}

// WithPromptText replaces the prompt content.
func WithPromptText(text string) PromptUpdateOption {
	return func(o *PromptUpdateOptions) {
		o.PromptText = &text
	}
}

// WithPromptIsDefault changes whether the prompt is the project default.
func WithPromptIsDefault(isDefault bool) PromptUpdateOption {
	return func(o *PromptUpdateOptions) {
		o.IsDefault = &isDefault
	}
}

// applyPromptUpdateOptions builds a PromptUpdateOptions from the given
// options.
func applyPromptUpdateOptions(opts ...PromptUpdateOption) *PromptUpdateOptions {
	options := &PromptUpdateOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ResolvePromptOptions configure PromptsService.Resolve.
type ResolvePromptOptions struct {
	// SubjectID resolves prompts for a specific subject.
	SubjectID string

	// ChatID resolves prompts for a specific thread.
	ChatID string

	// Combined asks for a single merged prompt text.
	Combined *bool
}

// ResolvePromptOption configures PromptsService.Resolve.
type ResolvePromptOption func(*ResolvePromptOptions)

// WithResolveSubjectID resolves prompts for a specific subject.
func WithResolveSubjectID(subjectID string) ResolvePromptOption {
	return func(o *ResolvePromptOptions) {
		o.SubjectID = subjectID
	}
}

// WithResolveChatID resolves prompts for a specific thread.
func WithResolveChatID(chatID string) ResolvePromptOption {
	return func(o *ResolvePromptOptions) {
		o.ChatID = chatID
	}
}

// WithResolveCombined asks for a single merged prompt text.
func WithResolveCombined(combined bool) ResolvePromptOption {
	return func(o *ResolvePromptOptions) {
		o.Combined = &combined
	}
}

// applyResolvePromptOptions builds a ResolvePromptOptions from the given
// options.
func applyResolvePromptOptions(opts ...ResolvePromptOption) *ResolvePromptOptions {
	options := &ResolvePromptOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// SchemaOptions configure RecordsService.DefineSchema.
type SchemaOptions struct {
	// DisplayName is the human-readable schema name.
	DisplayName string

	// Description explains what the record type holds.
	Description string
}

// SchemaOption configures RecordsService.DefineSchema.
type SchemaOption func(*SchemaOptions)

// WithSchemaDisplayName sets the human-readable schema name.
func WithSchemaDisplayName(displayName string) SchemaOption {
	return func(o *SchemaOptions) {
		o.DisplayName = displayName
	}
}

// WithSchemaDescription explains what the record type holds.
func WithSchemaDescription(description string) SchemaOption {
	return func(o *SchemaOptions) {
		o.Description = description
	}
}

// applySchemaOptions builds a SchemaOptions from the given options.
func applySchemaOptions(opts ...SchemaOption) *SchemaOptions {
	options := &SchemaOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// RecordQueryOptions configure RecordsService.Query.
type RecordQueryOptions struct {
	// Where filters records by field values.
	Where map[string]any

	// OrderBy sorts results by a field; prefix with "-" for descending.
	OrderBy string

	// Limit caps the number of results. Zero uses the server default.
	Limit int
}

// RecordQueryOption configures RecordsService.Query.
type RecordQueryOption func(*RecordQueryOptions)

// WithWhere filters records by field values.
//
// Example:
//
//	rows, err := client.Records.Query(ctx, "expense",
//	    mnexium.WithWhere(map[string]any{"category": "travel"}),
//	    mnexium.WithOrderBy("-amount"))
func WithWhere(where map[string]any) RecordQueryOption {
	return func(o *RecordQueryOptions) {
		o.Where = where
	}
}

// WithOrderBy sorts results by a field; prefix with "-" for descending.
func WithOrderBy(orderBy string) RecordQueryOption {
	return func(o *RecordQueryOptions) {
		o.OrderBy = orderBy
	}
}

// WithQueryLimit caps the number of query results.
func WithQueryLimit(limit int) RecordQueryOption {
	return func(o *RecordQueryOptions) {
		o.Limit = limit
	}
}

// applyRecordQueryOptions builds a RecordQueryOptions from the given
// options.
func applyRecordQueryOptions(opts ...RecordQueryOption) *RecordQueryOptions {
	options := &RecordQueryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
