package mnexium

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// MemoriesService manages stored memories. Use Client.Memories for
// explicit-subject calls, or Subject.Memories for a view bound to one
// subject.
type MemoriesService struct {
	client *Client
}

// Search finds memories relevant to a query using semantic search. Results
// carry their relevance in Memory.Score.
//
// Example:
//
//	memories, err := client.Memories.Search(ctx, "user_123", "dietary preferences",
//	    mnexium.WithLimit(5), mnexium.WithMinScore(70))
func (s *MemoriesService) Search(ctx context.Context, subjectID, query string, opts ...SearchOption) ([]*Memory, error) {
	if subjectID == "" {
		return nil, newValidationError("subject id is required")
	}
	if query == "" {
		return nil, newValidationError("search query is required")
	}
	options := applySearchOptions(opts...)
	if options.Limit < 0 {
		return nil, newValidationError("limit must not be negative")
	}

	params := url.Values{}
	params.Set("subject_id", subjectID)
	params.Set("q", query)
	if options.Limit > 0 {
		params.Set("limit", strconv.Itoa(options.Limit))
	}
	if options.MinScore > 0 {
		params.Set("min_score", strconv.FormatFloat(options.MinScore, 'f', -1, 64))
	}

	var envelope struct {
		Data []*Memory `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/memories/search", params, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Add stores a memory directly, bypassing chat-based extraction. Unless
// WithNoSupersede is given, the server may retire older memories that the
// new one contradicts or refines.
func (s *MemoriesService) Add(ctx context.Context, subjectID, text string, opts ...AddMemoryOption) (*Memory, error) {
	if subjectID == "" {
		return nil, newValidationError("subject id is required")
	}
	if text == "" {
		return nil, newValidationError("memory text is required")
	}
	options := applyAddMemoryOptions(opts...)

	body := struct {
		SubjectID   string         `json:"subject_id"`
		Text        string         `json:"text"`
		Source      string         `json:"source,omitempty"`
		Visibility  string         `json:"visibility,omitempty"`
		Metadata    map[string]any `json:"metadata,omitempty"`
		NoSupersede bool           `json:"no_supersede,omitempty"`
	}{subjectID, text, options.Source, options.Visibility, options.Metadata, options.NoSupersede}

	var memory Memory
	if err := s.client.request(ctx, http.MethodPost, "/memories", nil, body, nil, &memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

// List returns a subject's active memories, newest first.
func (s *MemoriesService) List(ctx context.Context, subjectID string, opts ...ListOption) ([]*Memory, error) {
	if subjectID == "" {
		return nil, newValidationError("subject id is required")
	}
	options := applyListOptions(opts...)

	params := url.Values{}
	params.Set("subject_id", subjectID)
	if options.Limit > 0 {
		params.Set("limit", strconv.Itoa(options.Limit))
	}
	if options.Offset > 0 {
		params.Set("offset", strconv.Itoa(options.Offset))
	}

	var envelope struct {
		Data []*Memory `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/memories", params, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Get retrieves a single memory by ID.
func (s *MemoriesService) Get(ctx context.Context, memoryID string) (*Memory, error) {
	if memoryID == "" {
		return nil, newValidationError("memory id is required")
	}
	var memory Memory
	if err := s.client.request(ctx, http.MethodGet, "/memories/"+memoryID, nil, nil, nil, &memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

// Update modifies a memory. Only the fields selected through options are
// sent; everything else stays as it was.
func (s *MemoriesService) Update(ctx context.Context, memoryID string, opts ...UpdateMemoryOption) (*Memory, error) {
	if memoryID == "" {
		return nil, newValidationError("memory id is required")
	}
	options := applyUpdateMemoryOptions(opts...)

	body := struct {
		Text       *string        `json:"text,omitempty"`
		Visibility *string        `json:"visibility,omitempty"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{options.Text, options.Visibility, options.Metadata}

	var memory Memory
	if err := s.client.request(ctx, http.MethodPatch, "/memories/"+memoryID, nil, body, nil, &memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

// Delete removes a memory.
func (s *MemoriesService) Delete(ctx context.Context, memoryID string) error {
	if memoryID == "" {
		return newValidationError("memory id is required")
	}
	return s.client.request(ctx, http.MethodDelete, "/memories/"+memoryID, nil, nil, nil, nil)
}

// Superseded lists a subject's memories that newer information has
// retired. They are kept for audit and can be brought back with Restore.
func (s *MemoriesService) Superseded(ctx context.Context, subjectID string, opts ...ListOption) ([]*Memory, error) {
	if subjectID == "" {
		return nil, newValidationError("subject id is required")
	}
	options := applyListOptions(opts...)

	params := url.Values{}
	params.Set("subject_id", subjectID)
	if options.Limit > 0 {
		params.Set("limit", strconv.Itoa(options.Limit))
	}
	if options.Offset > 0 {
		params.Set("offset", strconv.Itoa(options.Offset))
	}

	var envelope struct {
		Data []*Memory `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/memories/superseded", params, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Restore brings a superseded memory back into the active set.
func (s *MemoriesService) Restore(ctx context.Context, memoryID string) (*Memory, error) {
	if memoryID == "" {
		return nil, newValidationError("memory id is required")
	}
	var memory Memory
	if err := s.client.request(ctx, http.MethodPost, "/memories/"+memoryID+"/restore", nil, nil, nil, &memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

// Recalls lists which memories were recalled into chat turns, filtered by
// thread or by memory.
func (s *MemoriesService) Recalls(ctx context.Context, opts ...RecallsOption) ([]*Memory, error) {
	options := applyRecallsOptions(opts...)
	if options.ChatID == "" && options.MemoryID == "" {
		return nil, newValidationError("recalls needs a chat id or a memory id filter")
	}

	params := url.Values{}
	if options.ChatID != "" {
		params.Set("chat_id", options.ChatID)
	}
	if options.MemoryID != "" {
		params.Set("memory_id", options.MemoryID)
	}

	var envelope struct {
		Data []*Memory `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/memories/recalls", params, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Subscribe opens a real-time event stream of a subject's memory activity.
// The returned stream delivers EventConnected first, then memory events
// and heartbeats as they happen. Close it when done.
func (s *MemoriesService) Subscribe(ctx context.Context, subjectID string) (*EventStream, error) {
	if subjectID == "" {
		return nil, newValidationError("subject id is required")
	}
	params := url.Values{}
	params.Set("subject_id", subjectID)

	resp, err := s.client.requestStream(ctx, http.MethodGet, "/events/memories", params, nil, nil)
	if err != nil {
		return nil, err
	}
	s.client.logger.Debug("event stream opened", "subject_id", subjectID)
	return newEventStream(resp), nil
}

// SubjectMemories is a MemoriesService view bound to one subject.
type SubjectMemories struct {
	service   *MemoriesService
	subjectID string
}

// Search finds this subject's memories relevant to a query.
func (m *SubjectMemories) Search(ctx context.Context, query string, opts ...SearchOption) ([]*Memory, error) {
	return m.service.Search(ctx, m.subjectID, query, opts...)
}

// Add stores a memory for this subject.
func (m *SubjectMemories) Add(ctx context.Context, text string, opts ...AddMemoryOption) (*Memory, error) {
	return m.service.Add(ctx, m.subjectID, text, opts...)
}

// List returns this subject's active memories.
func (m *SubjectMemories) List(ctx context.Context, opts ...ListOption) ([]*Memory, error) {
	return m.service.List(ctx, m.subjectID, opts...)
}

// Get retrieves a single memory by ID.
func (m *SubjectMemories) Get(ctx context.Context, memoryID string) (*Memory, error) {
	return m.service.Get(ctx, memoryID)
}

// Update modifies a memory.
func (m *SubjectMemories) Update(ctx context.Context, memoryID string, opts ...UpdateMemoryOption) (*Memory, error) {
	return m.service.Update(ctx, memoryID, opts...)
}

// Delete removes a memory.
func (m *SubjectMemories) Delete(ctx context.Context, memoryID string) error {
	return m.service.Delete(ctx, memoryID)
}

// Superseded lists this subject's retired memories.
func (m *SubjectMemories) Superseded(ctx context.Context, opts ...ListOption) ([]*Memory, error) {
	return m.service.Superseded(ctx, m.subjectID, opts...)
}

// Restore brings a superseded memory back into the active set.
func (m *SubjectMemories) Restore(ctx context.Context, memoryID string) (*Memory, error) {
	return m.service.Restore(ctx, memoryID)
}

// Recalls lists which memories were recalled into chat turns.
func (m *SubjectMemories) Recalls(ctx context.Context, opts ...RecallsOption) ([]*Memory, error) {
	return m.service.Recalls(ctx, opts...)
}

// Subscribe opens a real-time event stream of this subject's memory
// activity.
func (m *SubjectMemories) Subscribe(ctx context.Context) (*EventStream, error) {
	return m.service.Subscribe(ctx, m.subjectID)
}
