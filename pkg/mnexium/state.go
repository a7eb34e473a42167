package mnexium

import (
	"context"
	"net/http"
)

// StateService is the per-subject key-value scratch store. It holds
// working state an agent needs across turns without it becoming a memory:
// cursors, wizard progress, draft content. Entries can expire via TTL.
//
// The subject travels in the x-subject-id header, not the body.
type StateService struct {
	client *Client
}

// Set writes a value under a key for a subject. The value may be any
// JSON-encodable type. WithTTL makes the entry expire.
func (s *StateService) Set(ctx context.Context, subjectID, key string, value any, opts ...StateSetOption) (*AgentState, error) {
	if subjectID == "" {
		return nil, newValidationError("subject id is required")
	}
	if key == "" {
		return nil, newValidationError("state key is required")
	}
	options := applyStateSetOptions(opts...)
	if options.TTLSeconds < 0 {
		return nil, newValidationError("ttl must not be negative")
	}

	body := struct {
		Value      any `json:"value"`
		TTLSeconds int `json:"ttl_seconds,omitempty"`
	}{value, options.TTLSeconds}

	var state AgentState
	if err := s.client.request(ctx, http.MethodPut, "/state/"+key, nil, body, subjectHeader(subjectID), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Get reads a state entry. A key with no entry, or whose entry has
// expired, yields a NotFoundError.
func (s *StateService) Get(ctx context.Context, subjectID, key string) (*AgentState, error) {
	if subjectID == "" {
		return nil, newValidationError("subject id is required")
	}
	if key == "" {
		return nil, newValidationError("state key is required")
	}
	var state AgentState
	if err := s.client.request(ctx, http.MethodGet, "/state/"+key, nil, nil, subjectHeader(subjectID), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Delete removes a state entry. Deleting a missing key is not an error.
func (s *StateService) Delete(ctx context.Context, subjectID, key string) error {
	if subjectID == "" {
		return newValidationError("subject id is required")
	}
	if key == "" {
		return newValidationError("state key is required")
	}
	return s.client.request(ctx, http.MethodDelete, "/state/"+key, nil, nil, subjectHeader(subjectID), nil)
}

func subjectHeader(subjectID string) http.Header {
	header := http.Header{}
	header.Set("x-subject-id", subjectID)
	return header
}

// SubjectState is a StateService view bound to one subject.
type SubjectState struct {
	service   *StateService
	subjectID string
}

// Set writes a value under a key for this subject.
//
// Example:
//
//	_, err := user.State.Set(ctx, "onboarding_step", 3, mnexium.WithTTL(3600))
func (s *SubjectState) Set(ctx context.Context, key string, value any, opts ...StateSetOption) (*AgentState, error) {
	return s.service.Set(ctx, s.subjectID, key, value, opts...)
}

// Get reads a state entry for this subject.
func (s *SubjectState) Get(ctx context.Context, key string) (*AgentState, error) {
	return s.service.Get(ctx, s.subjectID, key)
}

// Delete removes a state entry for this subject.
func (s *SubjectState) Delete(ctx context.Context, key string) error {
	return s.service.Delete(ctx, s.subjectID, key)
}
