package mnexium

import (
	"context"
	"net/http"
)

// ClaimsService manages structured claims about one subject. A claim binds
// a predicate ("dietary.preference") to a value, and the server keeps at
// most one active claim per slot: setting a new value retires the old one.
type ClaimsService struct {
	client    *Client
	subjectID string
}

// Set records a claim about the subject. The value may be any
// JSON-encodable type.
//
// Example:
//
//	claim, err := user.Claims.Set(ctx, "dietary.preference", "vegetarian",
//	    mnexium.WithConfidence(0.95), mnexium.WithClaimSource("onboarding"))
func (s *ClaimsService) Set(ctx context.Context, predicate string, value any, opts ...ClaimSetOption) (*Claim, error) {
	if predicate == "" {
		return nil, newValidationError("claim predicate is required")
	}
	options := applyClaimSetOptions(opts...)

	body := struct {
		SubjectID   string   `json:"subject_id"`
		Predicate   string   `json:"predicate"`
		ObjectValue any      `json:"object_value"`
		Confidence  *float64 `json:"confidence,omitempty"`
		SourceType  string   `json:"source_type,omitempty"`
	}{s.subjectID, predicate, value, options.Confidence, options.Source}

	var claim Claim
	if err := s.client.request(ctx, http.MethodPost, "/claims", nil, body, nil, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Get returns the subject's active claim for one slot. A slot with no
// active claim yields a NotFoundError.
func (s *ClaimsService) Get(ctx context.Context, slot string) (*Claim, error) {
	if slot == "" {
		return nil, newValidationError("claim slot is required")
	}
	var claim Claim
	path := "/claims/subject/" + s.subjectID + "/slot/" + slot
	if err := s.client.request(ctx, http.MethodGet, path, nil, nil, nil, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Slots returns every slot that has an active claim, keyed by predicate.
func (s *ClaimsService) Slots(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	path := "/claims/subject/" + s.subjectID + "/slots"
	if err := s.client.request(ctx, http.MethodGet, path, nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Truth returns the subject's consolidated truth view: for each slot, the
// value the server currently believes, after conflict resolution.
func (s *ClaimsService) Truth(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	path := "/claims/subject/" + s.subjectID + "/truth"
	if err := s.client.request(ctx, http.MethodGet, path, nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns the subject's full claim history, including retired and
// superseded claims.
func (s *ClaimsService) History(ctx context.Context) ([]*Claim, error) {
	var envelope struct {
		Data   []*Claim `json:"data"`
		Claims []*Claim `json:"claims"`
	}
	path := "/claims/subject/" + s.subjectID + "/history"
	if err := s.client.request(ctx, http.MethodGet, path, nil, nil, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return envelope.Claims, nil
}

// Retract withdraws a claim without recording a replacement.
func (s *ClaimsService) Retract(ctx context.Context, claimID string) error {
	if claimID == "" {
		return newValidationError("claim id is required")
	}
	return s.client.request(ctx, http.MethodPost, "/claims/"+claimID+"/retract", nil, nil, nil, nil)
}
