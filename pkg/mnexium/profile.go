package mnexium

import (
	"context"
	"net/http"
	"net/url"
)

// ProfileService reads and edits one subject's profile, the structured
// document the server distills from that subject's memories and claims.
type ProfileService struct {
	client    *Client
	subjectID string
}

// Get returns the subject's current profile. A subject the server has not
// built a profile for yet yields a NotFoundError.
func (s *ProfileService) Get(ctx context.Context) (*Profile, error) {
	params := url.Values{}
	params.Set("subject_id", s.subjectID)

	var profile Profile
	if err := s.client.request(ctx, http.MethodGet, "/profiles", params, nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update applies manual field edits to the subject's profile. Edited
// fields are pinned: later automatic distillation will not overwrite them.
//
// Example:
//
//	profile, err := user.Profile.Update(ctx,
//	    mnexium.ProfileFieldUpdate{FieldKey: "timezone", Value: "Europe/Lisbon"})
func (s *ProfileService) Update(ctx context.Context, updates ...ProfileFieldUpdate) (*Profile, error) {
	if len(updates) == 0 {
		return nil, newValidationError("profile update needs at least one field")
	}
	for _, update := range updates {
		if update.FieldKey == "" {
			return nil, newValidationError("profile field key is required")
		}
	}

	body := struct {
		SubjectID string               `json:"subject_id"`
		Updates   []ProfileFieldUpdate `json:"updates"`
	}{s.subjectID, updates}

	var profile Profile
	if err := s.client.request(ctx, http.MethodPatch, "/profiles", nil, body, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteField removes one field from the subject's profile.
func (s *ProfileService) DeleteField(ctx context.Context, fieldKey string) error {
	if fieldKey == "" {
		return newValidationError("profile field key is required")
	}
	body := struct {
		SubjectID string `json:"subject_id"`
		FieldKey  string `json:"field_key"`
	}{s.subjectID, fieldKey}
	return s.client.request(ctx, http.MethodDelete, "/profiles", nil, body, nil, nil)
}
