package mnexium

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ChatsService lists and reads one subject's stored conversation threads.
type ChatsService struct {
	client    *Client
	subjectID string
}

// List returns the subject's threads, most recently active first.
func (s *ChatsService) List(ctx context.Context, opts ...ListOption) ([]*ChatHistoryItem, error) {
	options := applyListOptions(opts...)

	params := url.Values{}
	params.Set("subject_id", s.subjectID)
	if options.Limit > 0 {
		params.Set("limit", strconv.Itoa(options.Limit))
	}
	if options.Offset > 0 {
		params.Set("offset", strconv.Itoa(options.Offset))
	}

	var envelope struct {
		Chats []*ChatHistoryItem `json:"chats"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/chat/history/list", params, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Chats, nil
}

// Read returns the messages of one thread in chronological order.
func (s *ChatsService) Read(ctx context.Context, chatID string) ([]*HistoryMessage, error) {
	if chatID == "" {
		return nil, newValidationError("chat id is required")
	}
	params := url.Values{}
	params.Set("subject_id", s.subjectID)
	params.Set("chat_id", chatID)

	var envelope struct {
		Data []*HistoryMessage `json:"data"`
	}
	if err := s.client.request(ctx, http.MethodGet, "/chat/history/read", params, nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Delete removes a thread and its messages.
func (s *ChatsService) Delete(ctx context.Context, chatID string) error {
	if chatID == "" {
		return newValidationError("chat id is required")
	}
	params := url.Values{}
	params.Set("subject_id", s.subjectID)
	params.Set("chat_id", chatID)
	return s.client.request(ctx, http.MethodDelete, "/chat/history/delete", params, nil, nil, nil)
}
