package mnexium

import "context"

// Subject is a client view bound to one subject: the person, agent, or
// entity the service remembers things about. Operations on the bound
// services all apply to this subject.
type Subject struct {
	// ID is the subject identifier.
	ID string

	client *Client

	// Memories manages this subject's memories.
	Memories *SubjectMemories

	// State is this subject's key-value store.
	State *SubjectState

	// Claims manages structured facts about this subject.
	Claims *ClaimsService

	// Profile is this subject's aggregated profile.
	Profile *ProfileService

	// Chats lists and reads this subject's conversation threads.
	Chats *ChatsService
}

// Process runs one memory-enhanced chat turn for this subject. Without a
// thread the turn is ephemeral: it runs with the subject's memory but is
// not attached to a conversation unless WithChatID says otherwise.
//
// Example:
//
//	user := client.Subject("user_123")
//	resp, err := user.Process(ctx, "What do you remember about me?",
//	    mnexium.WithRecall(true))
func (s *Subject) Process(ctx context.Context, content string, opts ...ProcessOption) (*ProcessResponse, error) {
	call := applyProcessOptions(opts...)
	call.SubjectID = s.ID
	return s.client.process(ctx, content, call, nil)
}

// ProcessStream is the streaming variant of Process.
func (s *Subject) ProcessStream(ctx context.Context, content string, opts ...ProcessOption) (*StreamResponse, error) {
	call := applyProcessOptions(opts...)
	call.SubjectID = s.ID
	return s.client.processStream(ctx, content, call, nil)
}

// CreateChat starts a conversation thread for this subject. The thread's
// options become defaults for every turn processed through it.
//
// Example:
//
//	chat := user.CreateChat(
//	    mnexium.WithModelForChat("gpt-4o"),
//	    mnexium.WithRecallForChat(true))
//	resp, err := chat.Process(ctx, "Where did I say I live?")
func (s *Subject) CreateChat(opts ...ChatOption) *Chat {
	options := applyChatOptions(opts...)
	return &Chat{
		client:    s.client,
		subjectID: s.ID,
		options:   options,
		id:        options.ChatID,
	}
}
