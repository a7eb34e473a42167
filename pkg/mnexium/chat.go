package mnexium

import (
	"context"
	"sync"
)

// Chat is a conversation thread for one subject. Its options apply to every
// turn unless overridden per call, and successive turns share history.
//
// The thread ID is assigned by the server when the first turn is processed;
// until then ID returns an empty string. Use WithChatIDForChat to resume an
// existing thread instead.
type Chat struct {
	client    *Client
	subjectID string
	options   *ChatOptions

	mu sync.Mutex
	id string
}

// ID returns the thread ID, or an empty string before the server has
// assigned one.
func (c *Chat) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// SubjectID returns the subject this thread belongs to.
func (c *Chat) SubjectID() string {
	return c.subjectID
}

// Process runs one turn in this thread and returns the complete response.
// The first turn makes the server assign the thread ID; subsequent turns
// reuse it so the conversation accumulates history.
//
// Example:
//
//	chat := user.CreateChat(mnexium.WithModelForChat("gpt-4o-mini"))
//	_, err := chat.Process(ctx, "My cat is called Miso")
//	...
//	resp, err := chat.Process(ctx, "What is my cat called?")
func (c *Chat) Process(ctx context.Context, content string, opts ...ProcessOption) (*ProcessResponse, error) {
	call := c.prepareCall(opts...)
	resp, err := c.client.process(ctx, content, call, c.options)
	if err != nil {
		return nil, err
	}
	c.adoptID(resp.ChatID)
	return resp, nil
}

// ProcessStream is the streaming variant of Process. The server assigns the
// thread ID in the response headers, so it is known as soon as the stream
// opens, before any chunks are read.
func (c *Chat) ProcessStream(ctx context.Context, content string, opts ...ProcessOption) (*StreamResponse, error) {
	call := c.prepareCall(opts...)
	stream, err := c.client.processStream(ctx, content, call, c.options)
	if err != nil {
		return nil, err
	}
	c.adoptID(stream.ChatID())
	return stream, nil
}

// prepareCall pins the call to this thread's subject and current ID.
func (c *Chat) prepareCall(opts ...ProcessOption) *ProcessOptions {
	call := applyProcessOptions(opts...)
	call.SubjectID = c.subjectID
	if call.ChatID == "" {
		call.ChatID = c.ID()
	}
	return call
}

// adoptID stores the server-assigned thread ID from the first turn. An ID
// set earlier, by the server or by WithChatIDForChat, is never replaced.
func (c *Chat) adoptID(chatID string) {
	if chatID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == "" {
		c.id = chatID
	}
}
