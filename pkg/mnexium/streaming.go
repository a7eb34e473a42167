package mnexium

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mnexium/mnexium-go/pkg/provider"
)

// StreamResponse reads text chunks off a streaming process call. Chunks
// arrive lazily through Recv; once the stream ends, TotalContent and Usage
// expose what accumulated along the way. A StreamResponse belongs to a
// single consumer: Recv must not be called from multiple goroutines.
//
// Example:
//
//	stream, err := chat.ProcessStream(ctx, "Tell me a story")
//	if err != nil {
//	    log.Fatalf("Failed to start stream: %v", err)
//	}
//	defer stream.Close()
//
//	for {
//	    chunk, err := stream.Recv()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatalf("Stream failed: %v", err)
//	    }
//	    fmt.Print(chunk.Content)
//	}
//	fmt.Printf("\nTokens used: %v\n", stream.Usage())
type StreamResponse struct {
	chatID         string
	subjectID      string
	model          string
	provisionedKey string
	claimURL       string

	resp      *http.Response
	reader    *sseReader
	closeOnce sync.Once
	closed    atomic.Bool
	finished  bool
	total     strings.Builder
	usage     *Usage
}

// newStreamResponse wraps a live SSE response. The chat and subject IDs
// from response headers win over the request-side values.
func newStreamResponse(resp *http.Response, chatID, subjectID, model string) *StreamResponse {
	s := &StreamResponse{
		chatID:    chatID,
		subjectID: subjectID,
		model:     model,
		resp:      resp,
		reader:    newSSEReader(resp.Body),
	}
	if v := resp.Header.Get("x-mnx-chat-id"); v != "" {
		s.chatID = v
	}
	if v := resp.Header.Get("x-mnx-subject-id"); v != "" {
		s.subjectID = v
	}
	s.provisionedKey = resp.Header.Get("x-mnx-key-provisioned")
	s.claimURL = resp.Header.Get("x-mnx-claim-url")
	return s
}

// Recv blocks until the next text chunk arrives. It returns io.EOF when the
// stream ends, including after Close. Frames that carry no text, such as
// role preludes and usage reports, are consumed internally and never
// surface.
func (s *StreamResponse) Recv() (*StreamChunk, error) {
	if s.finished || s.closed.Load() {
		return nil, io.EOF
	}
	for {
		frame, err := s.reader.next()
		if err != nil {
			wasClosed := s.closed.Load()
			s.finish()
			if errors.Is(err, io.EOF) || wasClosed {
				return nil, io.EOF
			}
			return nil, streamInterrupted(err)
		}
		if frame.data == "[DONE]" {
			s.finish()
			return nil, io.EOF
		}

		raw := json.RawMessage(frame.data)
		if !json.Valid(raw) {
			continue
		}
		content, ok := provider.ExtractChunk(raw)
		if usage, found := provider.ExtractUsage(raw); found {
			s.usage = usage
		}
		if !ok {
			continue
		}
		s.total.WriteString(content)
		return &StreamChunk{Content: content, Raw: raw}, nil
	}
}

// Text drains the rest of the stream and returns the full response text.
// Calling it after the stream ended just returns what accumulated.
func (s *StreamResponse) Text() (string, error) {
	for {
		_, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return s.total.String(), nil
		}
		if err != nil {
			return s.total.String(), err
		}
	}
}

// Close terminates the stream early and releases the connection. It is safe
// to call multiple times and concurrently with Recv, which unblocks and
// returns io.EOF.
func (s *StreamResponse) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.resp != nil {
			s.resp.Body.Close()
		}
	})
	return nil
}

// finish marks the stream complete and releases the connection.
func (s *StreamResponse) finish() {
	s.finished = true
	_ = s.Close()
}

// TotalContent returns the concatenation of every chunk received so far.
func (s *StreamResponse) TotalContent() string {
	return s.total.String()
}

// Usage returns token usage once the provider reported it, usually on the
// final frames. It is nil before that.
func (s *StreamResponse) Usage() *Usage {
	return s.usage
}

// ChatID returns the conversation thread this turn was recorded under.
func (s *StreamResponse) ChatID() string {
	return s.chatID
}

// SubjectID returns the subject this turn was processed for.
func (s *StreamResponse) SubjectID() string {
	return s.subjectID
}

// Model returns the model that served the request.
func (s *StreamResponse) Model() string {
	return s.model
}

// ProvisionedKey returns the trial key minted on this request, if any.
func (s *StreamResponse) ProvisionedKey() string {
	return s.provisionedKey
}

// ClaimURL returns the claim link for a provisioned trial key, if any.
func (s *StreamResponse) ClaimURL() string {
	return s.claimURL
}
