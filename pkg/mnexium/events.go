package mnexium

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
)

// EventStream delivers real-time memory events for one subject over a
// server-sent-events connection. Events arrive lazily through Recv. An
// EventStream belongs to a single consumer.
//
// There is no automatic reconnection: if the connection drops, Recv
// surfaces the failure once and the caller decides whether to subscribe
// again with fresh state.
//
// Example:
//
//	events, err := user.Memories.Subscribe(ctx)
//	if err != nil {
//	    log.Fatalf("Failed to subscribe: %v", err)
//	}
//	defer events.Close()
//
//	for {
//	    event, err := events.Recv()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatalf("Subscription failed: %v", err)
//	    }
//	    fmt.Printf("%s: %v\n", event.Type, event.Data)
//	}
type EventStream struct {
	resp      *http.Response
	reader    *sseReader
	closeOnce sync.Once
	closed    atomic.Bool
	failed    atomic.Bool
}

func newEventStream(resp *http.Response) *EventStream {
	return &EventStream{resp: resp, reader: newSSEReader(resp.Body)}
}

// Recv blocks until the next event arrives. It returns io.EOF once the
// stream is over, whether the server ended it or Close was called. Frames
// that are not valid JSON are skipped. Events without an event name are
// delivered with Type set to EventUnknown.
func (e *EventStream) Recv() (*MemoryEvent, error) {
	if e.failed.Load() || e.closed.Load() {
		return nil, io.EOF
	}
	for {
		frame, err := e.reader.next()
		if err != nil {
			wasClosed := e.closed.Load()
			e.failed.Store(true)
			_ = e.Close()
			if errors.Is(err, io.EOF) || wasClosed {
				return nil, io.EOF
			}
			return nil, streamInterrupted(err)
		}

		var data map[string]any
		if err := json.Unmarshal([]byte(frame.data), &data); err != nil {
			continue
		}
		eventType := frame.event
		if eventType == "" {
			eventType = EventUnknown
		}
		return &MemoryEvent{Type: eventType, Data: data}, nil
	}
}

// Close terminates the subscription and releases the connection. It is safe
// to call multiple times and concurrently with Recv, which unblocks and
// returns io.EOF.
func (e *EventStream) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		if e.resp != nil {
			e.resp.Body.Close()
		}
	})
	return nil
}

// IsConnected reports whether the stream is still open.
func (e *EventStream) IsConnected() bool {
	return !e.closed.Load() && !e.failed.Load()
}
