package mnexium

import (
	"bufio"
	"io"
	"strings"
)

// sseMaxLineBytes caps a single SSE line. Anything longer indicates a
// misbehaving server.
const sseMaxLineBytes = 1 << 20

// sseFrame is one decoded server-sent event: an optional event name and a
// single data payload line.
type sseFrame struct {
	event string
	data  string
}

// sseReader incrementally decodes the server-sent-events wire format. Each
// data: line yields one frame tagged with the most recent event: line. The
// pending event name resets after a frame is produced and on blank lines,
// per SSE framing.
type sseReader struct {
	scanner *bufio.Scanner
	pending string
}

func newSSEReader(r io.Reader) *sseReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), sseMaxLineBytes)
	return &sseReader{scanner: scanner}
}

// next returns the next frame, io.EOF once the stream ends cleanly, or the
// underlying read error.
func (r *sseReader) next() (*sseFrame, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		switch {
		case line == "":
			r.pending = ""
		case strings.HasPrefix(line, "event:"):
			r.pending = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(line[len("data:"):])
			if data == "" {
				continue
			}
			event := r.pending
			r.pending = ""
			return &sseFrame{event: event, data: data}, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
