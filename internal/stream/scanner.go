package stream

import (
	"bufio"
	"io"
	"strings"
)

// SSEEvent is one dispatched block of a text/event-stream body.
type SSEEvent struct {
	Type string // "event:" field, empty for the default message type
	ID   string
	Data string // data lines joined by "\n"
}

const maxLineBytes = 1 << 20

// SSEScanner splits a text/event-stream body into events. A block without
// data lines is discarded, as are comments and unrecognized fields.
type SSEScanner struct {
	lines *bufio.Scanner
	block eventBlock
	event SSEEvent
}

// NewSSEScanner reads events from reader.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	lines := bufio.NewScanner(reader)
	lines.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &SSEScanner{lines: lines}
}

// Next reports whether another event is available through Event.
func (s *SSEScanner) Next() bool {
	for s.lines.Scan() {
		line := s.lines.Text()
		if line != "" {
			s.block.add(line)
			continue
		}
		if event, ok := s.block.take(); ok {
			s.event = event
			return true
		}
	}
	// A body may end without the closing blank line.
	if s.lines.Err() == nil {
		if event, ok := s.block.take(); ok {
			s.event = event
			return true
		}
	}
	return false
}

// Event returns the event found by the last successful Next.
func (s *SSEScanner) Event() SSEEvent {
	return s.event
}

// Err returns the read error that stopped Next, if any. A clean end of
// stream is not an error.
func (s *SSEScanner) Err() error {
	return s.lines.Err()
}

// eventBlock accumulates the fields between two blank lines.
type eventBlock struct {
	kind string
	id   string
	data []string
}

func (b *eventBlock) add(line string) {
	name, value, _ := strings.Cut(line, ":")
	value = strings.TrimPrefix(value, " ")
	switch name {
	case "":
		// comment
	case "data":
		b.data = append(b.data, value)
	case "event":
		b.kind = value
	case "id":
		b.id = value
	}
}

func (b *eventBlock) take() (SSEEvent, bool) {
	defer func() { *b = eventBlock{} }()
	if b.data == nil {
		return SSEEvent{}, false
	}
	return SSEEvent{Type: b.kind, ID: b.id, Data: strings.Join(b.data, "\n")}, true
}

// WriteEvent encodes one event in SSE wire format. Multi-line data is split
// across data: lines.
func WriteEvent(w io.Writer, event SSEEvent) error {
	var sb strings.Builder
	if event.ID != "" {
		sb.WriteString("id: " + event.ID + "\n")
	}
	if event.Type != "" {
		sb.WriteString("event: " + event.Type + "\n")
	}
	for _, line := range strings.Split(event.Data, "\n") {
		sb.WriteString("data: " + line + "\n")
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
