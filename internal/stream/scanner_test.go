package stream

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func collect(t *testing.T, input string) []SSEEvent {
	t.Helper()
	scanner := NewSSEScanner(strings.NewReader(input))
	var out []SSEEvent
	for scanner.Next() {
		out = append(out, scanner.Event())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	return out
}

func TestSSEScanner(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []SSEEvent
	}{
		{
			name:  "typed events",
			input: "event: ticketCreated\ndata: {\"_id\":\"1\"}\n\nevent: ticketUpdated\nid: 7\ndata: {\"_id\":\"2\"}\n\n",
			want: []SSEEvent{
				{Type: "ticketCreated", Data: `{"_id":"1"}`},
				{Type: "ticketUpdated", ID: "7", Data: `{"_id":"2"}`},
			},
		},
		{
			name:  "comments and multi-line data",
			input: ": keepalive\n\ndata: line one\ndata: line two\n\n",
			want:  []SSEEvent{{Data: "line one\nline two"}},
		},
		{
			name:  "crlf and no space after colon",
			input: "event:ticketCreated\r\ndata:{}\r\n\r\n",
			want:  []SSEEvent{{Type: "ticketCreated", Data: "{}"}},
		},
		{
			name:  "trailing event without blank line",
			input: "event: ticketUpdated\ndata: x",
			want:  []SSEEvent{{Type: "ticketUpdated", Data: "x"}},
		},
		{
			name:  "event type without data is dropped",
			input: "event: ping\n\nevent: ticketCreated\ndata: y\n\n",
			want:  []SSEEvent{{Type: "ticketCreated", Data: "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestSSEScannerError(t *testing.T) {
	boom := errors.New("connection reset")
	scanner := NewSSEScanner(failingReader{err: boom})
	if scanner.Next() {
		t.Fatal("Next() should fail")
	}
	if !errors.Is(scanner.Err(), boom) {
		t.Errorf("Err() = %v, want %v", scanner.Err(), boom)
	}
}

func TestWriteEventRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := SSEEvent{Type: "ticketUpdated", ID: "abc", Data: "a\nb"}
	if err := WriteEvent(&buf, in); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if want := "id: abc\nevent: ticketUpdated\ndata: a\ndata: b\n\n"; buf.String() != want {
		t.Errorf("wire = %q, want %q", buf.String(), want)
	}
	got := collect(t, buf.String())
	if len(got) != 1 || got[0] != in {
		t.Errorf("round trip = %+v", got)
	}
}
