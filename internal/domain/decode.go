package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// The ticket API returns Mongo documents as-is. Dates may be empty or
// unparsable and person references may be left unpopulated as a bare id.
// Neither should cost the caller the rest of the record.

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads a JSON date value. Anything it cannot read yields the
// zero time, which the view renders as an unknown date.
func ParseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// UnmarshalJSON accepts a populated reference object or a bare id string.
func (p *PersonRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*p = PersonRef{ID: id}
		return nil
	}
	type plain PersonRef
	return json.Unmarshal(data, (*plain)(p))
}

// UnmarshalJSON tolerates a malformed createdAt.
func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.CreatedAt = ParseTimestamp(aux.CreatedAt)
	return nil
}

// UnmarshalJSON tolerates a malformed createdAt.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	type plain Ticket
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.CreatedAt = ParseTimestamp(aux.CreatedAt)
	return nil
}
