package events

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers. The values are the SSE
// event names the ticket API emits.
type EventType string

const (
	EventTicketCreated EventType = "ticketCreated"
	EventTicketUpdated EventType = "ticketUpdated"
)

// Known reports whether t is one of the ticket events the dashboard merges.
func (t EventType) Known() bool {
	return t == EventTicketCreated || t == EventTicketUpdated
}

// Event is a live ticket change received from the backend stream.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	TicketID  string        `json:"ticket_id"`
	Timestamp time.Time     `json:"timestamp"`
	Ticket    domain.Ticket `json:"ticket"`
}
