package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusCompleted TicketStatus = "completed"
)

// PersonRef is an embedded reference to the creator or assignee of a ticket.
// Creators carry fullName, assignees carry name.
type PersonRef struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName,omitempty"`
	Name     string `json:"name,omitempty"`
}

// DisplayName returns the best available human readable name.
func (p *PersonRef) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}

// Response is the staff answer attached to a ticket.
type Response struct {
	Description  string     `json:"description"`
	CreatedBy    *PersonRef `json:"createdBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	FileUploaded string     `json:"fileUploaded,omitempty"`
}

// Ticket is the record mirrored from the backend. ID is the merge key.
type Ticket struct {
	ID           string       `json:"_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       TicketStatus `json:"status"`
	CreatedBy    *PersonRef   `json:"createdBy,omitempty"`
	AssignedTo   *PersonRef   `json:"assignedTo,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	FileUploaded string       `json:"fileUploaded,omitempty"`
	Response     *Response    `json:"response,omitempty"`
}

// IsPending reports whether the ticket still awaits a response.
func (t Ticket) IsPending() bool {
	return t.Status == TicketStatusPending
}
