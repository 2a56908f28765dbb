package view

import (
	"strings"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

const (
	// UnknownUser labels a detail popup whose creator has no name.
	UnknownUser = "Unknown User"
	// NoResponse is shown when a ticket has no response yet.
	NoResponse = "No response yet."
	// DateLayout mirrors a browser's en-US toLocaleDateString.
	DateLayout = "1/2/2006"
)

// Tone is the badge color family for a status.
type Tone string

const (
	TonePending   Tone = "yellow"
	ToneCompleted Tone = "green"
)

// ToneFor maps a status to its badge tone.
func ToneFor(status domain.TicketStatus) Tone {
	if status == domain.TicketStatusPending {
		return TonePending
	}
	return ToneCompleted
}

// FormatDate renders t as a local calendar date. Zero times render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// AttachmentURL joins the files base, the uploader id and the file name.
// It returns "" when there is no file.
func AttachmentURL(base, userID, file string) string {
	if file == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + userID + "/" + file
}

// Card is the list entry for one ticket.
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
	Tone        Tone   `json:"tone"`
	Attachment  string `json:"attachment,omitempty"`
}

// ResponseBlock is the staff answer shown in the detail popup.
type ResponseBlock struct {
	Description string `json:"description"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
	Attachment  string `json:"attachment,omitempty"`
}

// Detail is the popup content for the selected ticket.
type Detail struct {
	Card
	Response   *ResponseBlock `json:"response,omitempty"`
	NoResponse string         `json:"noResponse,omitempty"`
	CanRespond bool           `json:"canRespond"`
}

// NewCard builds the list entry for ticket. files is the attachment base URL.
func NewCard(ticket domain.Ticket, files string) Card {
	card := Card{
		ID:          ticket.ID,
		Title:       ticket.Title,
		CreatedBy:   ticket.CreatedBy.DisplayName(),
		CreatedAt:   FormatDate(ticket.CreatedAt),
		Description: ticket.Description,
		AssignedTo:  ticket.AssignedTo.DisplayName(),
		Status:      string(ticket.Status),
		Tone:        ToneFor(ticket.Status),
	}
	if ticket.CreatedBy != nil {
		card.Attachment = AttachmentURL(files, ticket.CreatedBy.ID, ticket.FileUploaded)
	}
	return card
}

// NewCards maps a visible list to cards, keeping order.
func NewCards(tickets []domain.Ticket, files string) []Card {
	cards := make([]Card, 0, len(tickets))
	for _, t := range tickets {
		cards = append(cards, NewCard(t, files))
	}
	return cards
}

// NewDetail builds the popup for ticket.
func NewDetail(ticket domain.Ticket, files string) Detail {
	detail := Detail{
		Card:       NewCard(ticket, files),
		CanRespond: ticket.IsPending(),
	}
	if detail.CreatedBy == "" {
		detail.CreatedBy = UnknownUser
	}

	if r := ticket.Response; r != nil {
		block := &ResponseBlock{
			Description: r.Description,
			CreatedBy:   r.CreatedBy.DisplayName(),
			CreatedAt:   FormatDate(r.CreatedAt),
		}
		if r.CreatedBy != nil {
			block.Attachment = AttachmentURL(files, r.CreatedBy.ID, r.FileUploaded)
		}
		detail.Response = block
	} else {
		detail.NoResponse = NoResponse
	}
	return detail
}
