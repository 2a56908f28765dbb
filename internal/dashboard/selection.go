package dashboard

import "github.com/spec-kit/ticket-dashboard/internal/domain"

// NewTicketRoute is where a brand-new ticket is submitted.
const NewTicketRoute = "/user-ticket"

// ResponseRoute is the per-ticket response screen.
func ResponseRoute(ticketID string) string {
	return "/" + ticketID
}

// Navigator moves the viewer to a client-side route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(route string) { f(route) }

// Selection is the ticket detail popup: one ticket at most.
type Selection struct {
	ticket *domain.Ticket
}

// Open selects ticket and opens the popup, replacing any prior selection.
func (s *Selection) Open(ticket domain.Ticket) {
	s.ticket = &ticket
}

// Close clears the selection and closes the popup.
func (s *Selection) Close() {
	s.ticket = nil
}

// IsOpen reports whether the popup is showing.
func (s *Selection) IsOpen() bool {
	return s.ticket != nil
}

// Selected returns the selected ticket.
func (s *Selection) Selected() (domain.Ticket, bool) {
	if s.ticket == nil {
		return domain.Ticket{}, false
	}
	return *s.ticket, true
}

// CanRespond reports whether the Respond control is offered.
func (s *Selection) CanRespond() bool {
	return s.ticket != nil && s.ticket.IsPending()
}

// Respond navigates to the response route of a pending selected ticket and
// closes the popup. It does nothing when the control is not offered.
func (s *Selection) Respond(nav Navigator) (string, bool) {
	if !s.CanRespond() {
		return "", false
	}
	route := ResponseRoute(s.ticket.ID)
	if nav != nil {
		nav.Navigate(route)
	}
	s.Close()
	return route, true
}

// refresh swaps the held ticket for a newer copy with the same id.
func (s *Selection) refresh(ticket domain.Ticket) {
	if s.ticket != nil && s.ticket.ID == ticket.ID {
		s.ticket = &ticket
	}
}
