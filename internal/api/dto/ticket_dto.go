package dto

import (
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

// MountResponse is returned when a dashboard session is mounted.
type MountResponse struct {
	SessionID string           `json:"sessionId"`
	Outcome   string           `json:"outcome"`
	Employee  *EmployeeSummary `json:"employee"`
	Tickets   int              `json:"tickets"`
}

// StreamState reports the live subscription.
type StreamState struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// DashboardState is the full render state of a session.
type DashboardState struct {
	SessionID      string           `json:"sessionId"`
	Outcome        string           `json:"outcome"`
	Employee       *EmployeeSummary `json:"employee"`
	Filter         string           `json:"filter"`
	Tickets        []view.Card      `json:"tickets"`
	Selected       *view.Detail     `json:"selected"`
	Stream         StreamState      `json:"stream"`
	NewTicketRoute string           `json:"newTicketRoute"`
}

// FilterRequest switches the status filter.
type FilterRequest struct {
	Filter string `json:"filter"`
}

// RouteResponse names the client-side route to navigate to.
type RouteResponse struct {
	Route string `json:"route"`
}

// TicketChange is the data of a ticketCreated/ticketUpdated SSE event.
type TicketChange struct {
	Card    view.Card `json:"card"`
	Visible bool      `json:"visible"`
}
