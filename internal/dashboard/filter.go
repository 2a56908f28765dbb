package dashboard

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Filter is the active status filter.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts "pending", "completed", "all" or empty (all).
func ParseFilter(raw string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("unknown filter %q", raw)
	}
}

// ViewState holds the two filter flags. At most one is set; none set
// means show all.
type ViewState struct {
	ShowPending   bool
	ShowCompleted bool
}

// SetPending shows pending tickets only.
func (v *ViewState) SetPending() {
	v.ShowPending = true
	v.ShowCompleted = false
}

// SetCompleted shows completed tickets only.
func (v *ViewState) SetCompleted() {
	v.ShowCompleted = true
	v.ShowPending = false
}

// SetAll clears both flags.
func (v *ViewState) SetAll() {
	v.ShowPending = false
	v.ShowCompleted = false
}

// Apply switches to f.
func (v *ViewState) Apply(f Filter) {
	switch f {
	case FilterPending:
		v.SetPending()
	case FilterCompleted:
		v.SetCompleted()
	default:
		v.SetAll()
	}
}

// Filter names the active state.
func (v ViewState) Filter() Filter {
	switch {
	case v.ShowPending:
		return FilterPending
	case v.ShowCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Visible derives the displayed tickets from the flags.
func (v ViewState) Visible(tickets []domain.Ticket) []domain.Ticket {
	return VisibleTickets(tickets, v.Filter())
}

// VisibleTickets keeps tickets matching f in their original order. FilterAll
// returns tickets unchanged.
func VisibleTickets(tickets []domain.Ticket, f Filter) []domain.Ticket {
	var want domain.TicketStatus
	switch f {
	case FilterPending:
		want = domain.TicketStatusPending
	case FilterCompleted:
		want = domain.TicketStatusCompleted
	default:
		return tickets
	}

	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status == want {
			out = append(out, t)
		}
	}
	return out
}
