package dashboard

import (
	"sync"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
)

// ChangeKind names what happened to the board.
type ChangeKind string

const (
	ChangeReplaced ChangeKind = "replaced"
	ChangeCreated  ChangeKind = "ticketCreated"
	ChangeUpdated  ChangeKind = "ticketUpdated"
	ChangeStatus   ChangeKind = "status"
)

// Change is delivered to board subscribers after every mutation.
type Change struct {
	Kind   ChangeKind
	Ticket domain.Ticket
	Status stream.Status
	Err    error
}

// changeBuffer bounds each subscriber channel. Slow subscribers lose
// changes and must re-read Snapshot.
const changeBuffer = 64

// Board is the ticket list and employee of one mounted dashboard. The
// fetch pipeline and the live subscription both write to it; merges are
// keyed by ticket id so they commute with reads and with each other.
type Board struct {
	mu          sync.RWMutex
	employee    *domain.Employee
	tickets     []domain.Ticket
	subscribers map[int]chan Change
	nextSubID   int
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{
		tickets:     []domain.Ticket{},
		subscribers: make(map[int]chan Change),
	}
}

// SetEmployee records the resolved employee.
func (b *Board) SetEmployee(employee *domain.Employee) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if employee == nil {
		b.employee = nil
		return
	}
	e := *employee
	b.employee = &e
}

// Employee returns a copy of the resolved employee, or nil.
func (b *Board) Employee() *domain.Employee {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.employee == nil {
		return nil
	}
	e := *b.employee
	return &e
}

// Replace swaps in a freshly fetched collection.
func (b *Board) Replace(tickets []domain.Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets = append([]domain.Ticket{}, tickets...)
	b.announceLocked(Change{Kind: ChangeReplaced})
}

// ApplyCreated merges a ticketCreated event. It reports whether the ticket
// was new and therefore prepended.
func (b *Board) ApplyCreated(ticket domain.Ticket) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	var inserted bool
	b.tickets, inserted = MergeCreated(b.tickets, ticket)
	b.announceLocked(Change{Kind: ChangeCreated, Ticket: ticket})
	return inserted
}

// ApplyUpdated merges a ticketUpdated event. Unknown ids are ignored and
// reported as false.
func (b *Board) ApplyUpdated(ticket domain.Ticket) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	var replaced bool
	b.tickets, replaced = MergeUpdated(b.tickets, ticket)
	if replaced {
		b.announceLocked(Change{Kind: ChangeUpdated, Ticket: ticket})
	}
	return replaced
}

// Snapshot returns a copy of the current list.
func (b *Board) Snapshot() []domain.Ticket {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Ticket{}, b.tickets...)
}

// Get returns the ticket with id.
func (b *Board) Get(id string) (domain.Ticket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i := indexOf(b.tickets, id); i >= 0 {
		return b.tickets[i], true
	}
	return domain.Ticket{}, false
}

// Len returns the number of tickets held.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tickets)
}

// Subscribe returns a change feed and a function that ends it. The
// channel is closed by the cancel function.
func (b *Board) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextSubID
	b.nextSubID++
	ch := make(chan Change, changeBuffer)
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}
}

func (b *Board) announce(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.announceLocked(change)
}

// closeSubscribers ends every feed; used on unmount.
func (b *Board) closeSubscribers() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *Board) announceLocked(change Change) {
	for _, ch := range b.subscribers {
		select {
		case ch <- change:
		default:
		}
	}
}

// MergeCreated prepends ticket unless its id is already present, in which
// case it replaces the record in place. Applying it twice is a no-op the
// second time.
func MergeCreated(tickets []domain.Ticket, ticket domain.Ticket) ([]domain.Ticket, bool) {
	if i := indexOf(tickets, ticket.ID); i >= 0 {
		out := append([]domain.Ticket{}, tickets...)
		out[i] = ticket
		return out, false
	}
	out := make([]domain.Ticket, 0, len(tickets)+1)
	out = append(out, ticket)
	out = append(out, tickets...)
	return out, true
}

// MergeUpdated replaces the record with the same id. Tickets that are not
// present are not inserted.
func MergeUpdated(tickets []domain.Ticket, ticket domain.Ticket) ([]domain.Ticket, bool) {
	i := indexOf(tickets, ticket.ID)
	if i < 0 {
		return tickets, false
	}
	out := append([]domain.Ticket{}, tickets...)
	out[i] = ticket
	return out, true
}

func indexOf(tickets []domain.Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}
