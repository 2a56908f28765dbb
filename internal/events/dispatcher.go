package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownEvent is returned for event types the dashboard does not merge.
var ErrUnknownEvent = errors.New("unknown ticket event")

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher routes live ticket events to the handlers of one dashboard.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// SessionDispatcher belongs to a single mounted session. Deliveries are
// serialized, so handlers see events one at a time in arrival order and
// can merge without coordinating among themselves.
type SessionDispatcher struct {
	delivery sync.Mutex

	mu       sync.RWMutex
	created  []EventHandler
	updated  []EventHandler
	received int
}

// NewSessionDispatcher creates an empty dispatcher.
func NewSessionDispatcher() *SessionDispatcher {
	return &SessionDispatcher{}
}

// Subscribe registers handler for eventType. Unknown types are ignored
// because nothing will ever publish them.
func (d *SessionDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch eventType {
	case EventTicketCreated:
		d.created = append(d.created, handler)
	case EventTicketUpdated:
		d.updated = append(d.updated, handler)
	}
}

// Publish runs every handler for the event's type. All of them run even if
// one fails; the first failure is returned.
func (d *SessionDispatcher) Publish(ctx context.Context, event Event) error {
	if !event.Type.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}

	d.mu.RLock()
	var handlers []EventHandler
	if event.Type == EventTicketCreated {
		handlers = append(handlers, d.created...)
	} else {
		handlers = append(handlers, d.updated...)
	}
	d.mu.RUnlock()

	d.delivery.Lock()
	defer d.delivery.Unlock()

	d.mu.Lock()
	d.received++
	d.mu.Unlock()

	var firstErr error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s %s: %w", event.Type, event.TicketID, err)
		}
	}
	return firstErr
}

// Received counts the known events delivered so far.
func (d *SessionDispatcher) Received() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.received
}
