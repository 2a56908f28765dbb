package dashboard

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func tokenFor(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." + enc.EncodeToString([]byte(payload)) + ".signature"
}

func ticket(id string, status domain.TicketStatus) domain.Ticket {
	return domain.Ticket{ID: id, Title: "ticket " + id, Status: status}
}

type fakeAPI struct {
	mu           sync.Mutex
	employees    []domain.Employee
	tickets      []domain.Ticket
	employeesErr error
	ticketsErr   error
	calls        []string
}

func (f *fakeAPI) ListEmployees(_ context.Context, token string) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "employees:"+token)
	return f.employees, f.employeesErr
}

func (f *fakeAPI) ListMyTickets(_ context.Context, token string) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "tickets:"+token)
	return f.tickets, f.ticketsErr
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

var errBackend = errors.New("backend unavailable")

// fakeLive stands in for the stream subscriber. It reports open, then waits
// for cancellation.
type fakeLive struct {
	mu         sync.Mutex
	token      string
	dispatcher events.Dispatcher
	onStatus   func(stream.Status, error)
	status     stream.Status
	started    chan struct{}
	stopped    chan struct{}
	failWith   error
}

func newFakeLive() *fakeLive {
	return &fakeLive{
		status:  stream.StatusIdle,
		started: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (f *fakeLive) factory() SubscriptionFactory {
	return func(token string, dispatcher events.Dispatcher, onStatus func(stream.Status, error)) LiveSubscription {
		f.mu.Lock()
		f.token = token
		f.dispatcher = dispatcher
		f.onStatus = onStatus
		f.mu.Unlock()
		return f
	}
}

func (f *fakeLive) set(status stream.Status, err error) {
	f.mu.Lock()
	f.status = status
	cb := f.onStatus
	f.mu.Unlock()
	if cb != nil {
		cb(status, err)
	}
}

func (f *fakeLive) Run(ctx context.Context) error {
	defer close(f.stopped)
	f.set(stream.StatusOpen, nil)
	close(f.started)
	if f.failWith != nil {
		f.set(stream.StatusError, f.failWith)
		return f.failWith
	}
	<-ctx.Done()
	f.set(stream.StatusClosed, nil)
	return nil
}

func (f *fakeLive) Status() stream.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeLive) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == stream.StatusError {
		return f.failWith
	}
	return nil
}

func (f *fakeLive) publish(eventType events.EventType, t domain.Ticket) error {
	f.mu.Lock()
	d := f.dispatcher
	f.mu.Unlock()
	return d.Publish(context.Background(), events.Event{Type: eventType, TicketID: t.ID, Ticket: t})
}
