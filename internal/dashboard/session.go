package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
)

// LiveSubscription is a running live-update channel.
type LiveSubscription interface {
	Run(ctx context.Context) error
	Status() stream.Status
	Err() error
}

// SubscriptionFactory builds the live subscription for a mounted session.
type SubscriptionFactory func(token string, dispatcher events.Dispatcher, onStatus func(stream.Status, error)) LiveSubscription

// NewStreamFactory subscribes to url with the stream package.
func NewStreamFactory(url string, logger *zap.Logger, opts stream.Options) SubscriptionFactory {
	return func(token string, dispatcher events.Dispatcher, onStatus func(stream.Status, error)) LiveSubscription {
		o := opts
		o.OnStatus = onStatus
		return stream.NewSubscriber(url, token, dispatcher, logger, o)
	}
}

// Session is one mounted dashboard: its board, filter flags, detail
// selection and live subscription. Filter and selection changes never
// touch the subscription; only Unmount ends it.
type Session struct {
	ID        string
	CreatedAt time.Time

	board     *Board
	loader    *Loader
	subscribe SubscriptionFactory
	logger    *zap.Logger

	mu        sync.Mutex
	view      ViewState
	selection Selection
	lastSeen  time.Time
	result    LoadResult
	live      LiveSubscription

	mountOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSession prepares an unmounted session. subscribe may be nil, in which
// case no live updates are received.
func NewSession(loader *Loader, subscribe SubscriptionFactory, logger *zap.Logger) *Session {
	id := uuid.NewString()
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		board:     NewBoard(),
		loader:    loader,
		subscribe: subscribe,
		logger:    logger.With(zap.String("session_id", id)),
		lastSeen:  now,
		done:      make(chan struct{}),
	}
}

// Mount runs the fetch pipeline once and then starts the live subscription
// when a credential is present. Later calls return the first result.
func (s *Session) Mount(ctx context.Context, creds auth.CredentialProvider) LoadResult {
	s.mountOnce.Do(func() {
		result := s.loader.Load(ctx, creds, s.board)

		liveCtx, cancel := context.WithCancel(context.Background())
		s.mu.Lock()
		s.result = result
		s.cancel = cancel
		s.mu.Unlock()

		if result.token == "" || s.subscribe == nil {
			close(s.done)
			return
		}
		s.startLive(liveCtx, result.token)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) startLive(ctx context.Context, token string) {
	dispatcher := events.NewSessionDispatcher()
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		s.board.ApplyCreated(e.Ticket)
		s.refreshSelection(e.Ticket)
		return nil
	})
	dispatcher.Subscribe(events.EventTicketUpdated, func(_ context.Context, e events.Event) error {
		if s.board.ApplyUpdated(e.Ticket) {
			s.refreshSelection(e.Ticket)
		}
		return nil
	})

	live := s.subscribe(token, dispatcher, func(status stream.Status, err error) {
		s.board.announce(Change{Kind: ChangeStatus, Status: status, Err: err})
	})
	s.mu.Lock()
	s.live = live
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		if err := live.Run(ctx); err != nil {
			s.logger.Warn("live updates stopped", zap.Error(err))
		}
		s.logger.Debug("live updates ended", zap.String("session_id", s.ID), zap.Int("events", dispatcher.Received()))
	}()
}

// Unmount stops the live subscription, waits for it to exit and ends all
// change feeds.
func (s *Session) Unmount() {
	s.mountOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	<-s.done
	s.board.closeSubscribers()
}

// Board exposes the ticket list.
func (s *Session) Board() *Board {
	return s.board
}

// Result returns the mount outcome.
func (s *Session) Result() LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Employee returns the resolved employee, if any.
func (s *Session) Employee() *domain.Employee {
	return s.board.Employee()
}

// LiveStatus reports the subscription state and error signal.
func (s *Session) LiveStatus() (stream.Status, error) {
	s.mu.Lock()
	live := s.live
	s.mu.Unlock()
	if live == nil {
		return stream.StatusIdle, nil
	}
	return live.Status(), live.Err()
}

// SetFilter switches the status filter.
func (s *Session) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Apply(f)
}

// Filter returns the active filter.
func (s *Session) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Filter()
}

// Visible derives the displayed tickets from the current board and flags.
func (s *Session) Visible() []domain.Ticket {
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()
	return view.Visible(s.board.Snapshot())
}

// View opens the detail popup for ticketID.
func (s *Session) View(ticketID string) (domain.Ticket, bool) {
	ticket, ok := s.board.Get(ticketID)
	if !ok {
		return domain.Ticket{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Open(ticket)
	return ticket, true
}

// ClosePopup clears the selection.
func (s *Session) ClosePopup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Close()
}

// Selected returns the ticket shown in the popup.
func (s *Session) Selected() (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Selected()
}

// CanRespond reports whether the popup offers Respond.
func (s *Session) CanRespond() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.CanRespond()
}

// Respond navigates to the selected ticket's response route.
func (s *Session) Respond(nav Navigator) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Respond(nav)
}

// Touch marks the session as used.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// LastSeen returns the last Touch time.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) refreshSelection(ticket domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.refresh(ticket)
}
