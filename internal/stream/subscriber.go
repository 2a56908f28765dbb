package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
)

// Status is the connection state of a live subscription.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusOpen       Status = "open"
	StatusClosed     Status = "closed"
	StatusError      Status = "error"
)

// Options tunes a Subscriber. Zero values are usable.
type Options struct {
	// HTTPClient must not carry a Timeout; the stream is long lived.
	HTTPClient *http.Client
	Metrics    *observability.Metrics
	// OnStatus is called after every status change.
	OnStatus func(Status, error)
}

// Subscriber holds one live subscription to the ticket event stream and
// republishes ticketCreated/ticketUpdated events on a dispatcher. It does
// not reconnect: when the stream ends, Run returns and the status stays
// closed or error.
type Subscriber struct {
	url        string
	token      string
	httpClient *http.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	onStatus   func(Status, error)

	mu     sync.RWMutex
	status Status
	err    error
}

// NewSubscriber prepares a subscription to url authorized by token.
func NewSubscriber(url, token string, dispatcher events.Dispatcher, logger *zap.Logger, opts Options) *Subscriber {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Subscriber{
		url:        url,
		token:      token,
		httpClient: httpClient,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "live_updates")),
		metrics:    opts.Metrics,
		onStatus:   opts.OnStatus,
		status:     StatusIdle,
	}
}

// Status returns the current connection state.
func (s *Subscriber) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error that moved the subscription to StatusError.
func (s *Subscriber) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Run connects and processes events until the stream ends or ctx is
// cancelled. Cancellation is a clean close and returns nil.
func (s *Subscriber) Run(ctx context.Context) error {
	s.setStatus(StatusConnecting, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return s.fail(fmt.Errorf("building stream request: %w", err))
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			s.setStatus(StatusClosed, nil)
			return nil
		}
		return s.fail(fmt.Errorf("connecting to stream: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fail(fmt.Errorf("stream responded with status %d", resp.StatusCode))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "text/event-stream") {
		s.logger.Warn("unexpected stream content type", zap.String("content_type", ct))
	}

	s.setStatus(StatusOpen, nil)
	s.logger.Info("live updates connected", zap.String("url", s.url))

	scanner := NewSSEScanner(resp.Body)
	for scanner.Next() {
		s.handle(ctx, scanner.Event())
	}

	if ctx.Err() != nil {
		s.setStatus(StatusClosed, nil)
		return nil
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return s.fail(fmt.Errorf("reading stream: %w", err))
	}
	s.logger.Info("live updates stream ended")
	s.setStatus(StatusClosed, nil)
	return nil
}

func (s *Subscriber) handle(ctx context.Context, raw SSEEvent) {
	eventType := events.EventType(raw.Type)
	if !eventType.Known() {
		s.logger.Debug("ignoring stream event", zap.String("event", raw.Type))
		return
	}

	var ticket domain.Ticket
	if err := json.Unmarshal([]byte(raw.Data), &ticket); err != nil {
		s.logger.Warn("discarding malformed ticket event", zap.String("event", raw.Type), zap.Error(err))
		return
	}
	if ticket.ID == "" {
		s.logger.Warn("discarding ticket event without id", zap.String("event", raw.Type))
		return
	}

	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}
	s.metrics.RecordStreamEvent(raw.Type)

	event := events.Event{
		ID:        id,
		Type:      eventType,
		TicketID:  ticket.ID,
		Timestamp: time.Now().UTC(),
		Ticket:    ticket,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("ticket event handler failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}

func (s *Subscriber) fail(err error) error {
	s.logger.Error("live updates failed", zap.Error(err))
	s.setStatus(StatusError, err)
	return err
}

func (s *Subscriber) setStatus(status Status, err error) {
	s.mu.Lock()
	s.status = status
	s.err = err
	callback := s.onStatus
	s.mu.Unlock()

	if callback != nil {
		callback(status, err)
	}
}
