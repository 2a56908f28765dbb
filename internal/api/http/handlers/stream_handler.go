package handlers

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
	"github.com/spec-kit/ticket-dashboard/internal/view"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

const defaultKeepAlive = 15 * time.Second

// StreamHandler re-streams board changes of a session to the browser.
type StreamHandler struct {
	hub       *dashboard.Hub
	files     string
	logger    *zap.Logger
	keepAlive time.Duration
}

// NewStreamHandler constructs handler. keepAlive <= 0 uses 15s.
func NewStreamHandler(hub *dashboard.Hub, files string, logger *zap.Logger, keepAlive time.Duration) *StreamHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &StreamHandler{hub: hub, files: files, logger: logger, keepAlive: keepAlive}
}

// Events GET /dashboard/sessions/:sid/events.
func (h *StreamHandler) Events(c *fiber.Ctx) error {
	session, ok := h.hub.Get(c.Params("sid"))
	if !ok {
		return apperrors.NewNotFound("session", map[string]any{"id": c.Params("sid")})
	}

	feed, cancel := session.Board().Subscribe()
	status, statusErr := session.LiveStatus()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	logger := h.logger.With(zap.String("session_id", session.ID))
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		if !h.send(w, statusEvent(status, statusErr)) {
			return
		}
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		for {
			select {
			case change, open := <-feed:
				if !open {
					return
				}
				if !h.send(w, h.encode(session, change)) {
					logger.Debug("event stream client gone")
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					logger.Debug("event stream client gone")
					return
				}
			}
		}
	}))
	return nil
}

func (h *StreamHandler) send(w *bufio.Writer, event stream.SSEEvent) bool {
	if err := stream.WriteEvent(w, event); err != nil {
		return false
	}
	return w.Flush() == nil
}

func (h *StreamHandler) encode(session *dashboard.Session, change dashboard.Change) stream.SSEEvent {
	switch change.Kind {
	case dashboard.ChangeStatus:
		return statusEvent(change.Status, change.Err)
	case dashboard.ChangeCreated, dashboard.ChangeUpdated:
		visible := len(dashboard.VisibleTickets([]domain.Ticket{change.Ticket}, session.Filter())) > 0
		return jsonEvent(string(change.Kind), dto.TicketChange{
			Card:    view.NewCard(change.Ticket, h.files),
			Visible: visible,
		})
	default:
		return jsonEvent(string(change.Kind), fiber.Map{"tickets": session.Board().Len()})
	}
}

func statusEvent(status stream.Status, err error) stream.SSEEvent {
	state := dto.StreamState{Status: string(status)}
	if err != nil {
		state.Error = err.Error()
	}
	return jsonEvent(string(dashboard.ChangeStatus), state)
}

func jsonEvent(eventType string, payload any) stream.SSEEvent {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	return stream.SSEEvent{ID: uuid.NewString(), Type: eventType, Data: string(data)}
}
