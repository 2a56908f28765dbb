package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/view"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// DashboardHandler serves mounted dashboard sessions.
type DashboardHandler struct {
	hub   *dashboard.Hub
	files string
}

// NewDashboardHandler constructs handler. files is the attachment base URL.
func NewDashboardHandler(hub *dashboard.Hub, files string) *DashboardHandler {
	return &DashboardHandler{hub: hub, files: files}
}

// Mount POST /dashboard/sessions.
func (h *DashboardHandler) Mount(c *fiber.Ctx) error {
	session, result := h.hub.Mount(c.UserContext(), auth.CredentialFromContext(c))
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.MountResponse{
		SessionID: session.ID,
		Outcome:   string(result.Outcome),
		Employee:  dto.NewEmployeeSummary(result.Employee),
		Tickets:   result.Tickets,
	}})
}

// State GET /dashboard/sessions/:sid.
func (h *DashboardHandler) State(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": buildState(session, h.files)})
}

// SetFilter PUT /dashboard/sessions/:sid/filter.
func (h *DashboardHandler) SetFilter(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	var req dto.FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	filter, err := dashboard.ParseFilter(req.Filter)
	if err != nil {
		return apperrors.NewValidationError("filter must be pending, completed or all", map[string]any{"filter": req.Filter})
	}
	session.SetFilter(filter)
	return c.JSON(fiber.Map{"data": buildState(session, h.files)})
}

// ViewTicket POST /dashboard/sessions/:sid/tickets/:id/view.
func (h *DashboardHandler) ViewTicket(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	ticket, ok := session.View(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": view.NewDetail(ticket, h.files)})
}

// CloseSelection DELETE /dashboard/sessions/:sid/selection.
func (h *DashboardHandler) CloseSelection(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	session.ClosePopup()
	return c.SendStatus(http.StatusNoContent)
}

// Respond POST /dashboard/sessions/:sid/respond.
func (h *DashboardHandler) Respond(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	selected, ok := session.Selected()
	if !ok {
		return apperrors.NewConflict("no ticket selected", nil)
	}
	route, ok := session.Respond(nil)
	if !ok {
		return apperrors.NewConflict("ticket is not pending", map[string]any{"id": selected.ID, "status": selected.Status})
	}
	return c.JSON(fiber.Map{"data": dto.RouteResponse{Route: route}})
}

// Unmount DELETE /dashboard/sessions/:sid.
func (h *DashboardHandler) Unmount(c *fiber.Ctx) error {
	if !h.hub.Unmount(c.Params("sid")) {
		return apperrors.NewNotFound("session", map[string]any{"id": c.Params("sid")})
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *DashboardHandler) session(c *fiber.Ctx) (*dashboard.Session, error) {
	session, ok := h.hub.Get(c.Params("sid"))
	if !ok {
		return nil, apperrors.NewNotFound("session", map[string]any{"id": c.Params("sid")})
	}
	return session, nil
}

func buildState(session *dashboard.Session, files string) dto.DashboardState {
	state := dto.DashboardState{
		SessionID:      session.ID,
		Outcome:        string(session.Result().Outcome),
		Employee:       dto.NewEmployeeSummary(session.Employee()),
		Filter:         string(session.Filter()),
		Tickets:        view.NewCards(session.Visible(), files),
		NewTicketRoute: dashboard.NewTicketRoute,
	}
	if ticket, ok := session.Selected(); ok {
		detail := view.NewDetail(ticket, files)
		state.Selected = &detail
	}
	status, err := session.LiveStatus()
	state.Stream.Status = string(status)
	if err != nil {
		state.Stream.Error = err.Error()
	}
	return state
}
