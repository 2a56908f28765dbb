package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/theme"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// ThemeHandler exposes the viewer's light/dark preference.
type ThemeHandler struct {
	store  theme.Store
	logger *zap.Logger
}

// NewThemeHandler constructs handler.
func NewThemeHandler(store theme.Store, logger *zap.Logger) *ThemeHandler {
	return &ThemeHandler{store: store, logger: logger}
}

// Get GET /dashboard/theme.
func (h *ThemeHandler) Get(c *fiber.Ctx) error {
	key, err := h.viewer(c)
	if err != nil {
		return err
	}
	current, err := h.store.Load(c.UserContext(), key)
	if err != nil {
		return apperrors.NewUnavailable("theme store unavailable", err)
	}
	return c.JSON(fiber.Map{"data": dto.ThemeResponse{Theme: current}})
}

// Set PUT /dashboard/theme.
func (h *ThemeHandler) Set(c *fiber.Ctx) error {
	key, err := h.viewer(c)
	if err != nil {
		return err
	}
	var req dto.ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	raw := domain.Theme(strings.ToLower(strings.TrimSpace(req.Theme)))
	if raw != domain.ThemeLight && raw != domain.ThemeDark {
		return apperrors.NewValidationError("theme must be light or dark", map[string]any{"theme": req.Theme})
	}
	if err := h.store.Save(c.UserContext(), key, raw); err != nil {
		return apperrors.NewUnavailable("theme store unavailable", err)
	}
	return c.JSON(fiber.Map{"data": dto.ThemeResponse{Theme: raw}})
}

// Toggle POST /dashboard/theme/toggle.
func (h *ThemeHandler) Toggle(c *fiber.Ctx) error {
	key, err := h.viewer(c)
	if err != nil {
		return err
	}
	next, err := theme.Toggle(c.UserContext(), h.store, key)
	if err != nil {
		return apperrors.NewUnavailable("theme store unavailable", err)
	}
	return c.JSON(fiber.Map{"data": dto.ThemeResponse{Theme: next}})
}

func (h *ThemeHandler) viewer(c *fiber.Ctx) (string, error) {
	token, ok := auth.CredentialFromContext(c).Credential(c.UserContext())
	if !ok {
		return "", apperrors.NewUnauthorized("access token required")
	}
	identity, ok := auth.IdentityFromToken(h.logger, token)
	if !ok {
		return "", apperrors.NewUnauthorized("invalid token payload")
	}
	return identity.EmployeeID, nil
}
