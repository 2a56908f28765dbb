package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Dashboard  *handlers.DashboardHandler
	Stream     *handlers.StreamHandler
	Theme      *handlers.ThemeHandler
	Credential *auth.CredentialMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	group := app.Group("/dashboard", cfg.Credential.Handle)

	group.Get("/theme", cfg.Theme.Get)
	group.Put("/theme", cfg.Theme.Set)
	group.Post("/theme/toggle", cfg.Theme.Toggle)

	group.Post("/sessions", cfg.Dashboard.Mount)
	sessions := group.Group("/sessions/:sid")
	sessions.Get("", cfg.Dashboard.State)
	sessions.Delete("", cfg.Dashboard.Unmount)
	sessions.Put("/filter", cfg.Dashboard.SetFilter)
	sessions.Post("/tickets/:id/view", cfg.Dashboard.ViewTicket)
	sessions.Delete("/selection", cfg.Dashboard.CloseSelection)
	sessions.Post("/respond", cfg.Dashboard.Respond)
	sessions.Get("/events", cfg.Stream.Events)
}
