package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jupiter-hub/jupiter-go-api/internal/config"
	"github.com/jupiter-hub/jupiter-go-api/internal/handler"
	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/observability"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Tokens             *token.Service
	AuthHandler        *handler.AuthHandler
	StudentHandler     *handler.StudentHandler
	SkillHandler       *handler.SkillHandler
	PerformanceHandler *handler.PerformanceHandler
	DocumentHandler    *handler.DocumentHandler
	DashboardHandler   *handler.DashboardHandler
	SeedHandler        *handler.SeedHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	authenticate := middleware.Authenticate(deps.Tokens)
	optionalAuth := middleware.OptionalAuthenticate(deps.Tokens)
	loginLimiter := middleware.RateLimit("auth", cfg.LoginRateLimit, cfg.LoginRateWindow)

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), authenticate, optionalAuth, loginLimiter)
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", authenticate))
	}

	hr := api.Group("/hr", authenticate)
	if deps.SkillHandler != nil {
		deps.SkillHandler.Register(hr.Group("/skills"))
	}
	if deps.PerformanceHandler != nil {
		deps.PerformanceHandler.Register(hr.Group("/performance"))
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.Register(hr.Group("/documents"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(hr.Group("/dashboard"))
	}

	// Token-gated tooling routes, no session required.
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}
}
