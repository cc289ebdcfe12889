package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/service"
	"github.com/jupiter-hub/jupiter-go-api/internal/utils"
)

// DashboardHandler wires the HR dashboard routes.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard endpoints.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/stats", middleware.AdminOrHR(), h.stats)
	router.Post("/stats/refresh", middleware.AdminOrHR(), h.refresh)
}

func (h *DashboardHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("dashboard stats failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return utils.SendSuccess(c, "dashboard statistics retrieved", stats)
}

// refresh drops the cached snapshot and returns fresh numbers.
func (h *DashboardHandler) refresh(c *fiber.Ctx) error {
	if err := h.service.Invalidate(c.Context()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
	return h.stats(c)
}
