package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/service"
	"github.com/jupiter-hub/jupiter-go-api/internal/utils"
)

// PerformanceHandler wires performance evaluation HTTP routes.
type PerformanceHandler struct {
	service service.PerformanceService
	logger  zerolog.Logger
}

// NewPerformanceHandler constructs the handler.
func NewPerformanceHandler(service service.PerformanceService, logger zerolog.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		service: service,
		logger:  logger.With().Str("component", "performance_handler").Logger(),
	}
}

// Register attaches performance endpoints.
func (h *PerformanceHandler) Register(router fiber.Router) {
	router.Post("", middleware.AdminOrHR(), h.create)
	router.Get("/pending", middleware.AdminOrHR(), h.listPending)
	router.Get("/stats", middleware.AdminOrHR(), h.stats)
	router.Get("/student/:studentId", middleware.StudentSelfOrElevated("studentId"), h.listByStudent)
	router.Get("/:id", middleware.AnyAuthenticated(), h.get)
	router.Patch("/:id", middleware.AdminOrHR(), h.update)
	router.Post("/:id/submit", middleware.AdminOrHR(), h.submit)
	router.Post("/:id/approve", middleware.AdminOrHR(), h.approve)
	router.Post("/:id/reject", middleware.AdminOrHR(), h.reject)
	router.Delete("/:id", middleware.AdminOrHR(), h.delete)
}

func (h *PerformanceHandler) create(c *fiber.Ctx) error {
	var payload dto.CreatePerformanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrInvalidEvaluationType), errors.Is(err, service.ErrScoreExceedsMax):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "performance recorded", record)
}

func (h *PerformanceHandler) listPending(c *fiber.Ctx) error {
	records, err := h.service.ListPending(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "pending evaluations retrieved", records)
}

func (h *PerformanceHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "performance records retrieved", records)
}

func (h *PerformanceHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "performance statistics retrieved", stats)
}

func (h *PerformanceHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	record, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPerformanceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "performance record not found")
		}
		return h.internalError(c, err)
	}

	if err := auth.SelfStudentOrElevated(identityFromContext(c), record.StudentID); err != nil {
		return utils.SendError(c, fiber.StatusForbidden, "access forbidden")
	}

	return utils.SendSuccess(c, "performance record retrieved", record)
}

func (h *PerformanceHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdatePerformanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrPerformanceNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "performance record not found")
		case errors.Is(err, service.ErrInvalidEvaluationType), errors.Is(err, service.ErrScoreExceedsMax):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "performance record updated", record)
}

func (h *PerformanceHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	record, err := h.service.Submit(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPerformanceNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "performance record not found")
		case errors.Is(err, service.ErrNotDraft):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "evaluation submitted for review", record)
}

func (h *PerformanceHandler) approve(c *fiber.Ctx) error {
	return h.decide(c, "performance approved", h.service.Approve)
}

func (h *PerformanceHandler) reject(c *fiber.Ctx) error {
	return h.decide(c, "performance rejected", h.service.Reject)
}

func (h *PerformanceHandler) decide(c *fiber.Ctx, message string, decision func(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Performance, error)) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	identity := identityFromContext(c)
	if identity == nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ReviewDecisionRequest
	if err := c.BodyParser(&payload); err != nil && len(c.Body()) > 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := decision(c.Context(), id, *identity, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrPerformanceNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "performance record not found")
		case errors.Is(err, models.ErrAlreadyVerified):
			return utils.SendError(c, fiber.StatusBadRequest, "performance record is already approved")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, message, record)
}

func (h *PerformanceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrPerformanceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "performance record not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "performance record deleted", nil)
}

func (h *PerformanceHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("performance request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
