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

// SkillHandler wires skill HTTP routes.
type SkillHandler struct {
	service service.SkillService
	logger  zerolog.Logger
}

// NewSkillHandler constructs the handler.
func NewSkillHandler(service service.SkillService, logger zerolog.Logger) *SkillHandler {
	return &SkillHandler{
		service: service,
		logger:  logger.With().Str("component", "skill_handler").Logger(),
	}
}

// Register attaches skill endpoints. Mutation and review are HR/ADMIN
// capabilities; single-record reads allow the owning student.
func (h *SkillHandler) Register(router fiber.Router) {
	router.Post("", middleware.AdminOrHR(), h.create)
	router.Get("/unverified", middleware.AdminOrHR(), h.listUnverified)
	router.Get("/stats", middleware.AdminOrHR(), h.stats)
	router.Get("/student/:studentId", middleware.StudentSelfOrElevated("studentId"), h.listByStudent)
	router.Get("/:id", middleware.AnyAuthenticated(), h.get)
	router.Patch("/:id", middleware.AdminOrHR(), h.update)
	router.Post("/:id/verify", middleware.AdminOrHR(), h.verify)
	router.Post("/:id/reject", middleware.AdminOrHR(), h.reject)
	router.Delete("/:id", middleware.AdminOrHR(), h.delete)
}

func (h *SkillHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateSkillRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	skill, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrInvalidProficiency):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "skill recorded", skill)
}

func (h *SkillHandler) listUnverified(c *fiber.Ctx) error {
	skills, err := h.service.ListUnverified(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "unverified skills retrieved", skills)
}

func (h *SkillHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	skills, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "skills retrieved", skills)
}

func (h *SkillHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "skill statistics retrieved", stats)
}

func (h *SkillHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	skill, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSkillNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "skill not found")
		}
		return h.internalError(c, err)
	}

	// Students only see their own records.
	if err := auth.SelfStudentOrElevated(identityFromContext(c), skill.StudentID); err != nil {
		return utils.SendError(c, fiber.StatusForbidden, "access forbidden")
	}

	return utils.SendSuccess(c, "skill retrieved", skill)
}

func (h *SkillHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateSkillRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	skill, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrSkillNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "skill not found")
		case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrInvalidProficiency):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "skill updated", skill)
}

func (h *SkillHandler) verify(c *fiber.Ctx) error {
	return h.decide(c, "skill verified", h.service.Verify)
}

func (h *SkillHandler) reject(c *fiber.Ctx) error {
	return h.decide(c, "skill rejected", h.service.Reject)
}

func (h *SkillHandler) decide(c *fiber.Ctx, message string, decision func(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Skill, error)) error {
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

	skill, err := decision(c.Context(), id, *identity, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrSkillNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "skill not found")
		case errors.Is(err, models.ErrAlreadyVerified):
			return utils.SendError(c, fiber.StatusBadRequest, "skill is already verified")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, message, skill)
}

func (h *SkillHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrSkillNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "skill not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "skill deleted", nil)
}

func (h *SkillHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("skill request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
