package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/service"
	"github.com/jupiter-hub/jupiter-go-api/internal/utils"
)

// StudentHandler wires student roster HTTP routes.
type StudentHandler struct {
	students     service.StudentService
	skills       service.SkillService
	performances service.PerformanceService
	documents    service.DocumentService
	logger       zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students service.StudentService, skills service.SkillService, performances service.PerformanceService, documents service.DocumentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students:     students,
		skills:       skills,
		performances: performances,
		documents:    documents,
		logger:       logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints. Listing and mutation are HR/ADMIN
// capabilities; single-record reads allow a student's own linked record.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("", middleware.AdminOrHR(), h.create)
	router.Get("", middleware.BlockStudentListing(), h.list)
	router.Get("/search", middleware.BlockStudentListing(), h.list)
	router.Get("/stats", middleware.AdminOrHR(), h.stats)
	router.Get("/code/:code", middleware.AdminOrHR(), h.getByCode)
	router.Get("/department/:department", middleware.BlockStudentListing(), h.listByDepartment)
	router.Get("/status/:status", middleware.BlockStudentListing(), h.listByStatus)
	router.Get("/:id", middleware.StudentSelfOrElevated("id"), h.get)
	router.Patch("/:id", middleware.AdminOrHR(), h.update)
	router.Patch("/:id/status", middleware.AdminOrHR(), h.updateStatus)
	router.Delete("/:id", middleware.AdminOnly(), h.delete)

	router.Get("/:id/skills", middleware.StudentSelfOrElevated("id"), h.listSkills)
	router.Get("/:id/performance", middleware.StudentSelfOrElevated("id"), h.listPerformance)
	router.Get("/:id/documents", middleware.StudentSelfOrElevated("id"), h.listDocuments)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.students.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrInvalidDepartment):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStudentCodeTaken), errors.Is(err, service.ErrStudentEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page parameter")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size parameter")
	}

	req := dto.StudentListRequest{
		Department: models.Department(strings.TrimSpace(c.Query("department"))),
		Status:     models.StudentStatus(strings.TrimSpace(c.Query("status"))),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortDesc:   c.Query("order") == "desc",
		Page:       page,
		PageSize:   pageSize,
	}

	listing, err := h.students.List(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDepartment) || errors.Is(err, service.ErrInvalidStudentInput) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", listing)
}

func (h *StudentHandler) listByDepartment(c *fiber.Ctx) error {
	return h.listFiltered(c, dto.StudentListRequest{
		Department: models.Department(strings.ToUpper(strings.TrimSpace(c.Params("department")))),
	})
}

func (h *StudentHandler) listByStatus(c *fiber.Ctx) error {
	return h.listFiltered(c, dto.StudentListRequest{
		Status: models.StudentStatus(strings.ToUpper(strings.TrimSpace(c.Params("status")))),
	})
}

func (h *StudentHandler) listFiltered(c *fiber.Ctx, req dto.StudentListRequest) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page parameter")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size parameter")
	}
	req.Page = page
	req.PageSize = pageSize

	listing, err := h.students.List(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDepartment) || errors.Is(err, service.ErrInvalidStudentInput) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", listing)
}

func (h *StudentHandler) stats(c *fiber.Ctx) error {
	stats, err := h.students.Stats(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "student statistics retrieved", stats)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.students.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) getByCode(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid code parameter")
	}

	student, err := h.students.GetByCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.students.Update(c.Context(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrInvalidDepartment):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStudentEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateStudentStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.students.UpdateStatus(c.Context(), id, payload.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrInvalidStudentInput):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "student status updated", nil)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.students.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "student deleted", nil)
}

func (h *StudentHandler) listSkills(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	skills, err := h.skills.ListByStudent(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "skills retrieved", skills)
}

func (h *StudentHandler) listPerformance(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.performances.ListByStudent(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "performance records retrieved", records)
}

func (h *StudentHandler) listDocuments(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	documents, err := h.documents.ListByStudent(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "documents retrieved", documents)
}

func (h *StudentHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("student request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
