package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/service"
	"github.com/jupiter-hub/jupiter-go-api/internal/utils"
)

// DocumentHandler wires document vault HTTP routes.
type DocumentHandler struct {
	service service.DocumentService
	logger  zerolog.Logger
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(service service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register attaches document endpoints.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("", middleware.AdminOrHR(), h.upload)
	router.Get("/unverified", middleware.AdminOrHR(), h.listUnverified)
	router.Get("/pending", middleware.AdminOrHR(), h.listUnverified)
	router.Get("/expiring", middleware.AdminOrHR(), h.listExpiring)
	router.Get("/stats", middleware.AdminOrHR(), h.stats)
	router.Get("/student/:studentId", middleware.StudentSelfOrElevated("studentId"), h.listByStudent)
	router.Get("/:id", middleware.AnyAuthenticated(), h.get)
	router.Post("/:id/verify", middleware.AdminOrHR(), h.verify)
	router.Post("/:id/reject", middleware.AdminOrHR(), h.reject)
	router.Delete("/:id", middleware.AdminOrHR(), h.delete)
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	var payload dto.CreateDocumentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if raw := strings.TrimSpace(c.FormValue("expiry_date")); raw != "" && payload.ExpiryDate == nil {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "expiry_date must be RFC 3339")
		}
		payload.ExpiryDate = &parsed
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read uploaded file")
	}
	defer file.Close()

	document, err := h.service.Upload(c.Context(), payload, fileHeader.Filename, file)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrInvalidDocumentType),
			errors.Is(err, service.ErrEmptyFile),
			errors.Is(err, service.ErrUnsupportedFileType):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "document uploaded", document)
}

func (h *DocumentHandler) listUnverified(c *fiber.Ctx) error {
	documents, err := h.service.ListUnverified(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "unverified documents retrieved", documents)
}

func (h *DocumentHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	documents, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "documents retrieved", documents)
}

func (h *DocumentHandler) listExpiring(c *fiber.Ctx) error {
	documents, err := h.service.ListExpiring(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "expiring documents retrieved", documents)
}

func (h *DocumentHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "document statistics retrieved", stats)
}

func (h *DocumentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	document, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "document not found")
		}
		return h.internalError(c, err)
	}

	if err := auth.SelfStudentOrElevated(identityFromContext(c), document.StudentID); err != nil {
		return utils.SendError(c, fiber.StatusForbidden, "access forbidden")
	}

	return utils.SendSuccess(c, "document retrieved", document)
}

func (h *DocumentHandler) verify(c *fiber.Ctx) error {
	return h.decide(c, "document verified", h.service.Verify)
}

func (h *DocumentHandler) reject(c *fiber.Ctx) error {
	return h.decide(c, "document rejected", h.service.Reject)
}

func (h *DocumentHandler) decide(c *fiber.Ctx, message string, decision func(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Document, error)) error {
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

	document, err := decision(c.Context(), id, *identity, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, service.ErrDocumentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "document not found")
		case errors.Is(err, models.ErrAlreadyVerified):
			return utils.SendError(c, fiber.StatusBadRequest, "document is already verified")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, message, document)
}

func (h *DocumentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "document not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "document deleted", nil)
}

func (h *DocumentHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("document request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
