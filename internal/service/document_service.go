package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/observability"
	"github.com/jupiter-hub/jupiter-go-api/internal/repository"
)

// Document record failures.
var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidDocumentType = errors.New("unknown document type")
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("uploaded file is empty")
)

// allowedMimeTypes are the detected content types accepted for upload.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"image/jpeg":         {},
	"image/png":          {},
	"image/webp":         {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// expiryWindow is how far ahead a document counts as expiring soon.
const expiryWindow = 30 * 24 * time.Hour

// FileUploader abstracts the blob store behind document uploads.
type FileUploader interface {
	Upload(ctx context.Context, studentID uint, name string, reader io.Reader) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// DocumentService manages uploaded, reviewable student documents.
type DocumentService interface {
	Upload(ctx context.Context, req dto.CreateDocumentRequest, fileName string, file io.Reader) (models.Document, error)
	Get(ctx context.Context, id uint) (models.Document, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Document, error)
	ListUnverified(ctx context.Context) ([]models.Document, error)
	ListExpiring(ctx context.Context) ([]models.Document, error)
	Verify(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Document, error)
	Reject(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Document, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (dto.DocumentStatsResponse, error)
}

type documentService struct {
	documents repository.DocumentRepository
	students  repository.StudentRepository
	uploader  FileUploader
	maxBytes  int64
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDocumentService constructs the document service.
func NewDocumentService(documents repository.DocumentRepository, students repository.StudentRepository, uploader FileUploader, maxBytes int64, validate *validator.Validate, logger zerolog.Logger) DocumentService {
	return &documentService{
		documents: documents,
		students:  students,
		uploader:  uploader,
		maxBytes:  maxBytes,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("document-service"),
		logger:    logger.With().Str("component", "document_service").Logger(),
		now:       time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, req dto.CreateDocumentRequest, fileName string, file io.Reader) (models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "document.upload",
		trace.WithAttributes(attribute.Int64("student.id", int64(req.StudentID))))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return models.Document{}, err
	}
	if !req.DocumentType.Valid() {
		return models.Document{}, ErrInvalidDocumentType
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, ErrStudentNotFound
		}
		return models.Document{}, err
	}

	// Buffer the whole file: the size cap is small and we need the bytes
	// twice, once for type detection and once for the upload.
	content, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return models.Document{}, err
	}
	if len(content) == 0 {
		observability.UploadsRejected().WithLabelValues("empty").Inc()
		return models.Document{}, ErrEmptyFile
	}
	if int64(len(content)) > s.maxBytes {
		observability.UploadsRejected().WithLabelValues("too_large").Inc()
		return models.Document{}, ErrFileTooLarge
	}

	// Content type is detected from the bytes, never trusted from the
	// client-supplied header or extension.
	detected := mimetype.Detect(content)
	if _, ok := allowedMimeTypes[detected.String()]; !ok {
		observability.UploadsRejected().WithLabelValues("unsupported_type").Inc()
		return models.Document{}, ErrUnsupportedFileType
	}
	span.SetAttributes(attribute.String("document.mime_type", detected.String()))

	url, publicID, err := s.uploader.Upload(ctx, req.StudentID, fileName, bytes.NewReader(content))
	if err != nil {
		return models.Document{}, err
	}

	document := models.Document{
		StudentID:    req.StudentID,
		DocumentType: req.DocumentType,
		Title:        s.sanitizer.Sanitize(strings.TrimSpace(req.Title)),
		FileName:     fileName,
		FileURL:      url,
		StorageKey:   publicID,
		FileSize:     int64(len(content)),
		MimeType:     detected.String(),
		ExpiryDate:   req.ExpiryDate,
		Review:       models.Review{Status: models.ReviewStatusPending},
	}

	if err := s.documents.Create(ctx, &document); err != nil {
		// The blob is already stored; best effort cleanup so it does not
		// leak when the record insert fails.
		if cleanupErr := s.uploader.Delete(ctx, publicID); cleanupErr != nil {
			s.logger.Error().Err(cleanupErr).Str("public_id", publicID).Msg("orphaned upload cleanup failed")
		}
		return models.Document{}, err
	}

	s.logger.Info().Uint("document_id", document.ID).Uint("student_id", document.StudentID).
		Str("mime_type", document.MimeType).Msg("document uploaded")
	return document, nil
}

func (s *documentService) Get(ctx context.Context, id uint) (models.Document, error) {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, ErrDocumentNotFound
		}
		return models.Document{}, err
	}
	return document, nil
}

func (s *documentService) ListByStudent(ctx context.Context, studentID uint) ([]models.Document, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s.documents.ListByStudent(ctx, studentID)
}

func (s *documentService) ListUnverified(ctx context.Context) ([]models.Document, error) {
	return s.documents.ListByStatus(ctx, models.ReviewStatusPending)
}

func (s *documentService) ListExpiring(ctx context.Context) ([]models.Document, error) {
	now := s.now()
	return s.documents.ListExpiring(ctx, now, now.Add(expiryWindow))
}

func (s *documentService) Verify(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "document.verify",
		trace.WithAttributes(attribute.Int64("document.id", int64(id))))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return models.Document{}, err
	}

	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, ErrDocumentNotFound
		}
		return models.Document{}, err
	}

	// A decision needs a live owner; hard-deleted students orphan their records.
	if _, err := s.students.GetByID(ctx, document.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, ErrStudentNotFound
		}
		return models.Document{}, err
	}

	remarks := s.sanitizer.Sanitize(req.Remarks)
	if err := document.Review.Approve(models.ReviewStatusVerified, reviewerFrom(reviewer), remarks, s.now()); err != nil {
		return models.Document{}, err
	}

	if err := s.documents.Update(ctx, &document); err != nil {
		return models.Document{}, err
	}

	observability.ReviewDecisions().WithLabelValues("document", "verified").Inc()
	s.logger.Info().Uint("document_id", document.ID).Uint("reviewer_id", reviewer.UserID).Msg("document verified")
	return document, nil
}

func (s *documentService) Reject(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "document.reject",
		trace.WithAttributes(attribute.Int64("document.id", int64(id))))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return models.Document{}, err
	}

	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, ErrDocumentNotFound
		}
		return models.Document{}, err
	}

	if _, err := s.students.GetByID(ctx, document.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, ErrStudentNotFound
		}
		return models.Document{}, err
	}

	reason := s.sanitizer.Sanitize(req.RejectionReason)
	document.Review.Reject(reviewerFrom(reviewer), reason, s.now())

	if err := s.documents.Update(ctx, &document); err != nil {
		return models.Document{}, err
	}

	observability.ReviewDecisions().WithLabelValues("document", "rejected").Inc()
	s.logger.Info().Uint("document_id", document.ID).Uint("reviewer_id", reviewer.UserID).Msg("document rejected")
	return document, nil
}

func (s *documentService) Delete(ctx context.Context, id uint) error {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	if err := s.documents.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	// Record first, blob second. A dangling blob is recoverable; a record
	// pointing at a deleted blob is not.
	if err := s.uploader.Delete(ctx, document.StorageKey); err != nil {
		s.logger.Error().Err(err).Uint("document_id", id).Msg("stored file cleanup failed")
	}
	return nil
}

func (s *documentService) Stats(ctx context.Context) (dto.DocumentStatsResponse, error) {
	byStatus, err := s.documents.CountByStatus(ctx)
	if err != nil {
		return dto.DocumentStatsResponse{}, err
	}

	byType, err := s.documents.CountByType(ctx)
	if err != nil {
		return dto.DocumentStatsResponse{}, err
	}

	now := s.now()
	expiring, err := s.documents.CountExpiring(ctx, now, now.Add(expiryWindow))
	if err != nil {
		return dto.DocumentStatsResponse{}, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return dto.DocumentStatsResponse{
		Total:        total,
		Pending:      byStatus[models.ReviewStatusPending],
		Verified:     byStatus[models.ReviewStatusVerified],
		Rejected:     byStatus[models.ReviewStatusRejected],
		ExpiringSoon: expiring,
		ByType:       byType,
	}, nil
}
