package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/observability"
	"github.com/jupiter-hub/jupiter-go-api/internal/repository"
)

// Performance record failures.
var (
	ErrPerformanceNotFound   = errors.New("performance record not found")
	ErrInvalidEvaluationType = errors.New("unknown evaluation type")
	ErrScoreExceedsMax       = errors.New("score exceeds max score")
	ErrNotDraft              = errors.New("performance record is not a draft")
)

// PerformanceService manages reviewable performance evaluations.
type PerformanceService interface {
	Create(ctx context.Context, req dto.CreatePerformanceRequest) (models.Performance, error)
	Get(ctx context.Context, id uint) (models.Performance, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Performance, error)
	ListPending(ctx context.Context) ([]models.Performance, error)
	Update(ctx context.Context, id uint, req dto.UpdatePerformanceRequest) (models.Performance, error)
	Submit(ctx context.Context, id uint) (models.Performance, error)
	Approve(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Performance, error)
	Reject(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Performance, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (dto.PerformanceStatsResponse, error)
}

type performanceService struct {
	records   repository.PerformanceRepository
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPerformanceService constructs the performance evaluation service.
func NewPerformanceService(records repository.PerformanceRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) PerformanceService {
	return &performanceService{
		records:   records,
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "performance_service").Logger(),
		now:       time.Now,
	}
}

func (s *performanceService) Create(ctx context.Context, req dto.CreatePerformanceRequest) (models.Performance, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Performance{}, err
	}
	if !req.EvaluationType.Valid() {
		return models.Performance{}, ErrInvalidEvaluationType
	}

	maxScore := req.MaxScore
	if maxScore == 0 {
		maxScore = 100
	}
	if req.Score > maxScore {
		return models.Performance{}, ErrScoreExceedsMax
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrStudentNotFound
		}
		return models.Performance{}, err
	}

	status := models.ReviewStatusPending
	if req.Draft {
		status = models.ReviewStatusDraft
	}

	record := models.Performance{
		StudentID:          req.StudentID,
		Title:              strings.TrimSpace(req.Title),
		EvaluationType:     req.EvaluationType,
		EvaluationPeriod:   strings.TrimSpace(req.EvaluationPeriod),
		Score:              req.Score,
		MaxScore:           maxScore,
		Grade:              strings.ToUpper(strings.TrimSpace(req.Grade)),
		Strengths:          s.sanitizer.Sanitize(req.Strengths),
		AreasOfImprovement: s.sanitizer.Sanitize(req.AreasOfImprovement),
		Goals:              s.sanitizer.Sanitize(req.Goals),
		Feedback:           s.sanitizer.Sanitize(req.Feedback),
		EvaluatorName:      strings.TrimSpace(req.EvaluatorName),
		Review:             models.Review{Status: status},
	}

	if err := s.records.Create(ctx, &record); err != nil {
		return models.Performance{}, err
	}

	s.logger.Info().Uint("performance_id", record.ID).Uint("student_id", record.StudentID).
		Str("status", string(status)).Msg("performance recorded")
	return record, nil
}

func (s *performanceService) Get(ctx context.Context, id uint) (models.Performance, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrPerformanceNotFound
		}
		return models.Performance{}, err
	}
	return record, nil
}

func (s *performanceService) ListByStudent(ctx context.Context, studentID uint) ([]models.Performance, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s.records.ListByStudent(ctx, studentID)
}

func (s *performanceService) ListPending(ctx context.Context) ([]models.Performance, error) {
	return s.records.ListByStatus(ctx, models.ReviewStatusPending)
}

func (s *performanceService) Update(ctx context.Context, id uint, req dto.UpdatePerformanceRequest) (models.Performance, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Performance{}, err
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrPerformanceNotFound
		}
		return models.Performance{}, err
	}

	changed := false
	if req.Title != nil {
		record.Title = strings.TrimSpace(*req.Title)
		changed = true
	}
	if req.EvaluationType != nil {
		if !req.EvaluationType.Valid() {
			return models.Performance{}, ErrInvalidEvaluationType
		}
		record.EvaluationType = *req.EvaluationType
		changed = true
	}
	if req.EvaluationPeriod != nil {
		record.EvaluationPeriod = strings.TrimSpace(*req.EvaluationPeriod)
		changed = true
	}
	if req.MaxScore != nil {
		record.MaxScore = *req.MaxScore
		changed = true
	}
	if req.Score != nil {
		record.Score = *req.Score
		changed = true
	}
	if record.Score > record.MaxScore {
		return models.Performance{}, ErrScoreExceedsMax
	}
	if req.Grade != nil {
		record.Grade = strings.ToUpper(strings.TrimSpace(*req.Grade))
		changed = true
	}
	if req.Strengths != nil {
		record.Strengths = s.sanitizer.Sanitize(*req.Strengths)
		changed = true
	}
	if req.AreasOfImprovement != nil {
		record.AreasOfImprovement = s.sanitizer.Sanitize(*req.AreasOfImprovement)
		changed = true
	}
	if req.Goals != nil {
		record.Goals = s.sanitizer.Sanitize(*req.Goals)
		changed = true
	}
	if req.Feedback != nil {
		record.Feedback = s.sanitizer.Sanitize(*req.Feedback)
		changed = true
	}
	if req.EvaluatorName != nil {
		record.EvaluatorName = strings.TrimSpace(*req.EvaluatorName)
		changed = true
	}

	// Content edits on a decided record reopen the review. Drafts stay drafts.
	if changed && record.Review.Reviewed() {
		record.Review = models.Review{Status: models.ReviewStatusPending}
	}

	if err := s.records.Update(ctx, &record); err != nil {
		return models.Performance{}, err
	}
	return record, nil
}

// Submit moves a DRAFT evaluation into PENDING so it becomes reviewable.
func (s *performanceService) Submit(ctx context.Context, id uint) (models.Performance, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrPerformanceNotFound
		}
		return models.Performance{}, err
	}

	if record.Review.Status != models.ReviewStatusDraft {
		return models.Performance{}, ErrNotDraft
	}

	record.Review.Status = models.ReviewStatusPending
	if err := s.records.Update(ctx, &record); err != nil {
		return models.Performance{}, err
	}
	return record, nil
}

func (s *performanceService) Approve(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Performance, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Performance{}, err
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrPerformanceNotFound
		}
		return models.Performance{}, err
	}

	// A decision needs a live owner; hard-deleted students orphan their records.
	if _, err := s.students.GetByID(ctx, record.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrStudentNotFound
		}
		return models.Performance{}, err
	}

	remarks := s.sanitizer.Sanitize(req.Remarks)
	if err := record.Review.Approve(models.ReviewStatusApproved, reviewerFrom(reviewer), remarks, s.now()); err != nil {
		return models.Performance{}, err
	}

	if err := s.records.Update(ctx, &record); err != nil {
		return models.Performance{}, err
	}

	observability.ReviewDecisions().WithLabelValues("performance", "approved").Inc()
	s.logger.Info().Uint("performance_id", record.ID).Uint("reviewer_id", reviewer.UserID).Msg("performance approved")
	return record, nil
}

func (s *performanceService) Reject(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Performance, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Performance{}, err
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrPerformanceNotFound
		}
		return models.Performance{}, err
	}

	if _, err := s.students.GetByID(ctx, record.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Performance{}, ErrStudentNotFound
		}
		return models.Performance{}, err
	}

	reason := s.sanitizer.Sanitize(req.RejectionReason)
	record.Review.Reject(reviewerFrom(reviewer), reason, s.now())

	if err := s.records.Update(ctx, &record); err != nil {
		return models.Performance{}, err
	}

	observability.ReviewDecisions().WithLabelValues("performance", "rejected").Inc()
	s.logger.Info().Uint("performance_id", record.ID).Uint("reviewer_id", reviewer.UserID).Msg("performance rejected")
	return record, nil
}

func (s *performanceService) Delete(ctx context.Context, id uint) error {
	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPerformanceNotFound
		}
		return err
	}
	return nil
}

func (s *performanceService) Stats(ctx context.Context) (dto.PerformanceStatsResponse, error) {
	byStatus, err := s.records.CountByStatus(ctx)
	if err != nil {
		return dto.PerformanceStatsResponse{}, err
	}

	byType, err := s.records.CountByType(ctx)
	if err != nil {
		return dto.PerformanceStatsResponse{}, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return dto.PerformanceStatsResponse{
		Total:    total,
		Draft:    byStatus[models.ReviewStatusDraft],
		Pending:  byStatus[models.ReviewStatusPending],
		Approved: byStatus[models.ReviewStatusApproved],
		Rejected: byStatus[models.ReviewStatusRejected],
		ByType:   byType,
	}, nil
}
