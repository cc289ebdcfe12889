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

// Skill record failures.
var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrInvalidCategory    = errors.New("unknown skill category")
	ErrInvalidProficiency = errors.New("unknown proficiency level")
)

// SkillService manages reviewable skill claims.
type SkillService interface {
	Create(ctx context.Context, req dto.CreateSkillRequest) (models.Skill, error)
	Get(ctx context.Context, id uint) (models.Skill, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Skill, error)
	ListUnverified(ctx context.Context) ([]models.Skill, error)
	Update(ctx context.Context, id uint, req dto.UpdateSkillRequest) (models.Skill, error)
	Verify(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Skill, error)
	Reject(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Skill, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (dto.SkillStatsResponse, error)
}

type skillService struct {
	skills    repository.SkillRepository
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSkillService constructs the skill service.
func NewSkillService(skills repository.SkillRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) SkillService {
	return &skillService{
		skills:    skills,
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "skill_service").Logger(),
		now:       time.Now,
	}
}

func (s *skillService) Create(ctx context.Context, req dto.CreateSkillRequest) (models.Skill, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Skill{}, err
	}
	if !req.Category.Valid() {
		return models.Skill{}, ErrInvalidCategory
	}
	if !req.ProficiencyLevel.Valid() {
		return models.Skill{}, ErrInvalidProficiency
	}

	// The owner must exist before a claim can be attached to it.
	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Skill{}, ErrStudentNotFound
		}
		return models.Skill{}, err
	}

	skill := models.Skill{
		StudentID:         req.StudentID,
		SkillName:         strings.TrimSpace(req.SkillName),
		Category:          req.Category,
		ProficiencyLevel:  req.ProficiencyLevel,
		YearsOfExperience: req.YearsOfExperience,
		Certified:         req.Certified,
		CertificationName: strings.TrimSpace(req.CertificationName),
		Description:       s.sanitizer.Sanitize(req.Description),
		Review:            models.Review{Status: models.ReviewStatusPending},
	}

	if err := s.skills.Create(ctx, &skill); err != nil {
		return models.Skill{}, err
	}

	s.logger.Info().Uint("skill_id", skill.ID).Uint("student_id", skill.StudentID).Msg("skill recorded")
	return skill, nil
}

func (s *skillService) Get(ctx context.Context, id uint) (models.Skill, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Skill{}, ErrSkillNotFound
		}
		return models.Skill{}, err
	}
	return skill, nil
}

func (s *skillService) ListByStudent(ctx context.Context, studentID uint) ([]models.Skill, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s.skills.ListByStudent(ctx, studentID)
}

func (s *skillService) ListUnverified(ctx context.Context) ([]models.Skill, error) {
	return s.skills.ListByStatus(ctx, models.ReviewStatusPending)
}

func (s *skillService) Update(ctx context.Context, id uint, req dto.UpdateSkillRequest) (models.Skill, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Skill{}, err
	}

	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Skill{}, ErrSkillNotFound
		}
		return models.Skill{}, err
	}

	changed := false
	if req.SkillName != nil {
		skill.SkillName = strings.TrimSpace(*req.SkillName)
		changed = true
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return models.Skill{}, ErrInvalidCategory
		}
		skill.Category = *req.Category
		changed = true
	}
	if req.ProficiencyLevel != nil {
		if !req.ProficiencyLevel.Valid() {
			return models.Skill{}, ErrInvalidProficiency
		}
		skill.ProficiencyLevel = *req.ProficiencyLevel
		changed = true
	}
	if req.YearsOfExperience != nil {
		skill.YearsOfExperience = *req.YearsOfExperience
		changed = true
	}
	if req.Certified != nil {
		skill.Certified = *req.Certified
		changed = true
	}
	if req.CertificationName != nil {
		skill.CertificationName = strings.TrimSpace(*req.CertificationName)
		changed = true
	}
	if req.Description != nil {
		skill.Description = s.sanitizer.Sanitize(*req.Description)
		changed = true
	}

	// Editing a reviewed claim sends it back through verification.
	if changed && skill.Review.Reviewed() {
		skill.Review = models.Review{Status: models.ReviewStatusPending}
	}

	if err := s.skills.Update(ctx, &skill); err != nil {
		return models.Skill{}, err
	}
	return skill, nil
}

func (s *skillService) Verify(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Skill, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Skill{}, err
	}

	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Skill{}, ErrSkillNotFound
		}
		return models.Skill{}, err
	}

	// A decision needs a live owner; hard-deleted students orphan their records.
	if _, err := s.students.GetByID(ctx, skill.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Skill{}, ErrStudentNotFound
		}
		return models.Skill{}, err
	}

	remarks := s.sanitizer.Sanitize(req.Remarks)
	if err := skill.Review.Approve(models.ReviewStatusVerified, reviewerFrom(reviewer), remarks, s.now()); err != nil {
		return models.Skill{}, err
	}

	if err := s.skills.Update(ctx, &skill); err != nil {
		return models.Skill{}, err
	}

	observability.ReviewDecisions().WithLabelValues("skill", "verified").Inc()
	s.logger.Info().Uint("skill_id", skill.ID).Uint("reviewer_id", reviewer.UserID).Msg("skill verified")
	return skill, nil
}

func (s *skillService) Reject(ctx context.Context, id uint, reviewer auth.Identity, req dto.ReviewDecisionRequest) (models.Skill, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Skill{}, err
	}

	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Skill{}, ErrSkillNotFound
		}
		return models.Skill{}, err
	}

	if _, err := s.students.GetByID(ctx, skill.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Skill{}, ErrStudentNotFound
		}
		return models.Skill{}, err
	}

	reason := s.sanitizer.Sanitize(req.RejectionReason)
	skill.Review.Reject(reviewerFrom(reviewer), reason, s.now())

	if err := s.skills.Update(ctx, &skill); err != nil {
		return models.Skill{}, err
	}

	observability.ReviewDecisions().WithLabelValues("skill", "rejected").Inc()
	s.logger.Info().Uint("skill_id", skill.ID).Uint("reviewer_id", reviewer.UserID).Msg("skill rejected")
	return skill, nil
}

func (s *skillService) Delete(ctx context.Context, id uint) error {
	if err := s.skills.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSkillNotFound
		}
		return err
	}
	return nil
}

func (s *skillService) Stats(ctx context.Context) (dto.SkillStatsResponse, error) {
	byStatus, err := s.skills.CountByStatus(ctx)
	if err != nil {
		return dto.SkillStatsResponse{}, err
	}

	byCategory, err := s.skills.CountByCategory(ctx)
	if err != nil {
		return dto.SkillStatsResponse{}, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return dto.SkillStatsResponse{
		Total:      total,
		Unverified: byStatus[models.ReviewStatusPending],
		Verified:   byStatus[models.ReviewStatusVerified],
		Rejected:   byStatus[models.ReviewStatusRejected],
		ByCategory: byCategory,
	}, nil
}

// reviewerFrom maps an identity onto the review stamp.
func reviewerFrom(identity auth.Identity) models.Reviewer {
	return models.Reviewer{ID: identity.UserID, Name: identity.Email}
}
