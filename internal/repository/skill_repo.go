package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

// SkillRepository exposes persistence helpers for skill records.
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id uint) (models.Skill, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Skill, error)
	ListByStatus(ctx context.Context, status models.ReviewStatus) ([]models.Skill, error)
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error)
	CountByCategory(ctx context.Context) (map[models.SkillCategory]int64, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository constructs the skill repository.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		return models.Skill{}, err
	}
	return skill, nil
}

func (r *skillRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&skills).Error
	return skills, err
}

func (r *skillRepository) ListByStatus(ctx context.Context, status models.ReviewStatus) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&skills).Error
	return skills, err
}

func (r *skillRepository) Update(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Save(skill).Error
}

func (r *skillRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Skill{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *skillRepository) CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error) {
	rows := []struct {
		Status models.ReviewStatus
		Count  int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Skill{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ReviewStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *skillRepository) CountByCategory(ctx context.Context) (map[models.SkillCategory]int64, error) {
	rows := []struct {
		Category models.SkillCategory
		Count    int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Skill{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.SkillCategory]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}
