package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

// PerformanceRepository exposes persistence helpers for performance records.
type PerformanceRepository interface {
	Create(ctx context.Context, record *models.Performance) error
	GetByID(ctx context.Context, id uint) (models.Performance, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Performance, error)
	ListByStatus(ctx context.Context, status models.ReviewStatus) ([]models.Performance, error)
	Update(ctx context.Context, record *models.Performance) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error)
	CountByType(ctx context.Context) (map[models.EvaluationType]int64, error)
}

type performanceRepository struct {
	db *gorm.DB
}

// NewPerformanceRepository constructs the performance repository.
func NewPerformanceRepository(db *gorm.DB) PerformanceRepository {
	return &performanceRepository{db: db}
}

func (r *performanceRepository) Create(ctx context.Context, record *models.Performance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *performanceRepository) GetByID(ctx context.Context, id uint) (models.Performance, error) {
	var record models.Performance
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return models.Performance{}, err
	}
	return record, nil
}

func (r *performanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Performance, error) {
	var records []models.Performance
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *performanceRepository) ListByStatus(ctx context.Context, status models.ReviewStatus) ([]models.Performance, error) {
	var records []models.Performance
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *performanceRepository) Update(ctx context.Context, record *models.Performance) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *performanceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Performance{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *performanceRepository) CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error) {
	rows := []struct {
		Status models.ReviewStatus
		Count  int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Performance{}).
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

func (r *performanceRepository) CountByType(ctx context.Context) (map[models.EvaluationType]int64, error) {
	rows := []struct {
		EvaluationType models.EvaluationType
		Count          int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Performance{}).
		Select("evaluation_type, COUNT(*) as count").
		Group("evaluation_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.EvaluationType]int64, len(rows))
	for _, row := range rows {
		counts[row.EvaluationType] = row.Count
	}
	return counts, nil
}
