package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

// DocumentRepository exposes persistence helpers for document records.
type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	GetByID(ctx context.Context, id uint) (models.Document, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Document, error)
	ListByStatus(ctx context.Context, status models.ReviewStatus) ([]models.Document, error)
	ListExpiring(ctx context.Context, from, until time.Time) ([]models.Document, error)
	Update(ctx context.Context, document *models.Document) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error)
	CountByType(ctx context.Context) (map[models.DocumentType]int64, error)
	CountExpiring(ctx context.Context, from, until time.Time) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository constructs the document repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id uint) (models.Document, error) {
	var document models.Document
	if err := r.db.WithContext(ctx).First(&document, id).Error; err != nil {
		return models.Document{}, err
	}
	return document, nil
}

func (r *documentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

func (r *documentRepository) ListByStatus(ctx context.Context, status models.ReviewStatus) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

func (r *documentRepository) ListExpiring(ctx context.Context, from, until time.Time) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Where("expiry_date > ? AND expiry_date <= ?", from, until).
		Order("expiry_date ASC").
		Find(&documents).Error
	return documents, err
}

func (r *documentRepository) Update(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Save(document).Error
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *documentRepository) CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error) {
	rows := []struct {
		Status models.ReviewStatus
		Count  int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Document{}).
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

func (r *documentRepository) CountByType(ctx context.Context) (map[models.DocumentType]int64, error) {
	rows := []struct {
		DocumentType models.DocumentType
		Count        int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Select("document_type, COUNT(*) as count").
		Group("document_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.DocumentType]int64, len(rows))
	for _, row := range rows {
		counts[row.DocumentType] = row.Count
	}
	return counts, nil
}

func (r *documentRepository) CountExpiring(ctx context.Context, from, until time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("expiry_date > ? AND expiry_date <= ?", from, until).
		Count(&count).Error
	return count, err
}
