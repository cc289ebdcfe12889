package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

// StudentFilter narrows and pages student listings.
type StudentFilter struct {
	Department models.Department
	Status     models.StudentStatus
	Search     string
	SortBy     string
	SortDesc   bool
	Page       int
	PageSize   int
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByCode(ctx context.Context, code string) (models.Student, error)
	GetByEmail(ctx context.Context, email string) (models.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateStatus(ctx context.Context, id uint, status models.StudentStatus) error
	SetLinkedUser(ctx context.Context, id uint, userID uint) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[models.StudentStatus]int64, error)
	CountByDepartment(ctx context.Context) (map[models.Department]int64, error)
	UpsertBatch(ctx context.Context, students []models.Student) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	student.StudentCode = strings.ToUpper(strings.TrimSpace(student.StudentCode))
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByCode(ctx context.Context, code string) (models.Student, error) {
	var student models.Student
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.WithContext(ctx).Where("student_code = ?", normalized).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (models.Student, error) {
	var student models.Student
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(student_code) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.SortBy, filter.SortDesc))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) UpdateStatus(ctx context.Context, id uint, status models.StudentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) SetLinkedUser(ctx context.Context, id uint, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", id).
		Update("user_id", userID).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) CountByStatus(ctx context.Context) (map[models.StudentStatus]int64, error) {
	rows := []struct {
		Status models.StudentStatus
		Count  int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.StudentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *studentRepository) CountByDepartment(ctx context.Context) (map[models.Department]int64, error) {
	rows := []struct {
		Department models.Department
		Count      int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Select("department, COUNT(*) as count").
		Group("department").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Department]int64, len(rows))
	for _, row := range rows {
		counts[row.Department] = row.Count
	}
	return counts, nil
}

func (r *studentRepository) UpsertBatch(ctx context.Context, students []models.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "email", "phone", "department",
			"course", "semester", "cgpa", "status", "updated_at",
		}),
	})

	result := tx.Create(&students)
	return result.RowsAffected, result.Error
}

func orderClause(sortBy string, desc bool) string {
	column := "created_at"
	switch sortBy {
	case "first_name", "last_name", "email", "student_code", "cgpa", "semester", "created_at":
		column = sortBy
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
