package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/repository"
)

// Student record failures.
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrStudentCodeTaken    = errors.New("student code already in use")
	ErrStudentEmailTaken   = errors.New("student email already in use")
	ErrInvalidDepartment   = errors.New("unknown department")
	ErrInvalidStudentInput = errors.New("invalid student payload")
)

// StudentService manages the student roster.
type StudentService interface {
	Create(ctx context.Context, req dto.CreateStudentRequest) (models.Student, error)
	Get(ctx context.Context, id uint) (models.Student, error)
	GetByCode(ctx context.Context, code string) (models.Student, error)
	List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateStudentRequest) (models.Student, error)
	UpdateStatus(ctx context.Context, id uint, status models.StudentStatus) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (dto.StudentStatsResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService constructs the student roster service.
func NewStudentService(students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) Create(ctx context.Context, req dto.CreateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, err
	}
	if !req.Department.Valid() {
		return models.Student{}, ErrInvalidDepartment
	}

	code := strings.ToUpper(strings.TrimSpace(req.StudentCode))
	if code == "" {
		code = generateStudentCode(s.now())
	} else {
		if _, err := s.students.GetByCode(ctx, code); err == nil {
			return models.Student{}, ErrStudentCodeTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, err
		}
	}

	if _, err := s.students.GetByEmail(ctx, req.Email); err == nil {
		return models.Student{}, ErrStudentEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, err
	}

	student := models.Student{
		StudentCode: code,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		Phone:       strings.TrimSpace(req.Phone),
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Department:  req.Department,
		Course:      strings.TrimSpace(req.Course),
		Semester:    req.Semester,
		CGPA:        req.CGPA,
		Status:      models.StudentStatusActive,
		Notes:       s.sanitizer.Sanitize(req.Notes),
	}
	if req.Address != nil {
		student.Address = datatypes.JSONMap(req.Address)
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return models.Student{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("code", student.StudentCode).Msg("student created")
	return student, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

func (s *studentService) GetByCode(ctx context.Context, code string) (models.Student, error) {
	student, err := s.students.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	if req.Department != "" && !req.Department.Valid() {
		return dto.StudentListResponse{}, ErrInvalidDepartment
	}
	if req.Status != "" && !req.Status.Valid() {
		return dto.StudentListResponse{}, fmt.Errorf("%w: status %q", ErrInvalidStudentInput, req.Status)
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	students, total, err := s.students.List(ctx, repository.StudentFilter{
		Department: req.Department,
		Status:     req.Status,
		Search:     strings.TrimSpace(req.Search),
		SortBy:     req.SortBy,
		SortDesc:   req.SortDesc,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	if students == nil {
		students = []models.Student{}
	}
	return dto.StudentListResponse{
		Items:      students,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req dto.UpdateStudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}

	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		if normalized != student.Email {
			if _, err := s.students.GetByEmail(ctx, normalized); err == nil {
				return models.Student{}, ErrStudentEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Student{}, err
			}
			student.Email = normalized
		}
	}
	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		student.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Gender != nil {
		student.Gender = *req.Gender
	}
	if req.Department != nil {
		if !req.Department.Valid() {
			return models.Student{}, ErrInvalidDepartment
		}
		student.Department = *req.Department
	}
	if req.Course != nil {
		student.Course = strings.TrimSpace(*req.Course)
	}
	if req.Semester != nil {
		student.Semester = *req.Semester
	}
	if req.CGPA != nil {
		student.CGPA = *req.CGPA
	}
	if req.Address != nil {
		student.Address = datatypes.JSONMap(req.Address)
	}
	if req.Notes != nil {
		student.Notes = s.sanitizer.Sanitize(*req.Notes)
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (s *studentService) UpdateStatus(ctx context.Context, id uint, status models.StudentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidStudentInput, status)
	}

	if err := s.students.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Uint("student_id", id).Str("status", string(status)).Msg("student status updated")
	return nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Uint("student_id", id).Msg("student deleted")
	return nil
}

func (s *studentService) Stats(ctx context.Context) (dto.StudentStatsResponse, error) {
	byStatus, err := s.students.CountByStatus(ctx)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	byDepartment, err := s.students.CountByDepartment(ctx)
	if err != nil {
		return dto.StudentStatsResponse{}, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return dto.StudentStatsResponse{
		Total:        total,
		ByStatus:     byStatus,
		ByDepartment: byDepartment,
	}, nil
}

// generateStudentCode mints a code like STU2026-3F9A12ED when the caller
// does not supply one.
func generateStudentCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("STU%d-%s", now.Year(), suffix)
}
