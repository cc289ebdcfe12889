package dto

import (
	"time"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

// CreateStudentRequest registers a new student record. StudentCode is
// optional; one is generated when absent and immutable afterwards.
type CreateStudentRequest struct {
	StudentCode string                 `json:"student_code" validate:"omitempty,max=20"`
	FirstName   string                 `json:"first_name" validate:"required,max=50"`
	LastName    string                 `json:"last_name" validate:"required,max=50"`
	Email       string                 `json:"email" validate:"required,email"`
	Phone       string                 `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth *time.Time             `json:"date_of_birth,omitempty"`
	Gender      models.Gender          `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Department  models.Department      `json:"department" validate:"required"`
	Course      string                 `json:"course" validate:"omitempty,max=100"`
	Semester    int                    `json:"semester" validate:"omitempty,min=1,max=8"`
	CGPA        float64                `json:"cgpa" validate:"omitempty,min=0,max=10"`
	Address     map[string]interface{} `json:"address,omitempty"`
	Notes       string                 `json:"notes" validate:"omitempty,max=500"`
}

// UpdateStudentRequest changes mutable student fields. The student code is
// never updatable.
type UpdateStudentRequest struct {
	FirstName  *string                `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName   *string                `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Email      *string                `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string                `json:"phone,omitempty" validate:"omitempty,max=20"`
	Gender     *models.Gender         `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Department *models.Department     `json:"department,omitempty"`
	Course     *string                `json:"course,omitempty" validate:"omitempty,max=100"`
	Semester   *int                   `json:"semester,omitempty" validate:"omitempty,min=1,max=8"`
	CGPA       *float64               `json:"cgpa,omitempty" validate:"omitempty,min=0,max=10"`
	Address    map[string]interface{} `json:"address,omitempty"`
	Notes      *string                `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// UpdateStudentStatusRequest transitions a student's enrolment status.
type UpdateStudentStatusRequest struct {
	Status models.StudentStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE GRADUATED SUSPENDED ON_LEAVE"`
}

// StudentListRequest filters and pages a student listing.
type StudentListRequest struct {
	Department models.Department
	Status     models.StudentStatus
	Search     string
	SortBy     string
	SortDesc   bool
	Page       int
	PageSize   int
}

// StudentListResponse wraps a page of students.
type StudentListResponse struct {
	Items      []models.Student `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// StudentStatsResponse summarises the student population.
type StudentStatsResponse struct {
	Total        int64                          `json:"total"`
	ByStatus     map[models.StudentStatus]int64 `json:"by_status"`
	ByDepartment map[models.Department]int64    `json:"by_department"`
}
