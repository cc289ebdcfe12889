package models

import (
	"time"

	"gorm.io/datatypes"
)

// StudentStatus tracks the enrolment state of a student.
type StudentStatus string

// Student statuses.
const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusInactive  StudentStatus = "INACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusSuspended StudentStatus = "SUSPENDED"
	StudentStatusOnLeave   StudentStatus = "ON_LEAVE"
)

// StudentStatuses lists every recognised status value.
var StudentStatuses = []StudentStatus{
	StudentStatusActive,
	StudentStatusInactive,
	StudentStatusGraduated,
	StudentStatusSuspended,
	StudentStatusOnLeave,
}

// Valid reports whether the status is a recognised value.
func (s StudentStatus) Valid() bool {
	for _, candidate := range StudentStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Department is an academic department code.
type Department string

// Departments.
const (
	DepartmentComputerScience Department = "COMPUTER_SCIENCE"
	DepartmentInformationTech Department = "INFORMATION_TECHNOLOGY"
	DepartmentElectronics     Department = "ELECTRONICS"
	DepartmentMechanical      Department = "MECHANICAL"
	DepartmentCivil           Department = "CIVIL"
	DepartmentElectrical      Department = "ELECTRICAL"
	DepartmentChemical        Department = "CHEMICAL"
	DepartmentBiotechnology   Department = "BIOTECHNOLOGY"
)

// Valid reports whether the department is a recognised value.
func (d Department) Valid() bool {
	switch d {
	case DepartmentComputerScience, DepartmentInformationTech, DepartmentElectronics,
		DepartmentMechanical, DepartmentCivil, DepartmentElectrical,
		DepartmentChemical, DepartmentBiotechnology:
		return true
	}
	return false
}

// Gender values accepted on student profiles.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Student is the owner entity for skills, performance reviews and documents.
// StudentCode is assigned once and never changes.
type Student struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	StudentCode      string            `gorm:"size:20;uniqueIndex;not null" json:"student_code"`
	FirstName        string            `gorm:"size:50;not null" json:"first_name"`
	LastName         string            `gorm:"size:50;not null" json:"last_name"`
	Email            string            `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone            string            `gorm:"size:20" json:"phone,omitempty"`
	DateOfBirth      *time.Time        `json:"date_of_birth,omitempty"`
	Gender           Gender            `gorm:"size:10" json:"gender,omitempty"`
	Department       Department        `gorm:"size:40;index;not null" json:"department"`
	Course           string            `gorm:"size:100" json:"course,omitempty"`
	Semester         int               `json:"semester,omitempty"`
	CGPA             float64           `json:"cgpa,omitempty"`
	Address          datatypes.JSONMap `json:"address,omitempty"`
	Status           StudentStatus     `gorm:"size:20;index;not null;default:ACTIVE" json:"status"`
	UserID           *uint             `json:"user_id,omitempty"`
	ProfileImage     string            `gorm:"size:500" json:"profile_image,omitempty"`
	EmergencyContact datatypes.JSONMap `json:"emergency_contact,omitempty"`
	Notes            string            `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// FullName joins the first and last name for display.
func (s Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
