package dto

import "github.com/jupiter-hub/jupiter-go-api/internal/models"

// CreateSkillRequest records a new skill claim for a student.
type CreateSkillRequest struct {
	StudentID         uint                    `json:"student_id" validate:"required"`
	SkillName         string                  `json:"skill_name" validate:"required,max=100"`
	Category          models.SkillCategory    `json:"category" validate:"required"`
	ProficiencyLevel  models.ProficiencyLevel `json:"proficiency_level" validate:"required"`
	YearsOfExperience float64                 `json:"years_of_experience" validate:"omitempty,min=0,max=50"`
	Certified         bool                    `json:"certified"`
	CertificationName string                  `json:"certification_name" validate:"omitempty,max=200"`
	Description       string                  `json:"description" validate:"omitempty,max=1000"`
}

// UpdateSkillRequest changes mutable skill fields. Editing content resets the
// review decision so the record can be re-verified.
type UpdateSkillRequest struct {
	SkillName         *string                  `json:"skill_name,omitempty" validate:"omitempty,max=100"`
	Category          *models.SkillCategory    `json:"category,omitempty"`
	ProficiencyLevel  *models.ProficiencyLevel `json:"proficiency_level,omitempty"`
	YearsOfExperience *float64                 `json:"years_of_experience,omitempty" validate:"omitempty,min=0,max=50"`
	Certified         *bool                    `json:"certified,omitempty"`
	CertificationName *string                  `json:"certification_name,omitempty" validate:"omitempty,max=200"`
	Description       *string                  `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// ReviewDecisionRequest carries the optional free text attached to a verify
// or reject decision.
type ReviewDecisionRequest struct {
	Remarks         string `json:"remarks" validate:"omitempty,max=500"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=500"`
}

// SkillStatsResponse summarises skill verification progress.
type SkillStatsResponse struct {
	Total      int64                          `json:"total"`
	Unverified int64                          `json:"unverified"`
	Verified   int64                          `json:"verified"`
	Rejected   int64                          `json:"rejected"`
	ByCategory map[models.SkillCategory]int64 `json:"by_category"`
}
