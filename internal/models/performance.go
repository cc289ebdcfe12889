package models

import "time"

// EvaluationType classifies a performance evaluation.
type EvaluationType string

// Evaluation types.
const (
	EvaluationAcademic        EvaluationType = "ACADEMIC"
	EvaluationInternship      EvaluationType = "INTERNSHIP"
	EvaluationProject         EvaluationType = "PROJECT"
	EvaluationQuarterly       EvaluationType = "QUARTERLY"
	EvaluationAnnual          EvaluationType = "ANNUAL"
	EvaluationProbation       EvaluationType = "PROBATION"
	EvaluationSkillAssessment EvaluationType = "SKILL_ASSESSMENT"
)

// Valid reports whether the evaluation type is a recognised value.
func (t EvaluationType) Valid() bool {
	switch t {
	case EvaluationAcademic, EvaluationInternship, EvaluationProject,
		EvaluationQuarterly, EvaluationAnnual, EvaluationProbation,
		EvaluationSkillAssessment:
		return true
	}
	return false
}

// Performance is a reviewable evaluation of a student over some period.
// Records enter as DRAFT or PENDING and terminate in APPROVED or REJECTED.
type Performance struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	StudentID          uint           `gorm:"index;not null" json:"student_id"`
	Title              string         `gorm:"size:200;not null" json:"title"`
	EvaluationType     EvaluationType `gorm:"size:20;index;not null" json:"evaluation_type"`
	EvaluationPeriod   string         `gorm:"size:100" json:"evaluation_period,omitempty"`
	Score              float64        `json:"score"`
	MaxScore           float64        `gorm:"not null;default:100" json:"max_score"`
	Grade              string         `gorm:"size:5" json:"grade,omitempty"`
	Strengths          string         `gorm:"size:1000" json:"strengths,omitempty"`
	AreasOfImprovement string         `gorm:"size:1000" json:"areas_of_improvement,omitempty"`
	Goals              string         `gorm:"size:1000" json:"goals,omitempty"`
	Feedback           string         `gorm:"size:2000" json:"feedback,omitempty"`
	EvaluatorName      string         `gorm:"size:100" json:"evaluator_name,omitempty"`
	Review             Review         `gorm:"embedded" json:"review"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
