package dto

import "github.com/jupiter-hub/jupiter-go-api/internal/models"

// CreatePerformanceRequest records a new evaluation for a student.
type CreatePerformanceRequest struct {
	StudentID          uint                  `json:"student_id" validate:"required"`
	Title              string                `json:"title" validate:"required,max=200"`
	EvaluationType     models.EvaluationType `json:"evaluation_type" validate:"required"`
	EvaluationPeriod   string                `json:"evaluation_period" validate:"omitempty,max=100"`
	Score              float64               `json:"score" validate:"omitempty,min=0"`
	MaxScore           float64               `json:"max_score" validate:"omitempty,min=1"`
	Grade              string                `json:"grade" validate:"omitempty,max=5"`
	Strengths          string                `json:"strengths" validate:"omitempty,max=1000"`
	AreasOfImprovement string                `json:"areas_of_improvement" validate:"omitempty,max=1000"`
	Goals              string                `json:"goals" validate:"omitempty,max=1000"`
	Feedback           string                `json:"feedback" validate:"omitempty,max=2000"`
	EvaluatorName      string                `json:"evaluator_name" validate:"omitempty,max=100"`
	Draft              bool                  `json:"draft"`
}

// UpdatePerformanceRequest changes mutable evaluation fields. Content edits
// reset the review decision back to PENDING.
type UpdatePerformanceRequest struct {
	Title              *string                `json:"title,omitempty" validate:"omitempty,max=200"`
	EvaluationType     *models.EvaluationType `json:"evaluation_type,omitempty"`
	EvaluationPeriod   *string                `json:"evaluation_period,omitempty" validate:"omitempty,max=100"`
	Score              *float64               `json:"score,omitempty" validate:"omitempty,min=0"`
	MaxScore           *float64               `json:"max_score,omitempty" validate:"omitempty,min=1"`
	Grade              *string                `json:"grade,omitempty" validate:"omitempty,max=5"`
	Strengths          *string                `json:"strengths,omitempty" validate:"omitempty,max=1000"`
	AreasOfImprovement *string                `json:"areas_of_improvement,omitempty" validate:"omitempty,max=1000"`
	Goals              *string                `json:"goals,omitempty" validate:"omitempty,max=1000"`
	Feedback           *string                `json:"feedback,omitempty" validate:"omitempty,max=2000"`
	EvaluatorName      *string                `json:"evaluator_name,omitempty" validate:"omitempty,max=100"`
}

// PerformanceStatsResponse summarises evaluation review progress.
type PerformanceStatsResponse struct {
	Total    int64                           `json:"total"`
	Draft    int64                           `json:"draft"`
	Pending  int64                           `json:"pending"`
	Approved int64                           `json:"approved"`
	Rejected int64                           `json:"rejected"`
	ByType   map[models.EvaluationType]int64 `json:"by_type"`
}
