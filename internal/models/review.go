package models

import (
	"errors"
	"time"
)

// ReviewStatus is the lifecycle state shared by skills, performance
// evaluations and documents.
type ReviewStatus string

// Review statuses. Skills and documents start PENDING and terminate in
// VERIFIED; performance evaluations start DRAFT or PENDING and terminate in
// APPROVED. REJECTED is shared.
const (
	ReviewStatusDraft    ReviewStatus = "DRAFT"
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusVerified ReviewStatus = "VERIFIED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

// ErrAlreadyVerified is returned when a record in its approved terminal state
// receives a second approval.
var ErrAlreadyVerified = errors.New("record already verified")

// Reviewer identifies the user applying a review decision.
type Reviewer struct {
	ID   uint
	Name string
}

// Review carries the decision fields embedded in every reviewable record.
// The approval branch (Remarks) and the rejection branch (RejectionReason)
// are mutually exclusive: applying one clears the other.
type Review struct {
	Status          ReviewStatus `gorm:"size:20;index;not null" json:"status"`
	ReviewerID      *uint        `json:"reviewer_id,omitempty"`
	ReviewerName    string       `gorm:"size:100" json:"reviewer_name,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewed_at,omitempty"`
	Remarks         string       `gorm:"size:500" json:"remarks,omitempty"`
	RejectionReason string       `gorm:"size:500" json:"rejection_reason,omitempty"`
}

// Approve transitions the record into the given terminal state. A record
// already in that state is rejected with ErrAlreadyVerified; re-approval
// requires the underlying content to be resubmitted first.
func (r *Review) Approve(approved ReviewStatus, reviewer Reviewer, remarks string, now time.Time) error {
	if r.Status == approved {
		return ErrAlreadyVerified
	}

	r.Status = approved
	r.ReviewerID = &reviewer.ID
	r.ReviewerName = reviewer.Name
	r.ReviewedAt = &now
	r.Remarks = remarks
	r.RejectionReason = ""
	return nil
}

// Reject moves the record into REJECTED. There is no already-rejected guard:
// rejecting twice re-stamps the reviewer and timestamp.
func (r *Review) Reject(reviewer Reviewer, reason string, now time.Time) {
	r.Status = ReviewStatusRejected
	r.ReviewerID = &reviewer.ID
	r.ReviewerName = reviewer.Name
	r.ReviewedAt = &now
	r.RejectionReason = reason
	r.Remarks = ""
}

// Reviewed reports whether a decision has been applied.
func (r Review) Reviewed() bool {
	return r.Status == ReviewStatusApproved || r.Status == ReviewStatusVerified || r.Status == ReviewStatusRejected
}
