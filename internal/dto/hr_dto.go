package dto

import "github.com/jupiter-hub/jupiter-go-api/internal/models"

// DashboardStatsResponse aggregates review workload across the system. It is
// cached with a short TTL; consumers tolerate slightly stale counts.
type DashboardStatsResponse struct {
	Students     StudentStatsResponse     `json:"students"`
	Skills       SkillStatsResponse       `json:"skills"`
	Performances PerformanceStatsResponse `json:"performances"`
	Documents    DocumentStatsResponse    `json:"documents"`
	Pending      PendingActions           `json:"pending_actions"`
}

// PendingActions counts the records awaiting an HR decision.
type PendingActions struct {
	SkillsToVerify       int64 `json:"skills_to_verify"`
	PerformancesToReview int64 `json:"performances_to_review"`
	DocumentsToVerify    int64 `json:"documents_to_verify"`
	ExpiringDocuments    int64 `json:"expiring_documents"`
	Total                int64 `json:"total"`
}

// ReviewCounts is a convenience view over a status count map.
type ReviewCounts struct {
	counts map[models.ReviewStatus]int64
}

// NewReviewCounts wraps a status count map.
func NewReviewCounts(counts map[models.ReviewStatus]int64) ReviewCounts {
	return ReviewCounts{counts: counts}
}

// Of returns the count for a status, zero when absent.
func (r ReviewCounts) Of(status models.ReviewStatus) int64 {
	return r.counts[status]
}

// Total sums every status bucket.
func (r ReviewCounts) Total() int64 {
	var total int64
	for _, count := range r.counts {
		total += count
	}
	return total
}
