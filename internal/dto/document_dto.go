package dto

import (
	"time"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

// CreateDocumentRequest accompanies a multipart document upload.
type CreateDocumentRequest struct {
	StudentID    uint                `json:"student_id" form:"student_id" validate:"required"`
	DocumentType models.DocumentType `json:"document_type" form:"document_type" validate:"required"`
	Title        string              `json:"title" form:"title" validate:"required,max=200"`
	ExpiryDate   *time.Time          `json:"expiry_date,omitempty" form:"expiry_date"`
}

// DocumentStatsResponse summarises document verification progress.
type DocumentStatsResponse struct {
	Total        int64                         `json:"total"`
	Pending      int64                         `json:"pending"`
	Verified     int64                         `json:"verified"`
	Rejected     int64                         `json:"rejected"`
	ExpiringSoon int64                         `json:"expiring_soon"`
	ByType       map[models.DocumentType]int64 `json:"by_type"`
}
