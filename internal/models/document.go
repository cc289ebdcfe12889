package models

import "time"

// DocumentType classifies an uploaded document.
type DocumentType string

// Document types.
const (
	DocumentIDProof          DocumentType = "ID_PROOF"
	DocumentAddressProof     DocumentType = "ADDRESS_PROOF"
	DocumentAcademicCert     DocumentType = "ACADEMIC_CERTIFICATE"
	DocumentProfessionalCert DocumentType = "PROFESSIONAL_CERTIFICATE"
	DocumentTranscript       DocumentType = "TRANSCRIPT"
	DocumentResume           DocumentType = "RESUME"
	DocumentCoverLetter      DocumentType = "COVER_LETTER"
	DocumentOfferLetter      DocumentType = "OFFER_LETTER"
	DocumentExperienceLetter DocumentType = "EXPERIENCE_LETTER"
	DocumentRecommendation   DocumentType = "RECOMMENDATION_LETTER"
	DocumentPassport         DocumentType = "PASSPORT"
	DocumentVisa             DocumentType = "VISA"
	DocumentMedicalRecord    DocumentType = "MEDICAL_RECORD"
	DocumentOther            DocumentType = "OTHER"
)

// Valid reports whether the document type is a recognised value.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentIDProof, DocumentAddressProof, DocumentAcademicCert,
		DocumentProfessionalCert, DocumentTranscript, DocumentResume,
		DocumentCoverLetter, DocumentOfferLetter, DocumentExperienceLetter,
		DocumentRecommendation, DocumentPassport, DocumentVisa,
		DocumentMedicalRecord, DocumentOther:
		return true
	}
	return false
}

// Document is an uploaded file attached to a student, subject to HR
// verification. New documents start PENDING and terminate in VERIFIED.
type Document struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	StudentID    uint         `gorm:"index;not null" json:"student_id"`
	DocumentType DocumentType `gorm:"size:30;index;not null" json:"document_type"`
	Title        string       `gorm:"size:200;not null" json:"title"`
	FileName     string       `gorm:"size:255;not null" json:"file_name"`
	FileURL      string       `gorm:"size:500;not null" json:"file_url"`
	StorageKey   string       `gorm:"size:255" json:"-"`
	FileSize     int64        `json:"file_size"`
	MimeType     string       `gorm:"size:100" json:"mime_type,omitempty"`
	ExpiryDate   *time.Time   `gorm:"index" json:"expiry_date,omitempty"`
	Review       Review       `gorm:"embedded" json:"review"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Expiring reports whether the document expires within the window ending at
// the given cutoff, relative to now.
func (d Document) Expiring(now, cutoff time.Time) bool {
	if d.ExpiryDate == nil {
		return false
	}
	return d.ExpiryDate.After(now) && !d.ExpiryDate.After(cutoff)
}
