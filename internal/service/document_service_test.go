package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

type memoryDocumentRepo struct {
	documents map[uint]models.Document
	nextID    uint
	failNext  error
}

func newMemoryDocumentRepo() *memoryDocumentRepo {
	return &memoryDocumentRepo{documents: make(map[uint]models.Document), nextID: 1}
}

func (m *memoryDocumentRepo) Create(ctx context.Context, document *models.Document) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	document.ID = m.nextID
	document.CreatedAt = time.Now()
	m.documents[document.ID] = *document
	m.nextID++
	return nil
}

func (m *memoryDocumentRepo) GetByID(ctx context.Context, id uint) (models.Document, error) {
	document, ok := m.documents[id]
	if !ok {
		return models.Document{}, gorm.ErrRecordNotFound
	}
	return document, nil
}

func (m *memoryDocumentRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Document, error) {
	results := make([]models.Document, 0)
	for _, document := range m.documents {
		if document.StudentID == studentID {
			results = append(results, document)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryDocumentRepo) ListByStatus(ctx context.Context, status models.ReviewStatus) ([]models.Document, error) {
	results := make([]models.Document, 0)
	for _, document := range m.documents {
		if document.Review.Status == status {
			results = append(results, document)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryDocumentRepo) ListExpiring(ctx context.Context, from, until time.Time) ([]models.Document, error) {
	results := make([]models.Document, 0)
	for _, document := range m.documents {
		if document.Expiring(from, until) {
			results = append(results, document)
		}
	}
	return results, nil
}

func (m *memoryDocumentRepo) Update(ctx context.Context, document *models.Document) error {
	if _, ok := m.documents[document.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.documents[document.ID] = *document
	return nil
}

func (m *memoryDocumentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.documents[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *memoryDocumentRepo) CountByStatus(ctx context.Context) (map[models.ReviewStatus]int64, error) {
	counts := make(map[models.ReviewStatus]int64)
	for _, document := range m.documents {
		counts[document.Review.Status]++
	}
	return counts, nil
}

func (m *memoryDocumentRepo) CountByType(ctx context.Context) (map[models.DocumentType]int64, error) {
	counts := make(map[models.DocumentType]int64)
	for _, document := range m.documents {
		counts[document.DocumentType]++
	}
	return counts, nil
}

func (m *memoryDocumentRepo) CountExpiring(ctx context.Context, from, until time.Time) (int64, error) {
	var count int64
	for _, document := range m.documents {
		if document.Expiring(from, until) {
			count++
		}
	}
	return count, nil
}

type fakeUploader struct {
	uploads int
	deleted []string
	err     error
}

func (f *fakeUploader) Upload(ctx context.Context, studentID uint, name string, reader io.Reader) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.uploads++
	publicID := fmt.Sprintf("students/%d/%s-%d", studentID, name, f.uploads)
	return "https://cdn.example.com/" + publicID, publicID, nil
}

func (f *fakeUploader) Delete(ctx context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

// Minimal but detectable file payloads.
var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")
	exeBytes = []byte{0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00, 0x00, 0x00, 0x04, 0x00}
)

func newDocumentFixture(t *testing.T) (DocumentService, *memoryDocumentRepo, *memoryStudentRepo, *fakeUploader, uint) {
	t.Helper()
	documents := newMemoryDocumentRepo()
	uploader := &fakeUploader{}
	students := newMemoryStudentRepo()

	student := models.Student{
		StudentCode: "STU-1",
		FirstName:   "Sam",
		LastName:    "Student",
		Email:       "sam@example.com",
		Department:  models.DepartmentComputerScience,
		Status:      models.StudentStatusActive,
	}
	require.NoError(t, students.Create(context.Background(), &student))

	svc := NewDocumentService(documents, students, uploader, 1024, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	return svc, documents, students, uploader, student.ID
}

func TestDocumentUpload(t *testing.T) {
	svc, _, _, uploader, studentID := newDocumentFixture(t)

	document, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentTranscript,
		Title:        "Semester 4 transcript",
	}, "transcript.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	require.Equal(t, models.ReviewStatusPending, document.Review.Status)
	require.Equal(t, "application/pdf", document.MimeType)
	require.Equal(t, int64(len(pdfBytes)), document.FileSize)
	require.NotEmpty(t, document.FileURL)
	require.NotEmpty(t, document.StorageKey)
	require.Equal(t, 1, uploader.uploads)
}

func TestDocumentUploadRejectsUnsupportedType(t *testing.T) {
	svc, _, _, uploader, studentID := newDocumentFixture(t)

	_, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentResume,
		Title:        "Not a resume",
	}, "resume.exe", bytes.NewReader(exeBytes))
	require.ErrorIs(t, err, ErrUnsupportedFileType)
	require.Zero(t, uploader.uploads)
}

func TestDocumentUploadRejectsOversizeAndEmpty(t *testing.T) {
	svc, _, _, _, studentID := newDocumentFixture(t)

	big := append(append([]byte{}, pdfBytes...), bytes.Repeat([]byte("A"), 2048)...)
	_, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentResume,
		Title:        "Huge resume",
	}, "resume.pdf", bytes.NewReader(big))
	require.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentResume,
		Title:        "Empty resume",
	}, "resume.pdf", bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestDocumentUploadCleansUpOnInsertFailure(t *testing.T) {
	svc, documents, _, uploader, studentID := newDocumentFixture(t)
	documents.failNext = gorm.ErrInvalidData

	_, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentTranscript,
		Title:        "Transcript",
	}, "transcript.pdf", bytes.NewReader(pdfBytes))
	require.Error(t, err)
	require.Len(t, uploader.deleted, 1)
}

func TestDocumentVerifyAndReject(t *testing.T) {
	svc, _, _, _, studentID := newDocumentFixture(t)

	document, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentIDProof,
		Title:        "Passport scan",
	}, "passport.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), document.ID, hrIdentity(), dto.ReviewDecisionRequest{})
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusVerified, verified.Review.Status)

	_, err = svc.Verify(context.Background(), document.ID, hrIdentity(), dto.ReviewDecisionRequest{})
	require.ErrorIs(t, err, models.ErrAlreadyVerified)

	rejected, err := svc.Reject(context.Background(), document.ID, hrIdentity(), dto.ReviewDecisionRequest{RejectionReason: "illegible"})
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusRejected, rejected.Review.Status)
}

func TestDocumentDecisionOnOrphanedRecord(t *testing.T) {
	svc, documents, students, _, studentID := newDocumentFixture(t)

	document, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentIDProof,
		Title:        "Passport scan",
	}, "passport.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	require.NoError(t, students.Delete(context.Background(), studentID))

	_, err = svc.Verify(context.Background(), document.ID, hrIdentity(), dto.ReviewDecisionRequest{})
	require.ErrorIs(t, err, ErrStudentNotFound)

	_, err = svc.Reject(context.Background(), document.ID, hrIdentity(), dto.ReviewDecisionRequest{RejectionReason: "n/a"})
	require.ErrorIs(t, err, ErrStudentNotFound)

	stored := documents.documents[document.ID]
	require.Equal(t, models.ReviewStatusPending, stored.Review.Status)
}

func TestDocumentDeleteRemovesBlob(t *testing.T) {
	svc, _, _, uploader, studentID := newDocumentFixture(t)

	document, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
		StudentID:    studentID,
		DocumentType: models.DocumentResume,
		Title:        "Resume",
	}, "resume.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), document.ID))
	require.Equal(t, []string{document.StorageKey}, uploader.deleted)

	require.ErrorIs(t, svc.Delete(context.Background(), document.ID), ErrDocumentNotFound)
}

func TestDocumentStatsCountsExpiring(t *testing.T) {
	svc, documents, _, _, studentID := newDocumentFixture(t)

	soon := time.Now().Add(10 * 24 * time.Hour)
	later := time.Now().Add(120 * 24 * time.Hour)

	for _, expiry := range []*time.Time{&soon, &later, nil} {
		document, err := svc.Upload(context.Background(), dto.CreateDocumentRequest{
			StudentID:    studentID,
			DocumentType: models.DocumentVisa,
			Title:        "Visa",
			ExpiryDate:   expiry,
		}, "visa.pdf", bytes.NewReader(pdfBytes))
		require.NoError(t, err)
		_ = document
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, int64(3), stats.Pending)
	require.Equal(t, int64(1), stats.ExpiringSoon)
	require.Equal(t, int64(3), stats.ByType[models.DocumentVisa])
	require.Len(t, documents.documents, 3)
}
