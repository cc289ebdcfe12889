package handler_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/handler"
	"github.com/jupiter-hub/jupiter-go-api/internal/middleware"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/service"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

type stubStudentService struct {
	student models.Student
	listing dto.StudentListResponse
	getErr  error
	deleted []uint
}

func (s *stubStudentService) Create(context.Context, dto.CreateStudentRequest) (models.Student, error) {
	return s.student, nil
}

func (s *stubStudentService) Get(context.Context, uint) (models.Student, error) {
	return s.student, s.getErr
}

func (s *stubStudentService) GetByCode(context.Context, string) (models.Student, error) {
	return s.student, s.getErr
}

func (s *stubStudentService) List(context.Context, dto.StudentListRequest) (dto.StudentListResponse, error) {
	return s.listing, nil
}

func (s *stubStudentService) Update(context.Context, uint, dto.UpdateStudentRequest) (models.Student, error) {
	return s.student, s.getErr
}

func (s *stubStudentService) UpdateStatus(context.Context, uint, models.StudentStatus) error {
	return s.getErr
}

func (s *stubStudentService) Delete(_ context.Context, id uint) error {
	if s.getErr != nil {
		return s.getErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubStudentService) Stats(context.Context) (dto.StudentStatsResponse, error) {
	return dto.StudentStatsResponse{}, nil
}

type stubSkillService struct {
	skill        models.Skill
	getErr       error
	decideErr    error
	lastReviewer auth.Identity
}

func (s *stubSkillService) Create(context.Context, dto.CreateSkillRequest) (models.Skill, error) {
	return s.skill, nil
}

func (s *stubSkillService) Get(context.Context, uint) (models.Skill, error) {
	return s.skill, s.getErr
}

func (s *stubSkillService) ListByStudent(context.Context, uint) ([]models.Skill, error) {
	return []models.Skill{s.skill}, nil
}

func (s *stubSkillService) ListUnverified(context.Context) ([]models.Skill, error) {
	return []models.Skill{s.skill}, nil
}

func (s *stubSkillService) Update(context.Context, uint, dto.UpdateSkillRequest) (models.Skill, error) {
	return s.skill, s.getErr
}

func (s *stubSkillService) Verify(_ context.Context, _ uint, reviewer auth.Identity, _ dto.ReviewDecisionRequest) (models.Skill, error) {
	s.lastReviewer = reviewer
	return s.skill, s.decideErr
}

func (s *stubSkillService) Reject(_ context.Context, _ uint, reviewer auth.Identity, _ dto.ReviewDecisionRequest) (models.Skill, error) {
	s.lastReviewer = reviewer
	return s.skill, s.decideErr
}

func (s *stubSkillService) Delete(context.Context, uint) error {
	return s.getErr
}

func (s *stubSkillService) Stats(context.Context) (dto.SkillStatsResponse, error) {
	return dto.SkillStatsResponse{}, nil
}

type stubPerformanceService struct {
	record models.Performance
}

func (s *stubPerformanceService) Create(context.Context, dto.CreatePerformanceRequest) (models.Performance, error) {
	return s.record, nil
}

func (s *stubPerformanceService) Get(context.Context, uint) (models.Performance, error) {
	return s.record, nil
}

func (s *stubPerformanceService) ListByStudent(context.Context, uint) ([]models.Performance, error) {
	return []models.Performance{s.record}, nil
}

func (s *stubPerformanceService) ListPending(context.Context) ([]models.Performance, error) {
	return []models.Performance{s.record}, nil
}

func (s *stubPerformanceService) Update(context.Context, uint, dto.UpdatePerformanceRequest) (models.Performance, error) {
	return s.record, nil
}

func (s *stubPerformanceService) Submit(context.Context, uint) (models.Performance, error) {
	return s.record, nil
}

func (s *stubPerformanceService) Approve(context.Context, uint, auth.Identity, dto.ReviewDecisionRequest) (models.Performance, error) {
	return s.record, nil
}

func (s *stubPerformanceService) Reject(context.Context, uint, auth.Identity, dto.ReviewDecisionRequest) (models.Performance, error) {
	return s.record, nil
}

func (s *stubPerformanceService) Delete(context.Context, uint) error { return nil }

func (s *stubPerformanceService) Stats(context.Context) (dto.PerformanceStatsResponse, error) {
	return dto.PerformanceStatsResponse{}, nil
}

type stubDocumentService struct {
	document models.Document
}

func (s *stubDocumentService) Upload(context.Context, dto.CreateDocumentRequest, string, io.Reader) (models.Document, error) {
	return s.document, nil
}

func (s *stubDocumentService) Get(context.Context, uint) (models.Document, error) {
	return s.document, nil
}

func (s *stubDocumentService) ListByStudent(context.Context, uint) ([]models.Document, error) {
	return []models.Document{s.document}, nil
}

func (s *stubDocumentService) ListUnverified(context.Context) ([]models.Document, error) {
	return []models.Document{s.document}, nil
}

func (s *stubDocumentService) ListExpiring(context.Context) ([]models.Document, error) {
	return []models.Document{s.document}, nil
}

func (s *stubDocumentService) Verify(context.Context, uint, auth.Identity, dto.ReviewDecisionRequest) (models.Document, error) {
	return s.document, nil
}

func (s *stubDocumentService) Reject(context.Context, uint, auth.Identity, dto.ReviewDecisionRequest) (models.Document, error) {
	return s.document, nil
}

func (s *stubDocumentService) Delete(context.Context, uint) error { return nil }

func (s *stubDocumentService) Stats(context.Context) (dto.DocumentStatsResponse, error) {
	return dto.DocumentStatsResponse{}, nil
}

func newStudentApp(students *stubStudentService, tokens *token.Service) *fiber.App {
	app := fiber.New()
	h := handler.NewStudentHandler(students, &stubSkillService{}, &stubPerformanceService{}, &stubDocumentService{}, zerolog.Nop())

	group := app.Group("/api/v1/students", middleware.Authenticate(tokens))
	h.Register(group)
	return app
}

func TestStudentHandlerListingScope(t *testing.T) {
	tokens := testTokenService()
	students := &stubStudentService{listing: dto.StudentListResponse{Items: []models.Student{{ID: 7}}}}
	app := newStudentApp(students, tokens)

	hr := accessTokenFor(t, tokens, 2, models.RoleHR, nil)
	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students", nil, hr))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	linked := uint(7)
	student := accessTokenFor(t, tokens, 3, models.RoleStudent, &linked)
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students", nil, student))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStudentHandlerSelfAccess(t *testing.T) {
	tokens := testTokenService()
	students := &stubStudentService{student: models.Student{ID: 7, StudentCode: "STU2026-ABCD1234"}}
	app := newStudentApp(students, tokens)

	linked := uint(7)
	student := accessTokenFor(t, tokens, 3, models.RoleStudent, &linked)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/7", nil, student))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/8", nil, student))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/7/skills", nil, student))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/8/documents", nil, student))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStudentHandlerNotFound(t *testing.T) {
	tokens := testTokenService()
	students := &stubStudentService{getErr: service.ErrStudentNotFound}
	app := newStudentApp(students, tokens)

	hr := accessTokenFor(t, tokens, 2, models.RoleHR, nil)
	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/99", nil, hr))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStudentHandlerCreateRequiresElevatedRole(t *testing.T) {
	tokens := testTokenService()
	students := &stubStudentService{student: models.Student{ID: 1}}
	app := newStudentApp(students, tokens)

	payload := dto.CreateStudentRequest{
		FirstName:  "Asha",
		LastName:   "Verma",
		Email:      "asha@example.com",
		Department: models.DepartmentComputerScience,
	}

	hr := accessTokenFor(t, tokens, 2, models.RoleHR, nil)
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/students", payload, hr))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	linked := uint(7)
	student := accessTokenFor(t, tokens, 3, models.RoleStudent, &linked)
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/v1/students", payload, student))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStudentHandlerDeleteIsAdminOnly(t *testing.T) {
	tokens := testTokenService()
	students := &stubStudentService{}
	app := newStudentApp(students, tokens)

	hr := accessTokenFor(t, tokens, 2, models.RoleHR, nil)
	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/v1/students/7", nil, hr))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Empty(t, students.deleted)

	admin := accessTokenFor(t, tokens, 1, models.RoleAdmin, nil)
	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/v1/students/7", nil, admin))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []uint{7}, students.deleted)
}
