package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

func newStudentFixture(t *testing.T) (StudentService, *memoryStudentRepo) {
	t.Helper()
	students := newMemoryStudentRepo()
	svc := NewStudentService(students, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	return svc, students
}

func TestStudentCreate(t *testing.T) {
	svc, _ := newStudentFixture(t)

	student, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		StudentCode: "cs-101",
		FirstName:   "Sam",
		LastName:    "Student",
		Email:       "Sam@Example.com",
		Department:  models.DepartmentComputerScience,
		Notes:       "<b>promising</b> candidate",
	})
	require.NoError(t, err)
	require.Equal(t, "CS-101", student.StudentCode)
	require.Equal(t, "sam@example.com", student.Email)
	require.Equal(t, models.StudentStatusActive, student.Status)
	require.Equal(t, "promising candidate", student.Notes)
}

func TestStudentCreateGeneratesCode(t *testing.T) {
	svc, _ := newStudentFixture(t)

	student, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FirstName:  "Sam",
		LastName:   "Student",
		Email:      "sam@example.com",
		Department: models.DepartmentCivil,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(student.StudentCode, "STU"))
}

func TestStudentCreateConflicts(t *testing.T) {
	svc, _ := newStudentFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		StudentCode: "CS-101",
		FirstName:   "Sam",
		LastName:    "Student",
		Email:       "sam@example.com",
		Department:  models.DepartmentComputerScience,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateStudentRequest{
		StudentCode: "cs-101",
		FirstName:   "Other",
		LastName:    "Person",
		Email:       "other@example.com",
		Department:  models.DepartmentComputerScience,
	})
	require.ErrorIs(t, err, ErrStudentCodeTaken)

	_, err = svc.Create(context.Background(), dto.CreateStudentRequest{
		FirstName:  "Other",
		LastName:   "Person",
		Email:      "SAM@example.com",
		Department: models.DepartmentComputerScience,
	})
	require.ErrorIs(t, err, ErrStudentEmailTaken)
}

func TestStudentCreateUnknownDepartment(t *testing.T) {
	svc, _ := newStudentFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FirstName:  "Sam",
		LastName:   "Student",
		Email:      "sam@example.com",
		Department: "ASTROLOGY",
	})
	require.ErrorIs(t, err, ErrInvalidDepartment)
}

func TestStudentUpdateKeepsCode(t *testing.T) {
	svc, repo := newStudentFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		StudentCode: "CS-101",
		FirstName:   "Sam",
		LastName:    "Student",
		Email:       "sam@example.com",
		Department:  models.DepartmentComputerScience,
	})
	require.NoError(t, err)

	semester := 5
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateStudentRequest{Semester: &semester})
	require.NoError(t, err)
	require.Equal(t, 5, updated.Semester)
	require.Equal(t, "CS-101", updated.StudentCode)
	require.Equal(t, "CS-101", repo.students[created.ID].StudentCode)
}

func TestStudentUpdateStatus(t *testing.T) {
	svc, _ := newStudentFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FirstName:  "Sam",
		LastName:   "Student",
		Email:      "sam@example.com",
		Department: models.DepartmentComputerScience,
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), created.ID, models.StudentStatusGraduated))
	require.ErrorIs(t, svc.UpdateStatus(context.Background(), created.ID, "RETIRED"), ErrInvalidStudentInput)
	require.ErrorIs(t, svc.UpdateStatus(context.Background(), 99, models.StudentStatusActive), ErrStudentNotFound)
}

func TestStudentStats(t *testing.T) {
	svc, _ := newStudentFixture(t)

	seeds := []struct {
		email      string
		department models.Department
	}{
		{"a@example.com", models.DepartmentComputerScience},
		{"b@example.com", models.DepartmentComputerScience},
		{"c@example.com", models.DepartmentMechanical},
	}
	for i, seed := range seeds {
		_, err := svc.Create(context.Background(), dto.CreateStudentRequest{
			StudentCode: "CS-10" + string(rune('0'+i)),
			FirstName:   "S",
			LastName:    "T",
			Email:       seed.email,
			Department:  seed.department,
		})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, int64(3), stats.ByStatus[models.StudentStatusActive])
	require.Equal(t, int64(2), stats.ByDepartment[models.DepartmentComputerScience])
}

func TestStudentDelete(t *testing.T) {
	svc, _ := newStudentFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FirstName:  "Sam",
		LastName:   "Student",
		Email:      "sam@example.com",
		Department: models.DepartmentComputerScience,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrStudentNotFound)
}
