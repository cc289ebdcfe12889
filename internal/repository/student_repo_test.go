package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

var testDBCounter int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:student_repo_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}))
	return db
}

func TestStudentRepositoryCreateNormalizes(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	student := models.Student{
		StudentCode: " stu2026-abcd ",
		FirstName:   "Asha",
		LastName:    "Verma",
		Email:       "ASHA@Example.com",
		Department:  models.DepartmentComputerScience,
		Status:      models.StudentStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), &student))
	require.NotZero(t, student.ID)

	byCode, err := repo.GetByCode(context.Background(), "stu2026-abcd")
	require.NoError(t, err)
	require.Equal(t, "STU2026-ABCD", byCode.StudentCode)
	require.Equal(t, "asha@example.com", byCode.Email)

	byEmail, err := repo.GetByEmail(context.Background(), "Asha@Example.COM")
	require.NoError(t, err)
	require.Equal(t, student.ID, byEmail.ID)
}

func TestStudentRepositoryListFiltersAndSorts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	older := models.Student{
		StudentCode: "STU2026-AAAA", FirstName: "Asha", LastName: "Verma",
		Email: "asha@example.com", Department: models.DepartmentComputerScience,
		Status: models.StudentStatusActive, CGPA: 9.1,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	newer := models.Student{
		StudentCode: "STU2026-BBBB", FirstName: "Ravi", LastName: "Iyer",
		Email: "ravi@example.com", Department: models.DepartmentMechanical,
		Status: models.StudentStatusInactive, CGPA: 7.4,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	students, total, err := repo.List(context.Background(), StudentFilter{Search: "asha", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, students, 1)
	require.Equal(t, "STU2026-AAAA", students[0].StudentCode)

	students, total, err = repo.List(context.Background(), StudentFilter{Department: models.DepartmentMechanical, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Ravi", students[0].FirstName)

	students, _, err = repo.List(context.Background(), StudentFilter{SortBy: "cgpa", SortDesc: true, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, "Asha", students[0].FirstName, "expected highest CGPA first")

	// Page two of page-size one.
	students, total, err = repo.List(context.Background(), StudentFilter{SortBy: "student_code", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, students, 1)
	require.Equal(t, "STU2026-BBBB", students[0].StudentCode)
}

func TestStudentRepositoryUpdateStatusMissing(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	err := repo.UpdateStatus(context.Background(), 99, models.StudentStatusSuspended)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepositorySetLinkedUser(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	student := models.Student{
		StudentCode: "STU2026-AAAA", FirstName: "Asha", LastName: "Verma",
		Email: "asha@example.com", Department: models.DepartmentComputerScience,
		Status: models.StudentStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), &student))
	require.NoError(t, repo.SetLinkedUser(context.Background(), student.ID, 42))

	linked, err := repo.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.UserID)
	require.Equal(t, uint(42), *linked.UserID)
}

func TestStudentRepositoryUpsertBatch(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	first := []models.Student{
		{StudentCode: "STU2026-AAAA", FirstName: "Asha", LastName: "Verma", Email: "asha@example.com", Department: models.DepartmentComputerScience, Status: models.StudentStatusActive},
		{StudentCode: "STU2026-BBBB", FirstName: "Ravi", LastName: "Iyer", Email: "ravi@example.com", Department: models.DepartmentMechanical, Status: models.StudentStatusActive},
	}
	_, err := repo.UpsertBatch(context.Background(), first)
	require.NoError(t, err)

	second := []models.Student{
		{StudentCode: "STU2026-AAAA", FirstName: "Asha", LastName: "Verma", Email: "asha.verma@example.com", Department: models.DepartmentComputerScience, Status: models.StudentStatusActive},
	}
	_, err = repo.UpsertBatch(context.Background(), second)
	require.NoError(t, err)

	_, total, err := repo.List(context.Background(), StudentFilter{PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	updated, err := repo.GetByCode(context.Background(), "STU2026-AAAA")
	require.NoError(t, err)
	require.Equal(t, "asha.verma@example.com", updated.Email)
}

func TestStudentRepositoryCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	rows := []models.Student{
		{StudentCode: "STU2026-AAAA", FirstName: "A", LastName: "A", Email: "a@example.com", Department: models.DepartmentComputerScience, Status: models.StudentStatusActive},
		{StudentCode: "STU2026-BBBB", FirstName: "B", LastName: "B", Email: "b@example.com", Department: models.DepartmentComputerScience, Status: models.StudentStatusActive},
		{StudentCode: "STU2026-CCCC", FirstName: "C", LastName: "C", Email: "c@example.com", Department: models.DepartmentMechanical, Status: models.StudentStatusGraduated},
	}
	require.NoError(t, db.Create(&rows).Error)

	byStatus, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), byStatus[models.StudentStatusActive])
	require.Equal(t, int64(1), byStatus[models.StudentStatusGraduated])

	byDepartment, err := repo.CountByDepartment(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), byDepartment[models.DepartmentComputerScience])
	require.Equal(t, int64(1), byDepartment[models.DepartmentMechanical])
}
