package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
)

func newDashboardFixture(t *testing.T) (DashboardService, SkillService, *miniredis.Miniredis, uint) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	validate := validator.New(validator.WithRequiredStructEnabled())
	students := newMemoryStudentRepo()
	skills := newMemorySkillRepo()
	performances := newMemoryPerformanceRepo()
	documents := newMemoryDocumentRepo()

	student := models.Student{
		StudentCode: "STU-1",
		FirstName:   "Sam",
		LastName:    "Student",
		Email:       "sam@example.com",
		Department:  models.DepartmentComputerScience,
		Status:      models.StudentStatusActive,
	}
	require.NoError(t, students.Create(context.Background(), &student))

	studentSvc := NewStudentService(students, validate, zerolog.Nop())
	skillSvc := NewSkillService(skills, students, validate, zerolog.Nop())
	performanceSvc := NewPerformanceService(performances, students, validate, zerolog.Nop())
	documentSvc := NewDocumentService(documents, students, &fakeUploader{}, 1024, validate, zerolog.Nop())

	dashboard := NewDashboardService(studentSvc, skillSvc, performanceSvc, documentSvc, cache, time.Minute, zerolog.Nop())
	return dashboard, skillSvc, mr, student.ID
}

func TestDashboardStats(t *testing.T) {
	dashboard, skills, _, studentID := newDashboardFixture(t)

	_, err := skills.Create(context.Background(), dto.CreateSkillRequest{
		StudentID:        studentID,
		SkillName:        "Go",
		Category:         models.SkillCategoryProgramming,
		ProficiencyLevel: models.ProficiencyAdvanced,
	})
	require.NoError(t, err)

	stats, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Students.Total)
	require.Equal(t, int64(1), stats.Skills.Unverified)
	require.Equal(t, int64(1), stats.Pending.SkillsToVerify)
	require.Equal(t, int64(1), stats.Pending.Total)
}

func TestDashboardStatsServedFromCache(t *testing.T) {
	dashboard, skills, _, studentID := newDashboardFixture(t)

	first, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), first.Pending.SkillsToVerify)

	_, err = skills.Create(context.Background(), dto.CreateSkillRequest{
		StudentID:        studentID,
		SkillName:        "Go",
		Category:         models.SkillCategoryProgramming,
		ProficiencyLevel: models.ProficiencyAdvanced,
	})
	require.NoError(t, err)

	// Inside the TTL the cached snapshot wins.
	cached, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), cached.Pending.SkillsToVerify)
}

func TestDashboardStatsRecomputesAfterTTL(t *testing.T) {
	dashboard, skills, mr, studentID := newDashboardFixture(t)

	_, err := dashboard.Stats(context.Background())
	require.NoError(t, err)

	_, err = skills.Create(context.Background(), dto.CreateSkillRequest{
		StudentID:        studentID,
		SkillName:        "Go",
		Category:         models.SkillCategoryProgramming,
		ProficiencyLevel: models.ProficiencyAdvanced,
	})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	fresh, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), fresh.Pending.SkillsToVerify)
}

func TestDashboardInvalidate(t *testing.T) {
	dashboard, skills, _, studentID := newDashboardFixture(t)

	_, err := dashboard.Stats(context.Background())
	require.NoError(t, err)

	_, err = skills.Create(context.Background(), dto.CreateSkillRequest{
		StudentID:        studentID,
		SkillName:        "Go",
		Category:         models.SkillCategoryProgramming,
		ProficiencyLevel: models.ProficiencyAdvanced,
	})
	require.NoError(t, err)

	require.NoError(t, dashboard.Invalidate(context.Background()))

	fresh, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), fresh.Pending.SkillsToVerify)
}

func TestDashboardSurvivesCacheOutage(t *testing.T) {
	dashboard, _, mr, _ := newDashboardFixture(t)

	mr.Close()

	stats, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Students.Total)
}
