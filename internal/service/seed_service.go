package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the import tooling is disabled by configuration.
	ErrSeedDisabled = errors.New("roster import is disabled")
	// ErrSeedUnauthorized indicates the provided import token is invalid.
	ErrSeedUnauthorized = errors.New("invalid import token")
)

// SeedService bulk-imports roster data. It backs the operational tooling
// endpoints used to load an initial student roster.
type SeedService interface {
	ImportStudents(ctx context.Context, token string, items []models.Student) (int64, error)
}

type seedService struct {
	students repository.StudentRepository
	enabled  bool
	token    string
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSeedService constructs the roster import service.
func NewSeedService(students repository.StudentRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		students: students,
		enabled:  enabled,
		token:    token,
		logger:   logger.With().Str("component", "seed_service").Logger(),
		now:      time.Now,
	}
}

func (s *seedService) ImportStudents(ctx context.Context, token string, items []models.Student) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	normalized := s.normalizeStudents(items)
	affected, err := s.students.UpsertBatch(ctx, normalized)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("affected", affected).Msg("students imported")
	return affected, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtleConstantTimeCompare(expected, strings.TrimSpace(token))
}

func subtleConstantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

func (s *seedService) normalizeStudents(items []models.Student) []models.Student {
	now := s.now()
	for i := range items {
		items[i].StudentCode = strings.ToUpper(strings.TrimSpace(items[i].StudentCode))
		if items[i].StudentCode == "" {
			items[i].StudentCode = generateStudentCode(now)
		}
		items[i].Email = strings.ToLower(strings.TrimSpace(items[i].Email))
		if items[i].Status == "" {
			items[i].Status = models.StudentStatusActive
		}
	}
	return items
}
