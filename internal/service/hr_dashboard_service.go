package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/observability"
)

const dashboardCacheKey = "hr:dashboard:stats"

// DashboardService aggregates cross-entity statistics for the HR dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (dto.DashboardStatsResponse, error)
	Invalidate(ctx context.Context) error
}

type dashboardService struct {
	students     StudentService
	skills       SkillService
	performances PerformanceService
	documents    DocumentService
	cache        *redis.Client
	ttl          time.Duration
	logger       zerolog.Logger
}

// NewDashboardService constructs the dashboard aggregation service. The
// cache client may be nil, in which case every call recomputes.
func NewDashboardService(students StudentService, skills SkillService, performances PerformanceService, documents DocumentService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		students:     students,
		skills:       skills,
		performances: performances,
		documents:    documents,
		cache:        cache,
		ttl:          ttl,
		logger:       logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Stats(ctx context.Context) (dto.DashboardStatsResponse, error) {
	if cached, ok := s.fromCache(ctx); ok {
		observability.DashboardCache().WithLabelValues("hit").Inc()
		return cached, nil
	}
	observability.DashboardCache().WithLabelValues("miss").Inc()

	stats, err := s.compute(ctx)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	s.store(ctx, stats)
	return stats, nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (s *dashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, dashboardCacheKey).Err()
}

func (s *dashboardService) compute(ctx context.Context) (dto.DashboardStatsResponse, error) {
	students, err := s.students.Stats(ctx)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	skills, err := s.skills.Stats(ctx)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	performances, err := s.performances.Stats(ctx)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	documents, err := s.documents.Stats(ctx)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	pending := dto.PendingActions{
		SkillsToVerify:       skills.Unverified,
		PerformancesToReview: performances.Pending,
		DocumentsToVerify:    documents.Pending,
		ExpiringDocuments:    documents.ExpiringSoon,
	}
	pending.Total = pending.SkillsToVerify + pending.PerformancesToReview + pending.DocumentsToVerify

	return dto.DashboardStatsResponse{
		Students:     students,
		Skills:       skills,
		Performances: performances,
		Documents:    documents,
		Pending:      pending,
	}, nil
}

// fromCache returns the cached snapshot when present and decodable. Cache
// trouble is logged and treated as a miss; the dashboard never fails because
// redis is down.
func (s *dashboardService) fromCache(ctx context.Context) (dto.DashboardStatsResponse, bool) {
	if s.cache == nil {
		return dto.DashboardStatsResponse{}, false
	}

	payload, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("dashboard cache read failed")
		}
		return dto.DashboardStatsResponse{}, false
	}

	var stats dto.DashboardStatsResponse
	if err := json.Unmarshal(payload, &stats); err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache entry corrupt")
		return dto.DashboardStatsResponse{}, false
	}
	return stats, true
}

func (s *dashboardService) store(ctx context.Context, stats dto.DashboardStatsResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache write failed")
	}
}
