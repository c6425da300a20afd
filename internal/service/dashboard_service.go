package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/communitydesk/activityhub/internal/dto"
)

const dashboardCacheKey = "dashboard:activities"
const dashboardLimit = 5

// DashboardService aggregates the next activities, recent completions and
// overall statistics, with a TTL-bound Redis cache in front. Cache failures
// degrade to a direct read.
type DashboardService interface {
	Get(ctx context.Context) (dto.DashboardResponse, error)
}

type dashboardService struct {
	activities ActivityService
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. The cache client may
// be nil, in which case every call hits the repository.
func NewDashboardService(activities ActivityService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		activities: activities,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Get(ctx context.Context) (dto.DashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	upcoming, err := s.activities.Upcoming(ctx, dashboardLimit)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	recent, err := s.activities.Recent(ctx, dashboardLimit)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	stats, err := s.activities.Statistics(ctx, "", "")
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := dto.DashboardResponse{
		Upcoming: upcoming,
		Recent:   recent,
		Stats:    stats,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
