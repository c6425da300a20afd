package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture(t *testing.T) (ActivityService, DashboardService, *miniredis.Miniredis) {
	t.Helper()
	activities := newTestService(t)
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return activities, NewDashboardService(activities, cache, 5*time.Minute, zerolog.New(io.Discard)), mr
}

func TestDashboardAggregatesUpcomingRecentAndStats(t *testing.T) {
	activities, dashboard, _ := newDashboardFixture(t)
	createWorkshop(t, activities, "future")
	createWorkshop(t, activities, "done")
	_, err := activities.Complete(context.Background(), "done")
	require.NoError(t, err)

	response, err := dashboard.Get(context.Background())
	require.NoError(t, err)

	require.Len(t, response.Upcoming, 1)
	require.Equal(t, "future", response.Upcoming[0].ID)
	require.Len(t, response.Recent, 1)
	require.Equal(t, "done", response.Recent[0].ID)
	require.Equal(t, 2, response.Stats.Total)
}

func TestDashboardServesFromCacheWithinTTL(t *testing.T) {
	activities, dashboard, mr := newDashboardFixture(t)
	createWorkshop(t, activities, "a1")

	first, err := dashboard.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Stats.Total)
	require.True(t, mr.Exists(dashboardCacheKey))

	// A write after the cache fill is not visible until the TTL lapses.
	createWorkshop(t, activities, "a2")
	cached, err := dashboard.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cached.Stats.Total)

	mr.FastForward(6 * time.Minute)
	fresh, err := dashboard.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, fresh.Stats.Total)
}

func TestDashboardWorksWithoutCache(t *testing.T) {
	activities := newTestService(t)
	dashboard := NewDashboardService(activities, nil, time.Minute, zerolog.New(io.Discard))
	createWorkshop(t, activities, "a1")

	response, err := dashboard.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, response.Stats.Total)
}
