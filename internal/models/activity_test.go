package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/communitydesk/activityhub/internal/models"
)

func workshop(id string) models.Activity {
	return models.Activity{
		ID:        id,
		Type:      models.TypeWorkshop,
		Title:     "Intro to X",
		Date:      "2025-06-01",
		Time:      "10:00",
		CreatedAt: "2025-05-01T09:00:00Z",
	}
}

func TestCompleteStampsCompletedDate(t *testing.T) {
	a := workshop("a1")
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, a.Complete(now))
	require.True(t, a.Completed)
	require.False(t, a.Cancelled)
	require.NotNil(t, a.CompletedDate)
	require.Equal(t, "2025-06-02T12:00:00Z", *a.CompletedDate)
	require.Equal(t, models.StatusCompleted, a.Status())
}

func TestCompleteRefusesCancelled(t *testing.T) {
	a := workshop("a1")
	require.NoError(t, a.Cancel())

	err := a.Complete(time.Now())
	require.ErrorIs(t, err, models.ErrInvalidTransition)
	require.False(t, a.Completed)
	require.Nil(t, a.CompletedDate)
	require.Equal(t, models.StatusCancelled, a.Status())
}

func TestCancelRefusesCompleted(t *testing.T) {
	a := workshop("a1")
	require.NoError(t, a.Complete(time.Now()))

	err := a.Cancel()
	require.ErrorIs(t, err, models.ErrInvalidTransition)
	require.False(t, a.Cancelled)
	require.Equal(t, models.StatusCompleted, a.Status())
}

func TestCompleteReappliedKeepsOriginalStamp(t *testing.T) {
	a := workshop("a1")
	first := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, a.Complete(first))
	require.NoError(t, a.Complete(first.Add(time.Hour)))
	require.Equal(t, "2025-06-02T12:00:00Z", *a.CompletedDate)
}

func TestApplyPatchMergesUpdatableFieldsOnly(t *testing.T) {
	a := workshop("a1")
	a.Presenter = "Ada"

	title := "Advanced X"
	location := "Room 2"
	capacity := 25
	presenter := "Grace"
	mentor := "Linus"

	a.ApplyPatch(models.Patch{
		Title:     &title,
		Location:  &location,
		Capacity:  &capacity,
		Presenter: &presenter,
		Mentor:    &mentor, // mentoring field, must be ignored for a workshop
	})

	require.Equal(t, "Advanced X", a.Title)
	require.Equal(t, "Room 2", a.Location)
	require.Equal(t, 25, *a.Capacity)
	require.Equal(t, "Grace", a.Presenter)
	require.Empty(t, a.Mentor)

	// Identity fields are untouched by patches.
	require.Equal(t, "a1", a.ID)
	require.Equal(t, models.TypeWorkshop, a.Type)
	require.Equal(t, "2025-05-01T09:00:00Z", a.CreatedAt)
}

func TestCloneIsStructurallyIndependent(t *testing.T) {
	a := workshop("a1")
	capacity := 10
	a.Capacity = &capacity
	require.NoError(t, a.Complete(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))

	clone := a.Clone()
	*a.Capacity = 99
	*a.CompletedDate = "tampered"

	require.Equal(t, 10, *clone.Capacity)
	require.Equal(t, "2025-06-02T00:00:00Z", *clone.CompletedDate)
}

func TestComputeStatsScenario(t *testing.T) {
	a := workshop("a1")
	stats := models.ComputeStats([]models.Activity{a}, "", "")

	require.Equal(t, 1, stats.Total)
	require.Equal(t, 1, stats.ByType[models.TypeWorkshop])
	require.Equal(t, 1, stats.ByStatus[models.StatusUpcoming])
	require.Zero(t, stats.CompletionRate)

	require.NoError(t, a.Complete(time.Now()))
	stats = models.ComputeStats([]models.Activity{a}, "", "")
	require.Equal(t, 1, stats.ByStatus[models.StatusCompleted])
	require.Equal(t, float64(100), stats.CompletionRate)

	// A failed transition leaves the stats unchanged.
	require.ErrorIs(t, a.Cancel(), models.ErrInvalidTransition)
	again := models.ComputeStats([]models.Activity{a}, "", "")
	require.Equal(t, stats, again)
}

func TestComputeStatsExcludesCancelledFromRate(t *testing.T) {
	done := workshop("a1")
	require.NoError(t, done.Complete(time.Now()))
	dropped := workshop("a2")
	require.NoError(t, dropped.Cancel())

	stats := models.ComputeStats([]models.Activity{done, dropped}, "", "")
	require.Equal(t, 2, stats.Total)
	require.Equal(t, float64(100), stats.CompletionRate)

	onlyCancelled := models.ComputeStats([]models.Activity{dropped}, "", "")
	require.Zero(t, onlyCancelled.CompletionRate)
}

func TestComputeStatsDateRange(t *testing.T) {
	early := workshop("a1")
	early.Date = "2025-01-15"
	late := workshop("a2")
	late.Date = "2025-09-15"

	stats := models.ComputeStats([]models.Activity{early, late}, "2025-01-01", "2025-06-30")
	require.Equal(t, 1, stats.Total)
}
