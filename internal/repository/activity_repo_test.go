package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/communitydesk/activityhub/internal/models"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Activity{}))
	return db
}

func newTestRepo(t *testing.T) (ActivityRepository, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return &activityRepository{db: db, now: fixedNow}, db
}

func seedActivity(t *testing.T, db *gorm.DB, a models.Activity) {
	t.Helper()
	if a.CreatedAt == "" {
		a.CreatedAt = "2025-05-01T09:00:00Z"
	}
	require.NoError(t, db.Create(&a).Error)
}

func TestListSortsByDateThenTime(t *testing.T) {
	repo, db := newTestRepo(t)
	seedActivity(t, db, models.Activity{ID: "late", Type: models.TypeWorkshop, Title: "Late", Date: "2025-07-01", Time: "09:00"})
	seedActivity(t, db, models.Activity{ID: "early-pm", Type: models.TypeWorkshop, Title: "Early PM", Date: "2025-06-20", Time: "14:00"})
	seedActivity(t, db, models.Activity{ID: "early-am", Type: models.TypeWorkshop, Title: "Early AM", Date: "2025-06-20", Time: "09:00"})

	activities, err := repo.List(context.Background(), ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, activities, 3)
	require.Equal(t, "early-am", activities[0].ID)
	require.Equal(t, "early-pm", activities[1].ID)
	require.Equal(t, "late", activities[2].ID)
}

func TestListFiltersByTypeAndStatus(t *testing.T) {
	repo, db := newTestRepo(t)
	completedDate := "2025-06-10T10:00:00Z"
	seedActivity(t, db, models.Activity{ID: "w1", Type: models.TypeWorkshop, Title: "Future", Date: "2025-07-01", Time: "10:00"})
	seedActivity(t, db, models.Activity{ID: "w2", Type: models.TypeWorkshop, Title: "Done", Date: "2025-06-01", Time: "10:00", Completed: true, CompletedDate: &completedDate})
	seedActivity(t, db, models.Activity{ID: "m1", Type: models.TypeMentoring, Title: "Dropped", Date: "2025-06-01", Time: "10:00", Cancelled: true})
	seedActivity(t, db, models.Activity{ID: "w3", Type: models.TypeWorkshop, Title: "Missed", Date: "2025-06-01", Time: "10:00"})

	byType, err := repo.List(context.Background(), ActivityFilter{Type: models.TypeMentoring})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "m1", byType[0].ID)

	upcoming, err := repo.List(context.Background(), ActivityFilter{Status: models.StatusUpcoming})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "w1", upcoming[0].ID)

	completed, err := repo.List(context.Background(), ActivityFilter{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, "w2", completed[0].ID)

	cancelled, err := repo.List(context.Background(), ActivityFilter{Status: models.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)

	pastDue, err := repo.List(context.Background(), ActivityFilter{Status: "past-due"})
	require.NoError(t, err)
	require.Len(t, pastDue, 1)
	require.Equal(t, "w3", pastDue[0].ID)
}

func TestListFiltersByDateRangeMentorLocationCapacity(t *testing.T) {
	repo, db := newTestRepo(t)
	big := 30
	small := 5
	seedActivity(t, db, models.Activity{ID: "a1", Type: models.TypeMentoring, Title: "One", Date: "2025-06-01", Time: "10:00", Mentor: "Grace Hopper", Location: "Main Hall", Capacity: &big})
	seedActivity(t, db, models.Activity{ID: "a2", Type: models.TypeMentoring, Title: "Two", Date: "2025-08-01", Time: "10:00", Mentor: "Ada Lovelace", Location: "Annex", Capacity: &small})

	inRange, err := repo.List(context.Background(), ActivityFilter{StartDate: "2025-05-01", EndDate: "2025-06-30"})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	require.Equal(t, "a1", inRange[0].ID)

	byMentor, err := repo.List(context.Background(), ActivityFilter{Mentor: "grace"})
	require.NoError(t, err)
	require.Len(t, byMentor, 1)
	require.Equal(t, "a1", byMentor[0].ID)

	byLocation, err := repo.List(context.Background(), ActivityFilter{Location: "annex"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	require.Equal(t, "a2", byLocation[0].ID)

	minCapacity := 10
	roomy, err := repo.List(context.Background(), ActivityFilter{Capacity: &minCapacity})
	require.NoError(t, err)
	require.Len(t, roomy, 1)
	require.Equal(t, "a1", roomy[0].ID)
}

func TestGetByIDAndDelete(t *testing.T) {
	repo, db := newTestRepo(t)
	seedActivity(t, db, models.Activity{ID: "a1", Type: models.TypeWorkshop, Title: "Intro", Date: "2025-06-20", Time: "10:00"})

	got, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, "Intro", got.Title)

	_, err = repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(context.Background(), "a1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "a1"), gorm.ErrRecordNotFound)
}

func TestCreateAndUpdateRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	activity := models.Activity{ID: "a1", Type: models.TypeWorkshop, Title: "Intro", Date: "2025-06-20", Time: "10:00", CreatedAt: "2025-05-01T09:00:00Z"}
	require.NoError(t, repo.Create(context.Background(), &activity))

	activity.Title = "Intro, revised"
	require.NoError(t, repo.Update(context.Background(), &activity))

	got, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, "Intro, revised", got.Title)
	require.Equal(t, "2025-05-01T09:00:00Z", got.CreatedAt)
}

func TestUpsertInsertsAndOverwritesByID(t *testing.T) {
	repo, db := newTestRepo(t)
	seedActivity(t, db, models.Activity{ID: "known", Type: models.TypeWorkshop, Title: "Stale", Date: "2025-06-20", Time: "10:00"})

	err := repo.Upsert(context.Background(), []models.Activity{
		{ID: "known", Type: models.TypeWorkshop, Title: "Fresh", Date: "2025-06-20", Time: "10:00", CreatedAt: "2025-05-01T09:00:00Z"},
		{ID: "new", Type: models.TypeNetworking, Title: "Mixer", Date: "2025-06-25", Time: "18:00", Format: "mixer", CreatedAt: "2025-05-01T09:00:00Z"},
	})
	require.NoError(t, err)

	activities, listErr := repo.List(context.Background(), ActivityFilter{})
	require.NoError(t, listErr)
	require.Len(t, activities, 2)

	got, err := repo.GetByID(context.Background(), "known")
	require.NoError(t, err)
	require.Equal(t, "Fresh", got.Title)
}

func TestUpsertEmptySliceIsNoop(t *testing.T) {
	repo, _ := newTestRepo(t)
	require.NoError(t, repo.Upsert(context.Background(), nil))
}

func TestUpcomingSkipsTerminalAndPastRecords(t *testing.T) {
	repo, db := newTestRepo(t)
	seedActivity(t, db, models.Activity{ID: "past", Type: models.TypeWorkshop, Title: "Past", Date: "2025-06-01", Time: "10:00"})
	seedActivity(t, db, models.Activity{ID: "done", Type: models.TypeWorkshop, Title: "Done", Date: "2025-07-01", Time: "10:00", Completed: true})
	seedActivity(t, db, models.Activity{ID: "soon", Type: models.TypeWorkshop, Title: "Soon", Date: "2025-06-20", Time: "10:00"})
	seedActivity(t, db, models.Activity{ID: "later", Type: models.TypeWorkshop, Title: "Later", Date: "2025-07-10", Time: "10:00"})

	upcoming, err := repo.Upcoming(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	require.Equal(t, "soon", upcoming[0].ID)
	require.Equal(t, "later", upcoming[1].ID)

	limited, err := repo.Upcoming(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "soon", limited[0].ID)
}

func TestRecentOrdersByCompletionDateDescending(t *testing.T) {
	repo, db := newTestRepo(t)
	older := "2025-06-01T10:00:00Z"
	newer := "2025-06-10T10:00:00Z"
	seedActivity(t, db, models.Activity{ID: "older", Type: models.TypeWorkshop, Title: "Older", Date: "2025-05-20", Time: "10:00", Completed: true, CompletedDate: &older})
	seedActivity(t, db, models.Activity{ID: "newer", Type: models.TypeWorkshop, Title: "Newer", Date: "2025-05-25", Time: "10:00", Completed: true, CompletedDate: &newer})
	seedActivity(t, db, models.Activity{ID: "open", Type: models.TypeWorkshop, Title: "Open", Date: "2025-07-01", Time: "10:00"})

	recent, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "newer", recent[0].ID)
	require.Equal(t, "older", recent[1].ID)
}

func TestMentorsReturnsDistinctSortedNames(t *testing.T) {
	repo, db := newTestRepo(t)
	seedActivity(t, db, models.Activity{ID: "m1", Type: models.TypeMentoring, Title: "One", Date: "2025-06-20", Time: "10:00", Mentor: "Grace"})
	seedActivity(t, db, models.Activity{ID: "m2", Type: models.TypeMentoring, Title: "Two", Date: "2025-06-21", Time: "10:00", Mentor: "Ada"})
	seedActivity(t, db, models.Activity{ID: "m3", Type: models.TypeMentoring, Title: "Three", Date: "2025-06-22", Time: "10:00", Mentor: "Grace"})
	seedActivity(t, db, models.Activity{ID: "w1", Type: models.TypeWorkshop, Title: "No mentor", Date: "2025-06-23", Time: "10:00"})

	mentors, err := repo.Mentors(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Ada", "Grace"}, mentors)
}
