package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/communitydesk/activityhub/internal/dto"
	"github.com/communitydesk/activityhub/internal/models"
	"github.com/communitydesk/activityhub/internal/observability"
	"github.com/communitydesk/activityhub/internal/repository"
)

// Sentinel errors surfaced to the HTTP layer for status mapping.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrDuplicateID      = errors.New("activity with this id already exists")
	ErrAlreadyCompleted = errors.New("activity is already completed")
	ErrAlreadyCancelled = errors.New("activity is already cancelled")
	ErrDateLocked       = errors.New("cannot change date of completed activity")
)

// ActivityService exposes the activity domain use cases.
type ActivityService interface {
	List(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, error)
	Get(ctx context.Context, id string) (models.Activity, error)
	Create(ctx context.Context, payload dto.CreateActivityRequest) (models.Activity, error)
	Update(ctx context.Context, id string, payload dto.UpdateActivityRequest) (models.Activity, error)
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) (models.Activity, error)
	Cancel(ctx context.Context, id string) (models.Activity, error)
	Sync(ctx context.Context, activities []models.Activity) ([]models.Activity, error)
	Upcoming(ctx context.Context, limit int) ([]models.Activity, error)
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
	Mentors(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context, startDate, endDate string) (models.Stats, error)
}

type activityService struct {
	repo      repository.ActivityRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewActivityService builds a new activity service.
func NewActivityService(repo repository.ActivityRepository, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "activity_service").Logger(),
		now:       time.Now,
	}
}

func (s *activityService) List(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, error) {
	return s.repo.List(ctx, filter)
}

func (s *activityService) Get(ctx context.Context, id string) (models.Activity, error) {
	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, ErrActivityNotFound
		}
		return models.Activity{}, err
	}
	return activity, nil
}

func (s *activityService) Create(ctx context.Context, payload dto.CreateActivityRequest) (models.Activity, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Activity{}, err
	}

	id := payload.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		if _, err := s.repo.GetByID(ctx, id); err == nil {
			return models.Activity{}, ErrDuplicateID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, err
		}
	}

	activity := payload.ToModel(id, s.now())
	if err := s.repo.Create(ctx, &activity); err != nil {
		return models.Activity{}, err
	}

	observability.ActivityTransitions().WithLabelValues(activity.Type, "created").Inc()
	s.logger.Info().Str("activity_id", activity.ID).Str("title", activity.Title).Msg("activity created")
	return activity, nil
}

func (s *activityService) Update(ctx context.Context, id string, payload dto.UpdateActivityRequest) (models.Activity, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Activity{}, err
	}

	activity, err := s.Get(ctx, id)
	if err != nil {
		return models.Activity{}, err
	}

	if activity.Completed && payload.Date != nil && *payload.Date != activity.Date {
		return models.Activity{}, ErrDateLocked
	}

	activity.ApplyPatch(payload.ToPatch())
	if err := s.repo.Update(ctx, &activity); err != nil {
		return models.Activity{}, err
	}

	s.logger.Info().Str("activity_id", id).Str("title", activity.Title).Msg("activity updated")
	return activity, nil
}

func (s *activityService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}

	s.logger.Info().Str("activity_id", id).Msg("activity deleted")
	return nil
}

// Complete transitions a scheduled activity to completed. Unlike the
// client-side collection, re-applying a terminal state is an error here.
func (s *activityService) Complete(ctx context.Context, id string) (models.Activity, error) {
	activity, err := s.Get(ctx, id)
	if err != nil {
		return models.Activity{}, err
	}

	if activity.Cancelled {
		return models.Activity{}, models.ErrInvalidTransition
	}
	if activity.Completed {
		return models.Activity{}, ErrAlreadyCompleted
	}

	if err := activity.Complete(s.now()); err != nil {
		return models.Activity{}, err
	}
	if err := s.repo.Update(ctx, &activity); err != nil {
		return models.Activity{}, err
	}

	observability.ActivityTransitions().WithLabelValues(activity.Type, "completed").Inc()
	s.logger.Info().Str("activity_id", id).Str("title", activity.Title).Msg("activity completed")
	return activity, nil
}

// Cancel transitions a scheduled activity to cancelled, with the same
// strictness as Complete.
func (s *activityService) Cancel(ctx context.Context, id string) (models.Activity, error) {
	activity, err := s.Get(ctx, id)
	if err != nil {
		return models.Activity{}, err
	}

	if activity.Completed {
		return models.Activity{}, models.ErrInvalidTransition
	}
	if activity.Cancelled {
		return models.Activity{}, ErrAlreadyCancelled
	}

	if err := activity.Cancel(); err != nil {
		return models.Activity{}, err
	}
	if err := s.repo.Update(ctx, &activity); err != nil {
		return models.Activity{}, err
	}

	observability.ActivityTransitions().WithLabelValues(activity.Type, "cancelled").Inc()
	s.logger.Info().Str("activity_id", id).Str("title", activity.Title).Msg("activity cancelled")
	return activity, nil
}

// Sync upserts the pushed set by id (insert when unknown, overwrite when
// known; last writer wins) and returns the full post-sync set sorted by
// (date, time) ascending.
func (s *activityService) Sync(ctx context.Context, activities []models.Activity) ([]models.Activity, error) {
	now := s.now()
	for i := range activities {
		if activities[i].ID == "" {
			activities[i].ID = uuid.NewString()
		}
		if activities[i].CreatedAt == "" {
			activities[i].CreatedAt = now.UTC().Format(time.RFC3339)
		}
		if activities[i].Type == models.TypeNetworking && activities[i].Format == "" {
			activities[i].Format = models.DefaultNetworkingFormat
		}
	}

	if err := s.repo.Upsert(ctx, activities); err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(activities)).Msg("activities synced")
	return s.repo.List(ctx, repository.ActivityFilter{})
}

func (s *activityService) Upcoming(ctx context.Context, limit int) ([]models.Activity, error) {
	return s.repo.Upcoming(ctx, limit)
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *activityService) Mentors(ctx context.Context) ([]string, error) {
	return s.repo.Mentors(ctx)
}

func (s *activityService) Statistics(ctx context.Context, startDate, endDate string) (models.Stats, error) {
	filter := repository.ActivityFilter{}
	if startDate != "" && endDate != "" {
		filter.StartDate = startDate
		filter.EndDate = endDate
	}

	activities, err := s.repo.List(ctx, filter)
	if err != nil {
		return models.Stats{}, err
	}
	return models.ComputeStats(activities, "", ""), nil
}
