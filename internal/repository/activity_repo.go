package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/communitydesk/activityhub/internal/models"
)

const dateLayout = "2006-01-02"

// ActivityFilter describes the list query options.
type ActivityFilter struct {
	Type      string
	Status    string
	StartDate string
	EndDate   string
	Mentor    string
	Location  string
	Capacity  *int
}

// ActivityRepository defines persistence operations for activities.
type ActivityRepository interface {
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error)
	GetByID(ctx context.Context, id string) (models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, activities []models.Activity) error
	Upcoming(ctx context.Context, limit int) ([]models.Activity, error)
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
	Mentors(ctx context.Context) ([]string, error)
}

type activityRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewActivityRepository instantiates a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db, now: time.Now}
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{}).Order("date ASC, time ASC")

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	switch filter.Status {
	case models.StatusUpcoming:
		query = query.Where("completed = ? AND cancelled = ? AND date >= ?", false, false, r.today())
	case models.StatusCompleted:
		query = query.Where("completed = ?", true)
	case models.StatusCancelled:
		query = query.Where("cancelled = ?", true)
	case "past-due":
		query = query.Where("completed = ? AND cancelled = ? AND date < ?", false, false, r.today())
	}

	if filter.StartDate != "" {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("date <= ?", filter.EndDate)
	}

	if filter.Mentor != "" {
		query = query.Where("LOWER(mentor) LIKE ?", likePattern(filter.Mentor))
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", likePattern(filter.Location))
	}
	if filter.Capacity != nil {
		query = query.Where("capacity >= ?", *filter.Capacity)
	}

	var activities []models.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Activity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Upsert inserts or overwrites each activity by id in one transaction.
func (r *activityRepository) Upsert(ctx context.Context, activities []models.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&activities).Error
	})
}

func (r *activityRepository) Upcoming(ctx context.Context, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("completed = ? AND cancelled = ? AND date >= ?", false, false, r.today()).
		Order("date ASC, time ASC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("completed = ?", true).
		Order("completed_date DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) Mentors(ctx context.Context) ([]string, error) {
	var mentors []string
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("type = ? AND mentor <> ''", models.TypeMentoring).
		Distinct("mentor").
		Order("mentor ASC").
		Pluck("mentor", &mentors).Error
	if err != nil {
		return nil, err
	}
	return mentors, nil
}

func (r *activityRepository) today() string {
	return r.now().UTC().Format(dateLayout)
}

func likePattern(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}
