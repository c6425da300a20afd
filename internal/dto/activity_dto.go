package dto

import (
	"strings"
	"time"

	"github.com/communitydesk/activityhub/internal/models"
)

// CreateActivityRequest is the payload for creating an activity. Clients may
// supply their own id (offline-created records keep their identity); the
// server assigns one otherwise.
type CreateActivityRequest struct {
	ID          string `json:"id,omitempty" validate:"omitempty,max=64"`
	Type        string `json:"type" validate:"required,oneof=workshop mentoring networking"`
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Capacity    *int   `json:"capacity,omitempty" validate:"omitempty,min=0"`
	CreatedAt   string `json:"createdAt,omitempty"`

	Presenter string `json:"presenter,omitempty"`
	Materials string `json:"materials,omitempty"`

	Mentor string `json:"mentor,omitempty"`
	Mentee string `json:"mentee,omitempty"`
	Focus  string `json:"focus,omitempty"`

	Format   string `json:"format,omitempty" validate:"omitempty,oneof=mixer roundtable speed-networking panel other"`
	Partners string `json:"partners,omitempty"`
}

// ToModel materialises the request into an activity with the given id and
// creation time. Type-specific fields are kept only for the matching type.
func (r CreateActivityRequest) ToModel(id string, now time.Time) models.Activity {
	a := models.Activity{
		ID:          id,
		Type:        r.Type,
		Title:       strings.TrimSpace(r.Title),
		Date:        r.Date,
		Time:        r.Time,
		Description: strings.TrimSpace(r.Description),
		Location:    strings.TrimSpace(r.Location),
		Capacity:    r.Capacity,
		CreatedAt:   r.CreatedAt,
	}
	if a.CreatedAt == "" {
		a.CreatedAt = now.UTC().Format(time.RFC3339)
	}

	switch r.Type {
	case models.TypeWorkshop:
		a.Presenter = strings.TrimSpace(r.Presenter)
		a.Materials = strings.TrimSpace(r.Materials)
	case models.TypeMentoring:
		a.Mentor = strings.TrimSpace(r.Mentor)
		a.Mentee = strings.TrimSpace(r.Mentee)
		a.Focus = strings.TrimSpace(r.Focus)
	case models.TypeNetworking:
		a.Format = r.Format
		if a.Format == "" {
			a.Format = models.DefaultNetworkingFormat
		}
		a.Partners = strings.TrimSpace(r.Partners)
	}

	return a
}

// UpdateActivityRequest is a partial update; absent fields are untouched.
type UpdateActivityRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Date        *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time        *string `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,min=0"`

	Presenter *string `json:"presenter,omitempty"`
	Materials *string `json:"materials,omitempty"`

	Mentor *string `json:"mentor,omitempty"`
	Mentee *string `json:"mentee,omitempty"`
	Focus  *string `json:"focus,omitempty"`

	Format   *string `json:"format,omitempty" validate:"omitempty,oneof=mixer roundtable speed-networking panel other"`
	Partners *string `json:"partners,omitempty"`
}

// ToPatch converts the request into a model patch.
func (r UpdateActivityRequest) ToPatch() models.Patch {
	return models.Patch{
		Title:       r.Title,
		Date:        r.Date,
		Time:        r.Time,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Presenter:   r.Presenter,
		Materials:   r.Materials,
		Mentor:      r.Mentor,
		Mentee:      r.Mentee,
		Focus:       r.Focus,
		Format:      r.Format,
		Partners:    r.Partners,
	}
}

// DashboardResponse aggregates the next activities, recently completed ones
// and overall statistics.
type DashboardResponse struct {
	Upcoming []models.Activity `json:"upcoming"`
	Recent   []models.Activity `json:"recent"`
	Stats    models.Stats      `json:"stats"`
}
