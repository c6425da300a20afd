package models

import (
	"errors"
	"time"
)

// Activity types supported by the tracker.
const (
	TypeWorkshop   = "workshop"
	TypeMentoring  = "mentoring"
	TypeNetworking = "networking"
)

// Derived status values. Status is never stored; cancelled wins over completed.
const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DefaultNetworkingFormat is applied when a networking activity omits a format.
const DefaultNetworkingFormat = "mixer"

// ErrInvalidTransition indicates an attempt to move an activity between the
// two terminal states (completing a cancelled activity or vice versa).
var ErrInvalidTransition = errors.New("invalid activity state transition")

// Activity is one schedulable record: a workshop, mentoring session or
// networking event. Date is an ISO calendar date (YYYY-MM-DD) and Time a
// 24h HH:MM string; both sort lexicographically in chronological order.
type Activity struct {
	ID            string  `gorm:"primaryKey;size:64" json:"id"`
	Type          string  `gorm:"size:32;not null;index:idx_activities_type_date,priority:1" json:"type"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	Date          string  `gorm:"size:10;not null;index;index:idx_activities_type_date,priority:2" json:"date"`
	Time          string  `gorm:"size:5;not null" json:"time"`
	Description   string  `gorm:"type:text" json:"description"`
	Location      string  `gorm:"size:255" json:"location"`
	Capacity      *int    `json:"capacity"`
	Completed     bool    `gorm:"not null;default:false;index:idx_activities_flags,priority:1" json:"completed"`
	Cancelled     bool    `gorm:"not null;default:false;index:idx_activities_flags,priority:2" json:"cancelled"`
	CreatedAt     string  `gorm:"size:40;not null;autoCreateTime:false" json:"createdAt"`
	CompletedDate *string `gorm:"size:40" json:"completedDate"`

	// Workshop fields.
	Presenter string `gorm:"size:255" json:"presenter,omitempty"`
	Materials string `gorm:"type:text" json:"materials,omitempty"`

	// Mentoring fields.
	Mentor string `gorm:"size:255" json:"mentor,omitempty"`
	Mentee string `gorm:"size:255" json:"mentee,omitempty"`
	Focus  string `gorm:"size:255" json:"focus,omitempty"`

	// Networking fields.
	Format   string `gorm:"size:32" json:"format,omitempty"`
	Partners string `gorm:"type:text" json:"partners,omitempty"`
}

// TableName keeps the table name stable regardless of pluralisation rules.
func (Activity) TableName() string { return "activities" }

// Status derives the lifecycle status from the terminal flags.
func (a Activity) Status() string {
	switch {
	case a.Cancelled:
		return StatusCancelled
	case a.Completed:
		return StatusCompleted
	default:
		return StatusUpcoming
	}
}

// IsUpcoming reports whether the activity is scheduled on or after the given
// ISO date and has not reached a terminal state.
func (a Activity) IsUpcoming(today string) bool {
	return a.Date >= today && !a.Completed && !a.Cancelled
}

// Complete marks the activity completed and stamps CompletedDate on the
// first transition. Completing a cancelled activity is refused. Re-applying
// the flag on an already-completed activity is tolerated here; the service
// layer rejects it.
func (a *Activity) Complete(now time.Time) error {
	if a.Cancelled {
		return ErrInvalidTransition
	}
	if !a.Completed {
		a.Completed = true
		stamp := now.UTC().Format(time.RFC3339)
		a.CompletedDate = &stamp
	}
	return nil
}

// Cancel marks the activity cancelled. Cancelling a completed activity is
// refused; re-applying the flag is tolerated here.
func (a *Activity) Cancel() error {
	if a.Completed {
		return ErrInvalidTransition
	}
	a.Cancelled = true
	return nil
}

// Patch carries a partial update. Nil fields are left untouched. Identity
// fields (ID, Type, CreatedAt) and the terminal flags are not patchable.
type Patch struct {
	Title       *string
	Date        *string
	Time        *string
	Description *string
	Location    *string
	Capacity    *int

	Presenter *string
	Materials *string

	Mentor *string
	Mentee *string
	Focus  *string

	Format   *string
	Partners *string
}

// ApplyPatch merges the non-nil patch fields onto the activity. Type-specific
// fields are merged only when they belong to the activity's own type.
func (a *Activity) ApplyPatch(p Patch) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Capacity != nil {
		v := *p.Capacity
		a.Capacity = &v
	}

	switch a.Type {
	case TypeWorkshop:
		if p.Presenter != nil {
			a.Presenter = *p.Presenter
		}
		if p.Materials != nil {
			a.Materials = *p.Materials
		}
	case TypeMentoring:
		if p.Mentor != nil {
			a.Mentor = *p.Mentor
		}
		if p.Mentee != nil {
			a.Mentee = *p.Mentee
		}
		if p.Focus != nil {
			a.Focus = *p.Focus
		}
	case TypeNetworking:
		if p.Format != nil {
			a.Format = *p.Format
		}
		if p.Partners != nil {
			a.Partners = *p.Partners
		}
	}
}

// Clone returns a structural copy with independent pointer fields, so a
// stored snapshot cannot be altered by later mutation of the live entity.
func (a Activity) Clone() Activity {
	c := a
	if a.Capacity != nil {
		v := *a.Capacity
		c.Capacity = &v
	}
	if a.CompletedDate != nil {
		v := *a.CompletedDate
		c.CompletedDate = &v
	}
	return c
}

// CloneAll deep-copies a slice of activities.
func CloneAll(activities []Activity) []Activity {
	out := make([]Activity, len(activities))
	for i, a := range activities {
		out[i] = a.Clone()
	}
	return out
}
