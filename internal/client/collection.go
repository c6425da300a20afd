package client

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/communitydesk/activityhub/internal/models"
)

// Collection is the in-memory working set of activities for one session,
// unique by id and mutated only through its own API. It is an explicitly
// constructed value handed to whichever components need it; sessions and
// tests each get their own instance. Internal order is insertion order;
// chronological ordering is imposed at render time.
type Collection struct {
	Observable

	activities []models.Activity
	index      map[string]int
	now        func() time.Time
}

// NewCollection builds an empty collection.
func NewCollection(logger zerolog.Logger) *Collection {
	c := &Collection{
		index: make(map[string]int),
		now:   time.Now,
	}
	c.Observable.logger = logger.With().Str("component", "collection").Logger()
	return c
}

// Len returns the number of activities held.
func (c *Collection) Len() int { return len(c.activities) }

// Add inserts the activity and notifies observers. Adding an id that already
// exists is a no-op: the collection is unchanged and observers are not
// notified. Returns whether the activity was inserted.
func (c *Collection) Add(a models.Activity) bool {
	if _, exists := c.index[a.ID]; exists {
		return false
	}
	c.index[a.ID] = len(c.activities)
	c.activities = append(c.activities, a.Clone())
	c.Notify()
	return true
}

// Update merges the non-nil patch fields onto the matching activity's
// updatable fields and notifies observers. Identity fields never change.
// Unknown ids are a no-op.
func (c *Collection) Update(id string, patch models.Patch) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.activities[i].ApplyPatch(patch)
	c.Notify()
	return true
}

// Delete removes the activity with the given id, if present.
func (c *Collection) Delete(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.activities = append(c.activities[:i], c.activities[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.activities); j++ {
		c.index[c.activities[j].ID] = j
	}
	c.Notify()
	return true
}

// Complete marks the activity completed. Unknown ids are a no-op. Completing
// a cancelled activity fails with models.ErrInvalidTransition; re-applying
// the flag on an already-completed activity is tolerated here (the server's
// service layer is stricter).
func (c *Collection) Complete(id string) error {
	i, ok := c.index[id]
	if !ok {
		return nil
	}
	if err := c.activities[i].Complete(c.now()); err != nil {
		return err
	}
	c.Notify()
	return nil
}

// Cancel marks the activity cancelled, with the same permissiveness rules as
// Complete.
func (c *Collection) Cancel(id string) error {
	i, ok := c.index[id]
	if !ok {
		return nil
	}
	if err := c.activities[i].Cancel(); err != nil {
		return err
	}
	c.Notify()
	return nil
}

// Put installs the given record, replacing any stored activity with the same
// id or appending it otherwise. Used to mirror server-confirmed state, which
// is taken as-is rather than re-derived locally.
func (c *Collection) Put(a models.Activity) {
	if i, ok := c.index[a.ID]; ok {
		c.activities[i] = a.Clone()
	} else {
		c.index[a.ID] = len(c.activities)
		c.activities = append(c.activities, a.Clone())
	}
	c.Notify()
}

// FindByID returns a copy of the matching activity.
func (c *Collection) FindByID(id string) (models.Activity, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Activity{}, false
	}
	return c.activities[i].Clone(), true
}

// ReplaceList swaps the entire membership for the given set. Used by undo.
func (c *Collection) ReplaceList(activities []models.Activity) {
	c.activities = models.CloneAll(activities)
	c.index = make(map[string]int, len(activities))
	for i, a := range c.activities {
		c.index[a.ID] = i
	}
	c.Notify()
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.activities = nil
	c.index = make(map[string]int)
	c.Notify()
}

// ToArray returns an independent copy of the membership in insertion order.
func (c *Collection) ToArray() []models.Activity {
	return models.CloneAll(c.activities)
}

// Stats aggregates the collection, optionally restricted to the inclusive
// [startDate, endDate] range on the date field.
func (c *Collection) Stats(startDate, endDate string) models.Stats {
	return models.ComputeStats(c.activities, startDate, endDate)
}
