package client

import (
	"github.com/communitydesk/activityhub/internal/models"
)

// DefaultHistoryLimit bounds the undo log.
const DefaultHistoryLimit = 50

// History is a bounded stack of collection snapshots, oldest first. Each
// snapshot is a deep structural copy, so mutating live activities after the
// fact cannot alter recorded states.
type History struct {
	snapshots [][]models.Activity
	limit     int
}

// NewHistory builds a history bounded to limit snapshots. Non-positive
// limits fall back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Record appends a deep copy of the given membership. When the limit is
// exceeded the oldest snapshot is evicted.
func (h *History) Record(state []models.Activity) {
	h.snapshots = append(h.snapshots, models.CloneAll(state))
	if len(h.snapshots) > h.limit {
		h.snapshots = h.snapshots[1:]
	}
}

// Undo discards the latest snapshot (the current state) and pops the one
// beneath it, which the caller installs as the new current state. With fewer
// than two snapshots there is nothing to revert to and Undo reports false.
// Repeated calls walk further back; there is no redo.
func (h *History) Undo() ([]models.Activity, bool) {
	if len(h.snapshots) < 2 {
		return nil, false
	}
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	prior := h.snapshots[len(h.snapshots)-1]
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return prior, true
}

// Snapshots returns a deep copy of the recorded snapshots, oldest first.
func (h *History) Snapshots() [][]models.Activity {
	out := make([][]models.Activity, len(h.snapshots))
	for i, s := range h.snapshots {
		out[i] = models.CloneAll(s)
	}
	return out
}

// Restore replaces the recorded snapshots with the given ones, keeping only
// the newest entries when the limit is exceeded.
func (h *History) Restore(snapshots [][]models.Activity) {
	if len(snapshots) > h.limit {
		snapshots = snapshots[len(snapshots)-h.limit:]
	}
	h.snapshots = make([][]models.Activity, len(snapshots))
	for i, s := range snapshots {
		h.snapshots[i] = models.CloneAll(s)
	}
}

// Attach subscribes the history to the collection so every change records a
// snapshot. Returns the subscription token.
func (h *History) Attach(c *Collection) int {
	return c.Subscribe(func() {
		h.Record(c.ToArray())
	})
}
