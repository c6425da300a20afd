package client

import (
	"encoding/json"
	"fmt"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"github.com/communitydesk/activityhub/internal/models"
)

// Record names under the cache base path.
const (
	cacheKey   = "activities"
	historyKey = "history"
)

// Cache persists the collection's membership and the undo log as JSON records
// on disk and restores them at startup. Cache failures are logged and never
// block the collection.
type Cache struct {
	d      *diskv.Diskv
	logger zerolog.Logger
}

// NewCache builds a disk-backed cache rooted at basePath.
func NewCache(basePath string, logger zerolog.Logger) *Cache {
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

// Save serializes the collection to the cache record.
func (c *Cache) Save(col *Collection) error {
	payload, err := json.Marshal(col.ToArray())
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode activities for cache")
		return fmt.Errorf("encode cache record: %w", err)
	}
	if err := c.d.Write(cacheKey, payload); err != nil {
		c.logger.Error().Err(err).Msg("failed to write cache record")
		return fmt.Errorf("write cache record: %w", err)
	}
	return nil
}

// Load restores the cached membership into the collection, preserving the
// stored ids. A missing record is not an error. A corrupt record is logged
// and ignored, leaving the collection as it was.
func (c *Cache) Load(col *Collection) error {
	if !c.d.Has(cacheKey) {
		return nil
	}

	payload, err := c.d.Read(cacheKey)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read cache record")
		return fmt.Errorf("read cache record: %w", err)
	}

	var activities []models.Activity
	if err := json.Unmarshal(payload, &activities); err != nil {
		c.logger.Warn().Err(err).Msg("cache record is corrupt, ignoring it")
		return nil
	}

	col.Clear()
	for _, a := range activities {
		col.Add(a)
	}
	return nil
}

// SaveHistory persists the undo log alongside the activities record, so undo
// keeps working across process restarts.
func (c *Cache) SaveHistory(h *History) error {
	payload, err := json.Marshal(h.Snapshots())
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode undo log for cache")
		return fmt.Errorf("encode history record: %w", err)
	}
	if err := c.d.Write(historyKey, payload); err != nil {
		c.logger.Error().Err(err).Msg("failed to write history record")
		return fmt.Errorf("write history record: %w", err)
	}
	return nil
}

// LoadHistory restores the undo log recorded by a previous session. Missing
// and corrupt records are tolerated the same way Load tolerates them.
func (c *Cache) LoadHistory(h *History) error {
	if !c.d.Has(historyKey) {
		return nil
	}

	payload, err := c.d.Read(historyKey)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read history record")
		return fmt.Errorf("read history record: %w", err)
	}

	var snapshots [][]models.Activity
	if err := json.Unmarshal(payload, &snapshots); err != nil {
		c.logger.Warn().Err(err).Msg("history record is corrupt, ignoring it")
		return nil
	}

	h.Restore(snapshots)
	return nil
}

// Attach subscribes the cache to the collection so every change is persisted.
// Returns the subscription token.
func (c *Cache) Attach(col *Collection) int {
	return col.Subscribe(func() {
		_ = c.Save(col)
	})
}
