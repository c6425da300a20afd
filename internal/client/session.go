package client

import (
	"net/http"

	"github.com/rs/zerolog"
)

// SessionConfig configures a client session.
type SessionConfig struct {
	BaseURL    string
	CacheDir   string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Session owns one client-side working set and its collaborators, wired per
// the standard data flow: user intent goes through the dispatcher to the
// backend, confirmed mutations land in the collection, and the cache and
// history observe every change.
type Session struct {
	Collection *Collection
	History    *History
	Cache      *Cache
	Remote     *Remote
	Dispatcher *Dispatcher
}

// NewSession builds a fully wired session and restores the cached membership
// and undo log. The cache observer is registered before the restore so the
// record stays consistent; the history observer is attached afterwards so the
// restore itself is not recorded as a change. A fresh cache directory seeds
// the history with the current state as the undo baseline; otherwise the
// persisted undo log carries over, so undo keeps stepping back through
// changes made in earlier runs. The undo log is re-persisted after every
// change, including the re-record that follows an undo's ReplaceList.
func NewSession(cfg SessionConfig) *Session {
	col := NewCollection(cfg.Logger)
	cache := NewCache(cfg.CacheDir, cfg.Logger)
	history := NewHistory(DefaultHistoryLimit)

	cache.Attach(col)
	_ = cache.Load(col)
	_ = cache.LoadHistory(history)

	history.Attach(col)
	if history.Len() == 0 {
		history.Record(col.ToArray())
	}
	col.Subscribe(func() {
		_ = cache.SaveHistory(history)
	})

	remote := NewRemote(cfg.BaseURL, cfg.HTTPClient, col, cfg.Logger)
	dispatcher := NewDispatcher(col, history, remote, cfg.Logger)

	return &Session{
		Collection: col,
		History:    history,
		Cache:      cache,
		Remote:     remote,
		Dispatcher: dispatcher,
	}
}
