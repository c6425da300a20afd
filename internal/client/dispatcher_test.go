package client_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/communitydesk/activityhub/internal/client"
	"github.com/communitydesk/activityhub/internal/models"
)

func newSession(t *testing.T, backend *fakeBackend) *client.Session {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	return client.NewSession(client.SessionConfig{
		BaseURL:    server.URL,
		CacheDir:   t.TempDir(),
		HTTPClient: server.Client(),
		Logger:     zerolog.New(io.Discard),
	})
}

func TestDispatcherAddCreatesRemotelyAndLocally(t *testing.T) {
	backend := newFakeBackend()
	session := newSession(t, backend)

	message, err := session.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandAdd},
		client.Input{Type: models.TypeWorkshop, Title: "Intro", Date: "2025-06-01", Time: "10:00"},
	)
	require.NoError(t, err)
	require.Equal(t, "Activity created successfully", message)
	require.Equal(t, 1, session.Collection.Len())
	require.Len(t, backend.activities, 1)
}

func TestDispatcherAddRequiresTitleDateAndTime(t *testing.T) {
	session := newSession(t, newFakeBackend())

	_, err := session.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandAdd},
		client.Input{Type: models.TypeWorkshop, Title: "Intro"},
	)
	require.Error(t, err)
	require.Zero(t, session.Collection.Len())
}

func TestDispatcherUpdateRequiresKnownID(t *testing.T) {
	session := newSession(t, newFakeBackend())

	_, err := session.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandUpdate, Args: []string{"missing"}},
		client.Input{Title: "x"},
	)
	require.ErrorContains(t, err, "not found")
}

func TestDispatcherFailedRemoteLeavesCollectionUntouched(t *testing.T) {
	cancelled := activity("a1", models.TypeWorkshop, "Intro")
	require.NoError(t, cancelled.Cancel())
	backend := newFakeBackend(cancelled)
	session := newSession(t, backend)
	_, err := session.Remote.FetchActivities(context.Background())
	require.NoError(t, err)
	before := session.Collection.ToArray()

	_, err = session.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandComplete, Args: []string{"a1"}}, client.Input{})

	var transportErr *client.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, before, session.Collection.ToArray())
}

func TestDispatcherUndoRevertsLastChange(t *testing.T) {
	session := newSession(t, newFakeBackend())

	_, err := session.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandAdd},
		client.Input{Type: models.TypeWorkshop, Title: "Intro", Date: "2025-06-01", Time: "10:00"},
	)
	require.NoError(t, err)
	require.Equal(t, 1, session.Collection.Len())

	message, err := session.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandUndo}, client.Input{})
	require.NoError(t, err)
	require.Equal(t, "Reverted last change", message)
	require.Zero(t, session.Collection.Len())

	// Nothing left to step back to.
	message, err = session.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandUndo}, client.Input{})
	require.NoError(t, err)
	require.Equal(t, "Nothing to undo", message)
}

func TestDispatcherPerItemCommandsRequireID(t *testing.T) {
	session := newSession(t, newFakeBackend())

	for _, name := range []string{client.CommandDelete, client.CommandComplete, client.CommandCancel, client.CommandUpdate} {
		_, err := session.Dispatcher.Execute(context.Background(), client.Command{Name: name}, client.Input{})
		require.ErrorContains(t, err, "requires an activity id")
	}
}

func TestDispatcherUnknownCommandPanics(t *testing.T) {
	session := newSession(t, newFakeBackend())

	require.Panics(t, func() {
		_, _ = session.Dispatcher.Execute(context.Background(), client.Command{Name: "reticulate"}, client.Input{})
	})
}

func TestSessionRestoresCachedStateAcrossRuns(t *testing.T) {
	backend := newFakeBackend(activity("a1", models.TypeWorkshop, "Persisted"))
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	cacheDir := t.TempDir()
	cfg := client.SessionConfig{
		BaseURL:    server.URL,
		CacheDir:   cacheDir,
		HTTPClient: server.Client(),
		Logger:     zerolog.New(io.Discard),
	}

	first := client.NewSession(cfg)
	_, err := first.Remote.FetchActivities(context.Background())
	require.NoError(t, err)

	second := client.NewSession(cfg)
	require.Equal(t, 1, second.Collection.Len())
	got, ok := second.Collection.FindByID("a1")
	require.True(t, ok)
	require.Equal(t, "Persisted", got.Title)

	// The undo log persisted too, so the fetch made in the first run can be
	// stepped back from the second.
	message, err := second.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandUndo}, client.Input{})
	require.NoError(t, err)
	require.Equal(t, "Reverted last change", message)
	require.Zero(t, second.Collection.Len())

	message, err = second.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandUndo}, client.Input{})
	require.NoError(t, err)
	require.Equal(t, "Nothing to undo", message)
}

func TestUndoRevertsChangesMadeInEarlierRuns(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	cfg := client.SessionConfig{
		BaseURL:    server.URL,
		CacheDir:   t.TempDir(),
		HTTPClient: server.Client(),
		Logger:     zerolog.New(io.Discard),
	}

	first := client.NewSession(cfg)
	_, err := first.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandAdd},
		client.Input{Type: models.TypeWorkshop, Title: "Intro", Date: "2025-06-01", Time: "10:00"},
	)
	require.NoError(t, err)

	// A standalone undo run reverts the add made in the previous run.
	second := client.NewSession(cfg)
	require.Equal(t, 1, second.Collection.Len())

	message, err := second.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandUndo}, client.Input{})
	require.NoError(t, err)
	require.Equal(t, "Reverted last change", message)
	require.Zero(t, second.Collection.Len())

	// The revert itself persisted, so a third run has nothing left to undo.
	third := client.NewSession(cfg)
	require.Zero(t, third.Collection.Len())
	message, err = third.Dispatcher.Execute(context.Background(),
		client.Command{Name: client.CommandUndo}, client.Input{})
	require.NoError(t, err)
	require.Equal(t, "Nothing to undo", message)
}
