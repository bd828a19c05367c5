package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lorrc/kanban-board/internal/core/domain"
	apperrors "github.com/lorrc/kanban-board/internal/core/errors"
	"github.com/lorrc/kanban-board/internal/core/mocks"
	"github.com/lorrc/kanban-board/internal/core/ports"
	"github.com/lorrc/kanban-board/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fetchedSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Tickets: []domain.Ticket{
			{ID: "CAM-1", Title: "Beta", Status: domain.StatusTodo, Priority: domain.PriorityLow, UserID: "usr-1"},
			{ID: "CAM-2", Title: "alpha", Status: domain.StatusDone, Priority: domain.PriorityUrgent, UserID: "usr-2"},
			{ID: "CAM-3", Title: "Gamma", Status: domain.StatusTodo, Priority: domain.PriorityHigh, UserID: "usr-x"},
		},
		Users: []domain.User{
			{ID: "usr-1", Name: "Anoop sharma"},
			{ID: "usr-2", Name: "Yogesh"},
		},
		FetchedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

type fixture struct {
	source      *mocks.MockTicketSource
	store       *mocks.MockPreferenceStore
	broadcaster *mocks.MockEventBroadcaster
	svc         *services.BoardService
}

func newFixture() *fixture {
	f := &fixture{
		source:      mocks.NewMockTicketSource(),
		store:       mocks.NewMockPreferenceStore(),
		broadcaster: mocks.NewMockEventBroadcaster(),
	}
	f.svc = services.NewBoardService(f.source, f.store, f.broadcaster, services.BoardServiceConfig{}, discardLogger())
	return f
}

func (f *fixture) storeEmpty(scope string) {
	f.store.On("Get", mock.Anything, scope, domain.PreferenceGrouping).Return("", false, nil)
	f.store.On("Get", mock.Anything, scope, domain.PreferenceSortOption).Return("", false, nil)
}

func ticketIDs(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestBoardService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("installs snapshot and broadcasts", func(t *testing.T) {
		f := newFixture()
		f.source.On("FetchBoard", ctx).Return(fetchedSnapshot(), nil).Twice()
		f.broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventBoardRefreshed && e.Scope == ""
		})).Return(nil).Twice()

		assert.False(t, f.svc.Snapshot().IsLoaded())

		snapshot, err := f.svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), snapshot.Version)
		assert.Len(t, snapshot.Tickets, 3)
		assert.True(t, f.svc.Snapshot().IsLoaded())

		snapshot, err = f.svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), snapshot.Version)

		f.source.AssertExpectations(t)
		f.broadcaster.AssertExpectations(t)
	})

	t.Run("failure keeps previous snapshot", func(t *testing.T) {
		f := newFixture()
		f.source.On("FetchBoard", ctx).Return(fetchedSnapshot(), nil).Once()
		f.source.On("FetchBoard", ctx).Return(nil, apperrors.ErrUpstreamUnavailable).Once()
		f.broadcaster.On("Broadcast", mock.Anything).Return(nil).Once()

		_, err := f.svc.Refresh(ctx)
		require.NoError(t, err)

		_, err = f.svc.Refresh(ctx)
		assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
		assert.Equal(t, uint64(1), f.svc.Snapshot().Version)
		assert.Len(t, f.svc.Snapshot().Tickets, 3)
		f.broadcaster.AssertNumberOfCalls(t, "Broadcast", 1)
	})

	t.Run("new snapshot drops cached views", func(t *testing.T) {
		f := newFixture()
		f.source.On("FetchBoard", ctx).Return(fetchedSnapshot(), nil).Twice()
		f.broadcaster.On("Broadcast", mock.Anything).Return(nil).Twice()

		_, err := f.svc.Refresh(ctx)
		require.NoError(t, err)

		params := ports.GetBoardParams{Grouping: domain.GroupByUser, SortOption: domain.SortByTitle}
		_, err = f.svc.GetBoard(ctx, params)
		require.NoError(t, err)
		_, err = f.svc.GetBoard(ctx, params)
		require.NoError(t, err)

		hits, misses, entries := f.svc.ViewCacheStats()
		assert.Equal(t, uint64(1), hits)
		assert.Equal(t, uint64(1), misses)
		assert.Equal(t, 1, entries)

		_, err = f.svc.Refresh(ctx)
		require.NoError(t, err)

		_, _, entries = f.svc.ViewCacheStats()
		assert.Zero(t, entries)
	})

	t.Run("broadcast failure does not fail refresh", func(t *testing.T) {
		f := newFixture()
		f.source.On("FetchBoard", ctx).Return(fetchedSnapshot(), nil)
		f.broadcaster.On("Broadcast", mock.Anything).Return(errors.New("hub closed"))

		_, err := f.svc.Refresh(ctx)
		assert.NoError(t, err)
	})
}

func TestBoardService_GetBoard(t *testing.T) {
	ctx := context.Background()

	t.Run("empty board before first fetch", func(t *testing.T) {
		f := newFixture()
		f.storeEmpty(ports.DefaultScope)

		b, err := f.svc.GetBoard(ctx, ports.GetBoardParams{})

		require.NoError(t, err)
		assert.Equal(t, uint64(0), b.Version)
		assert.Equal(t, 0, b.Groups.Len())
		assert.Equal(t, domain.GroupByStatus, b.Grouping)
		assert.Equal(t, domain.SortByPriority, b.SortOption)
	})

	t.Run("uses defaults when nothing stored", func(t *testing.T) {
		f := newFixture()
		f.source.On("FetchBoard", ctx).Return(fetchedSnapshot(), nil)
		f.broadcaster.On("Broadcast", mock.Anything).Return(nil)
		f.storeEmpty(ports.DefaultScope)
		_, err := f.svc.Refresh(ctx)
		require.NoError(t, err)

		b, err := f.svc.GetBoard(ctx, ports.GetBoardParams{})

		require.NoError(t, err)
		assert.Equal(t, []domain.GroupKey{"Done", "Todo"}, b.Groups.Keys())
		todo, _ := b.Groups.Lookup("Todo")
		assert.Equal(t, []string{"CAM-3", "CAM-1"}, ticketIDs(todo))
	})

	t.Run("stored preferences apply", func(t *testing.T) {
		f := newFixture()
		f.source.On("FetchBoard", ctx).Return(fetchedSnapshot(), nil)
		f.broadcaster.On("Broadcast", mock.Anything).Return(nil)
		f.store.On("Get", mock.Anything, "viewer-1", domain.PreferenceGrouping).Return("user", true, nil)
		f.store.On("Get", mock.Anything, "viewer-1", domain.PreferenceSortOption).Return("title", true, nil)
		_, err := f.svc.Refresh(ctx)
		require.NoError(t, err)

		b, err := f.svc.GetBoard(ctx, ports.GetBoardParams{Scope: "viewer-1"})

		require.NoError(t, err)
		assert.Equal(t, domain.GroupByUser, b.Grouping)
		assert.Equal(t, domain.SortByTitle, b.SortOption)
		assert.Equal(t, []domain.GroupKey{"Yogesh", "Anoop sharma", "Unknown"}, b.Groups.Keys())
	})

	t.Run("explicit modes skip the store", func(t *testing.T) {
		f := newFixture()

		b, err := f.svc.GetBoard(ctx, ports.GetBoardParams{
			Grouping:   domain.GroupByPriority,
			SortOption: domain.SortByTitle,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.GroupByPriority, b.Grouping)
		f.store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown explicit mode passes through", func(t *testing.T) {
		f := newFixture()
		f.source.On("FetchBoard", ctx).Return(fetchedSnapshot(), nil)
		f.broadcaster.On("Broadcast", mock.Anything).Return(nil)
		_, err := f.svc.Refresh(ctx)
		require.NoError(t, err)

		b, err := f.svc.GetBoard(ctx, ports.GetBoardParams{Grouping: "bogus-mode", SortOption: domain.SortByPriority})

		require.NoError(t, err)
		require.Equal(t, 1, b.Groups.Len())
		assert.True(t, b.Groups.IsPassThrough())
		assert.Equal(t, []string{"CAM-2", "CAM-3", "CAM-1"}, ticketIDs(b.Groups.Flatten()))
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		f := newFixture()
		f.store.On("Get", mock.Anything, ports.DefaultScope, domain.PreferenceGrouping).Return("", false, errors.New("connection refused"))

		_, err := f.svc.GetBoard(ctx, ports.GetBoardParams{})

		assert.ErrorIs(t, err, apperrors.ErrPreferenceStore)
	})
}

func TestBoardService_UpdatePreferences(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update persists both keys", func(t *testing.T) {
		f := newFixture()
		f.storeEmpty("viewer-1")
		f.store.On("SetAll", ctx, "viewer-1", map[string]string{
			domain.PreferenceGrouping:   "user",
			domain.PreferenceSortOption: "priority",
		}).Return(nil)
		f.broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventPreferencesUpdated && e.Scope == "viewer-1"
		})).Return(nil)

		grouping := domain.GroupByUser
		prefs, err := f.svc.UpdatePreferences(ctx, ports.UpdatePreferencesParams{
			Scope:    "viewer-1",
			Grouping: &grouping,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.Preferences{Grouping: domain.GroupByUser, SortOption: domain.SortByPriority}, prefs)
		f.store.AssertExpectations(t)
		f.broadcaster.AssertExpectations(t)
	})

	t.Run("empty scope maps to default", func(t *testing.T) {
		f := newFixture()
		f.storeEmpty(ports.DefaultScope)
		f.store.On("SetAll", ctx, ports.DefaultScope, mock.Anything).Return(nil)
		f.broadcaster.On("Broadcast", mock.Anything).Return(nil)

		sortOption := domain.SortByTitle
		prefs, err := f.svc.UpdatePreferences(ctx, ports.UpdatePreferencesParams{SortOption: &sortOption})

		require.NoError(t, err)
		assert.Equal(t, domain.SortByTitle, prefs.SortOption)
		f.store.AssertExpectations(t)
	})

	t.Run("invalid modes are rejected", func(t *testing.T) {
		f := newFixture()

		grouping := domain.GroupMode("team")
		sortOption := domain.SortMode("created")
		_, err := f.svc.UpdatePreferences(ctx, ports.UpdatePreferencesParams{
			Grouping:   &grouping,
			SortOption: &sortOption,
		})

		var validationErr *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, domain.PreferenceGrouping)
		assert.Contains(t, validationErr.Errors, domain.PreferenceSortOption)
		f.store.AssertNotCalled(t, "SetAll", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("write failure surfaces", func(t *testing.T) {
		f := newFixture()
		f.storeEmpty(ports.DefaultScope)
		f.store.On("SetAll", ctx, ports.DefaultScope, mock.Anything).Return(errors.New("disk full"))

		grouping := domain.GroupByPriority
		_, err := f.svc.UpdatePreferences(ctx, ports.UpdatePreferencesParams{Grouping: &grouping})

		assert.ErrorIs(t, err, apperrors.ErrPreferenceStore)
		f.broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything)
	})
}

func TestBoardService_ConfiguredDefaults(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockPreferenceStore()
	store.On("Get", mock.Anything, ports.DefaultScope, mock.Anything).Return("", false, nil)

	svc := services.NewBoardService(mocks.NewMockTicketSource(), store, nil, services.BoardServiceConfig{
		Defaults: domain.Preferences{Grouping: domain.GroupByUser},
	}, discardLogger())

	prefs, err := svc.GetPreferences(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, domain.GroupByUser, prefs.Grouping)
	assert.Equal(t, domain.SortByPriority, prefs.SortOption)
}
