package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/kanban-board/internal/core/board"
	"github.com/lorrc/kanban-board/internal/core/domain"
	apperrors "github.com/lorrc/kanban-board/internal/core/errors"
	"github.com/lorrc/kanban-board/internal/core/ports"
)

// BoardService implements the board use cases: holding the fetched
// snapshot, resolving a viewer's display modes, and computing views.
type BoardService struct {
	source      ports.TicketSource
	prefs       ports.PreferenceStore
	broadcaster ports.EventBroadcaster
	views       *board.ViewCache
	defaults    domain.Preferences
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.RWMutex
	snapshot *domain.Snapshot
}

var _ ports.BoardService = (*BoardService)(nil)

// BoardServiceConfig holds the tunables for a BoardService.
type BoardServiceConfig struct {
	Defaults  domain.Preferences
	CacheSize int
}

// NewBoardService creates a board service with an empty snapshot.
func NewBoardService(
	source ports.TicketSource,
	prefs ports.PreferenceStore,
	broadcaster ports.EventBroadcaster,
	cfg BoardServiceConfig,
	logger *slog.Logger,
) *BoardService {
	defaults := cfg.Defaults
	if defaults.Grouping == "" {
		defaults.Grouping = domain.DefaultPreferences().Grouping
	}
	if defaults.SortOption == "" {
		defaults.SortOption = domain.DefaultPreferences().SortOption
	}

	return &BoardService{
		source:      source,
		prefs:       prefs,
		broadcaster: broadcaster,
		views:       board.NewViewCache(cfg.CacheSize),
		defaults:    defaults,
		logger:      logger.With("component", "board_service"),
		now:         time.Now,
		snapshot:    &domain.Snapshot{},
	}
}

// Refresh fetches a new snapshot and installs it. On failure the previous
// snapshot stays in place.
func (s *BoardService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	fetched, err := s.source.FetchBoard(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch board", "error", err)
		return nil, fmt.Errorf("refresh board: %w", err)
	}

	s.mu.Lock()
	next := &domain.Snapshot{
		Version:   s.snapshot.Version + 1,
		Tickets:   fetched.Tickets,
		Users:     fetched.Users,
		FetchedAt: fetched.FetchedAt,
	}
	if next.FetchedAt.IsZero() {
		next.FetchedAt = s.now().UTC()
	}
	s.snapshot = next
	s.mu.Unlock()

	// Views of older versions are never asked for again.
	s.views.Purge()

	s.logger.InfoContext(ctx, "board snapshot installed",
		"version", next.Version,
		"tickets", len(next.Tickets),
		"users", len(next.Users),
	)

	s.broadcast(domain.Event{
		Type: domain.EventBoardRefreshed,
		Payload: domain.BoardRefreshedPayload{
			Version:     next.Version,
			TicketCount: len(next.Tickets),
			UserCount:   len(next.Users),
		},
	})

	return next, nil
}

// Snapshot returns the installed snapshot. It is empty with version 0
// until the first successful fetch.
func (s *BoardService) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// ViewCacheStats reports the view cache's hit and miss counts and its
// current size.
func (s *BoardService) ViewCacheStats() (hits, misses uint64, entries int) {
	hits, misses = s.views.Stats()
	return hits, misses, s.views.Len()
}

// GetBoard computes the board for a viewer. Explicit modes win over stored
// preferences, which win over defaults. Explicit modes are passed to the
// engine as given, so an unknown mode yields the pass-through view.
func (s *BoardService) GetBoard(ctx context.Context, params ports.GetBoardParams) (*domain.Board, error) {
	grouping, sortOption := params.Grouping, params.SortOption

	if grouping == "" || sortOption == "" {
		prefs, err := s.GetPreferences(ctx, params.Scope)
		if err != nil {
			return nil, err
		}
		if grouping == "" {
			grouping = prefs.Grouping
		}
		if sortOption == "" {
			sortOption = prefs.SortOption
		}
	}

	snapshot := s.Snapshot()

	return &domain.Board{
		Version:    snapshot.Version,
		Grouping:   grouping,
		SortOption: sortOption,
		Groups:     s.views.View(snapshot, grouping, sortOption),
		Users:      snapshot.Users,
		FetchedAt:  snapshot.FetchedAt,
	}, nil
}

// GetPreferences returns the viewer's stored modes, filling absent keys
// from the defaults.
func (s *BoardService) GetPreferences(ctx context.Context, scope string) (domain.Preferences, error) {
	scope = normalizeScope(scope)
	prefs := s.defaults

	grouping, ok, err := s.prefs.Get(ctx, scope, domain.PreferenceGrouping)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("%w: read %s: %v", apperrors.ErrPreferenceStore, domain.PreferenceGrouping, err)
	}
	if ok && grouping != "" {
		prefs.Grouping = domain.GroupMode(grouping)
	}

	sortOption, ok, err := s.prefs.Get(ctx, scope, domain.PreferenceSortOption)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("%w: read %s: %v", apperrors.ErrPreferenceStore, domain.PreferenceSortOption, err)
	}
	if ok && sortOption != "" {
		prefs.SortOption = domain.SortMode(sortOption)
	}

	return prefs, nil
}

// UpdatePreferences applies a partial update and persists both keys.
func (s *BoardService) UpdatePreferences(ctx context.Context, params ports.UpdatePreferencesParams) (domain.Preferences, error) {
	errs := apperrors.NewValidationErrors()
	if params.Grouping != nil && !params.Grouping.IsValid() {
		errs.Add(domain.PreferenceGrouping, apperrors.ErrInvalidGrouping.Error())
	}
	if params.SortOption != nil && !params.SortOption.IsValid() {
		errs.Add(domain.PreferenceSortOption, apperrors.ErrInvalidSort.Error())
	}
	if errs.HasErrors() {
		return domain.Preferences{}, errs
	}

	scope := normalizeScope(params.Scope)

	prefs, err := s.GetPreferences(ctx, scope)
	if err != nil {
		return domain.Preferences{}, err
	}
	if params.Grouping != nil {
		prefs.Grouping = *params.Grouping
	}
	if params.SortOption != nil {
		prefs.SortOption = *params.SortOption
	}

	if err := s.prefs.SetAll(ctx, scope, prefs.Values()); err != nil {
		return domain.Preferences{}, fmt.Errorf("%w: write: %v", apperrors.ErrPreferenceStore, err)
	}

	s.broadcast(domain.Event{
		Type:  domain.EventPreferencesUpdated,
		Scope: scope,
		Payload: domain.PreferencesUpdatedPayload{
			Grouping:   string(prefs.Grouping),
			SortOption: string(prefs.SortOption),
		},
	})

	return prefs, nil
}

func (s *BoardService) broadcast(event domain.Event) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.Warn("failed to broadcast board event",
			"event_type", event.Type,
			"error", err,
		)
	}
}

func normalizeScope(scope string) string {
	if scope == "" {
		return ports.DefaultScope
	}
	return scope
}
