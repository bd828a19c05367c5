package ports

import (
	"context"

	"github.com/lorrc/kanban-board/internal/core/domain"
)

// GetBoardParams defines the input for computing a board view. Empty modes
// fall back to the viewer's stored preferences.
type GetBoardParams struct {
	Scope      string
	Grouping   domain.GroupMode
	SortOption domain.SortMode
}

// UpdatePreferencesParams defines a partial preference update. Nil fields
// keep their current value.
type UpdatePreferencesParams struct {
	Scope      string
	Grouping   *domain.GroupMode
	SortOption *domain.SortMode
}

// BoardService defines the core operations behind the board.
type BoardService interface {
	Refresh(ctx context.Context) (*domain.Snapshot, error)
	Snapshot() *domain.Snapshot
	GetBoard(ctx context.Context, params GetBoardParams) (*domain.Board, error)
	GetPreferences(ctx context.Context, scope string) (domain.Preferences, error)
	UpdatePreferences(ctx context.Context, params UpdatePreferencesParams) (domain.Preferences, error)
}
