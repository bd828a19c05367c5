package ports

import (
	"context"

	"github.com/lorrc/kanban-board/internal/core/domain"
)

// DefaultScope is the preference scope shared by anonymous viewers.
const DefaultScope = "default"

// TicketSource fetches the ticket and user collections from upstream.
// The returned snapshot has no version; the caller assigns one on install.
type TicketSource interface {
	FetchBoard(ctx context.Context) (*domain.Snapshot, error)
}

// PreferenceStore is a string-keyed value store partitioned by viewer scope.
type PreferenceStore interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, scope, key string) (string, bool, error)
	// SetAll writes every key in values for scope as one unit.
	SetAll(ctx context.Context, scope string, values map[string]string) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// EventBroadcaster pushes real-time board events to connected viewers.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
