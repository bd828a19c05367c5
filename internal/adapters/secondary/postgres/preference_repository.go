package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/kanban-board/internal/core/ports"
)

// PreferenceRepository stores viewer display preferences in Postgres.
type PreferenceRepository struct {
	pool *pgxpool.Pool
	tm   *TransactionManager
}

var _ ports.PreferenceStore = (*PreferenceRepository)(nil)

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{
		pool: pool,
		tm:   NewTransactionManager(pool),
	}
}

// Get returns the value stored under scope and key.
func (r *PreferenceRepository) Get(ctx context.Context, scope, key string) (string, bool, error) {
	const query = `
SELECT value
FROM board_preferences
WHERE scope = $1 AND key = $2`

	var value string
	err := GetDBTX(ctx, r.pool).QueryRow(ctx, query, scope, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get preference %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// SetAll upserts every value in one transaction.
func (r *PreferenceRepository) SetAll(ctx context.Context, scope string, values map[string]string) error {
	const query = `
INSERT INTO board_preferences (scope, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (scope, key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	// Fixed key order keeps lock acquisition consistent across writers.
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		db := GetDBTX(ctx, r.pool)
		for _, key := range keys {
			if _, err := db.Exec(ctx, query, scope, key, values[key]); err != nil {
				return fmt.Errorf("set preference %s/%s: %w", scope, key, err)
			}
		}
		return nil
	})
}

// Ping checks database connectivity.
func (r *PreferenceRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
