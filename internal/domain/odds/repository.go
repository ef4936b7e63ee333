package odds

import (
	"context"
	"time"
)

// Repository persists versioned odds rows. Implementations must run each
// write method as a single atomic unit per match.
type Repository interface {
	// ReplaceActive expires the match's active rows at `at`, inserts rows as
	// the new active version and appends entry to the history feed.
	ReplaceActive(ctx context.Context, matchID string, rows []Row, entry HistoryEntry, at time.Time) error
	// ExpireActive expires the active rows without replacement and returns how many were expired.
	ExpireActive(ctx context.Context, matchID string, entry HistoryEntry, at time.Time) (int, error)
	ListActive(ctx context.Context, matchID string) ([]Row, error)
	// ListHistory returns the newest limit entries first.
	ListHistory(ctx context.Context, matchID string, limit int) ([]HistoryEntry, error)
}
