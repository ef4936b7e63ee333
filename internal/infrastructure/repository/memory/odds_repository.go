package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
)

// OddsRepository keeps every odds version in memory. One mutex serialises
// writes so expire+insert is atomic per call.
type OddsRepository struct {
	mu      sync.RWMutex
	rows    map[string][]odds.Row
	history map[string][]odds.HistoryEntry
	nextID  int64
}

func NewOddsRepository() *OddsRepository {
	return &OddsRepository{
		rows:    make(map[string][]odds.Row),
		history: make(map[string][]odds.HistoryEntry),
	}
}

func (r *OddsRepository) ReplaceActive(_ context.Context, matchID string, rows []odds.Row, entry odds.HistoryEntry, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expireLocked(matchID, at)
	for _, row := range rows {
		r.nextID++
		row.ID = r.nextID
		row.MatchID = matchID
		row.EffectiveFrom = at
		row.EffectiveUntil = nil
		r.rows[matchID] = append(r.rows[matchID], row)
	}
	r.appendHistoryLocked(matchID, entry)
	return nil
}

func (r *OddsRepository) ExpireActive(_ context.Context, matchID string, entry odds.HistoryEntry, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expired := r.expireLocked(matchID, at)
	if expired > 0 {
		r.appendHistoryLocked(matchID, entry)
	}
	return expired, nil
}

func (r *OddsRepository) ListActive(_ context.Context, matchID string) ([]odds.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]odds.Row, 0, 10)
	for _, row := range r.rows[matchID] {
		if row.IsActive() {
			out = append(out, row)
		}
	}
	return out, nil
}

// ListAll returns every version of a match's rows, oldest first.
func (r *OddsRepository) ListAll(_ context.Context, matchID string) ([]odds.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]odds.Row(nil), r.rows[matchID]...), nil
}

func (r *OddsRepository) ListHistory(_ context.Context, matchID string, limit int) ([]odds.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.history[matchID]
	out := make([]odds.HistoryEntry, 0, min(len(items), max(limit, 0)))
	for i := len(items) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, items[i])
	}
	return out, nil
}

func (r *OddsRepository) expireLocked(matchID string, at time.Time) int {
	rows := r.rows[matchID]
	expired := 0
	for i := range rows {
		if rows[i].IsActive() {
			until := at
			rows[i].EffectiveUntil = &until
			expired++
		}
	}
	return expired
}

func (r *OddsRepository) appendHistoryLocked(matchID string, entry odds.HistoryEntry) {
	r.nextID++
	entry.ID = r.nextID
	entry.MatchID = matchID
	entry.Odds = maps.Clone(entry.Odds)
	r.history[matchID] = append(r.history[matchID], entry)
}
