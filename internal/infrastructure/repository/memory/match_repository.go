package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/riskibarqy/club-odds/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{matches: make(map[string]match.Match, len(matches))}
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	return r
}

// Upsert stores m, replacing any match with the same id.
func (r *MatchRepository) Upsert(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.Status = match.NormalizeStatus(m.Status)
	r.matches[m.ID] = m
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	return m, ok, nil
}

func (r *MatchRepository) ListCompletedByTeam(_ context.Context, teamID string, limit int) ([]match.Match, error) {
	return r.listRecent(limit, func(m match.Match) bool {
		return match.IsCompletedStatus(m.Status) && m.Involves(teamID)
	}), nil
}

func (r *MatchRepository) ListCompletedBetween(_ context.Context, teamA, teamB string, limit int) ([]match.Match, error) {
	return r.listRecent(limit, func(m match.Match) bool {
		return match.IsCompletedStatus(m.Status) && m.Involves(teamA) && m.Involves(teamB)
	}), nil
}

func (r *MatchRepository) ListUpcoming(_ context.Context, from, to time.Time) ([]match.Match, error) {
	return r.listByKickoff(from, to, match.StatusUpcoming), nil
}

func (r *MatchRepository) ListKickedOff(_ context.Context, since, until time.Time) ([]match.Match, error) {
	return r.listByKickoff(since, until, match.StatusUpcoming, match.StatusLive), nil
}

func (r *MatchRepository) listRecent(limit int, keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	out := make([]match.Match, 0)
	for _, m := range r.matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b match.Match) int {
		if c := b.KickoffAt.Compare(a.KickoffAt); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// listByKickoff returns matches with kickoff in [from, to], earliest first.
func (r *MatchRepository) listByKickoff(from, to time.Time, statuses ...string) []match.Match {
	r.mu.RLock()
	out := make([]match.Match, 0)
	for _, m := range r.matches {
		if !slices.Contains(statuses, match.NormalizeStatus(m.Status)) {
			continue
		}
		if m.KickoffAt.Before(from) || m.KickoffAt.After(to) {
			continue
		}
		out = append(out, m)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b match.Match) int {
		if c := a.KickoffAt.Compare(b.KickoffAt); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})
	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
