package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/club-odds/internal/domain/match"
	"github.com/riskibarqy/club-odds/internal/domain/odds"
	basecache "github.com/riskibarqy/club-odds/internal/platform/cache"
)

// OddsRepository caches active odds per match. Every write through it drops
// the match's entry before the underlying write starts and again after it
// returns, successful or not.
type OddsRepository struct {
	next  odds.Repository
	cache *basecache.Store[[]odds.Row]
}

func NewOddsRepository(next odds.Repository, ttl time.Duration) *OddsRepository {
	return &OddsRepository{next: next, cache: basecache.NewStore[[]odds.Row](ttl)}
}

func (r *OddsRepository) ReplaceActive(ctx context.Context, matchID string, rows []odds.Row, entry odds.HistoryEntry, at time.Time) error {
	r.cache.Delete(ctx, activeKey(matchID))
	defer r.cache.Delete(ctx, activeKey(matchID))
	return r.next.ReplaceActive(ctx, matchID, rows, entry, at)
}

func (r *OddsRepository) ExpireActive(ctx context.Context, matchID string, entry odds.HistoryEntry, at time.Time) (int, error) {
	r.cache.Delete(ctx, activeKey(matchID))
	defer r.cache.Delete(ctx, activeKey(matchID))
	return r.next.ExpireActive(ctx, matchID, entry, at)
}

func (r *OddsRepository) ListActive(ctx context.Context, matchID string) ([]odds.Row, error) {
	items, err := r.cache.GetOrLoad(ctx, activeKey(matchID), func(ctx context.Context) ([]odds.Row, error) {
		items, err := r.next.ListActive(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return append([]odds.Row(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]odds.Row(nil), items...), nil
}

func (r *OddsRepository) ListHistory(ctx context.Context, matchID string, limit int) ([]odds.HistoryEntry, error) {
	return r.next.ListHistory(ctx, matchID, limit)
}

func activeKey(matchID string) string {
	return "odds:active:" + matchID
}

// MatchRepository caches single-match lookups. Listing queries depend on
// time windows and always hit the underlying repository.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store[cachedMatchByID]
}

func NewMatchRepository(next match.Repository, ttl time.Duration) *MatchRepository {
	return &MatchRepository{next: next, cache: basecache.NewStore[cachedMatchByID](ttl)}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, "match:id:"+matchID, func(ctx context.Context) (cachedMatchByID, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return cachedMatchByID{}, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ListCompletedByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	return r.next.ListCompletedByTeam(ctx, teamID, limit)
}

func (r *MatchRepository) ListCompletedBetween(ctx context.Context, teamA, teamB string, limit int) ([]match.Match, error) {
	return r.next.ListCompletedBetween(ctx, teamA, teamB, limit)
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	return r.next.ListUpcoming(ctx, from, to)
}

func (r *MatchRepository) ListKickedOff(ctx context.Context, since, until time.Time) ([]match.Match, error) {
	return r.next.ListKickedOff(ctx, since, until)
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}
