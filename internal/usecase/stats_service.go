package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/club-odds/internal/domain/match"
	"github.com/riskibarqy/club-odds/internal/domain/teamstats"
	"github.com/riskibarqy/club-odds/internal/platform/cache"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

type StatsServiceConfig struct {
	// WarmWorkers bounds concurrent cache warm-up reads.
	WarmWorkers int
}

// TeamStatsEntry is the cached outcome of one team aggregation; OK is false
// when the team had no usable history.
type TeamStatsEntry struct {
	Stats teamstats.Statistics
	OK    bool
}

// StatsCaches are the TTL stores StatsService reads through. A nil store
// disables caching for that lookup.
type StatsCaches struct {
	Statistics *cache.Store[TeamStatsEntry]
	HeadToHead *cache.Store[teamstats.HeadToHead]
}

// NewStatsCaches builds both stores with the same TTL.
func NewStatsCaches(ttl time.Duration) StatsCaches {
	return StatsCaches{
		Statistics: cache.NewStore[TeamStatsEntry](ttl),
		HeadToHead: cache.NewStore[teamstats.HeadToHead](ttl),
	}
}

// StatsService folds a team's completed matches into form statistics.
type StatsService struct {
	matchRepo   match.Repository
	statsCache  *cache.Store[TeamStatsEntry]
	h2hCache    *cache.Store[teamstats.HeadToHead]
	warmWorkers int
	logger      *logging.Logger
}

func NewStatsService(matchRepo match.Repository, caches StatsCaches, cfg StatsServiceConfig, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.WarmWorkers <= 0 {
		cfg.WarmWorkers = 4
	}

	return &StatsService{
		matchRepo:   matchRepo,
		statsCache:  caches.Statistics,
		h2hCache:    caches.HeadToHead,
		warmWorkers: cfg.WarmWorkers,
		logger:      logger.Named("stats_service"),
	}
}

// TeamStatistics aggregates up to sampleSize recent completed matches.
// It returns false when the team has no usable history.
func (s *StatsService) TeamStatistics(ctx context.Context, teamID string, sampleSize int) (teamstats.Statistics, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TeamStatistics")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return teamstats.Statistics{}, false, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if sampleSize <= 0 {
		sampleSize = teamstats.DefaultSampleSize
	}

	load := func(ctx context.Context) (TeamStatsEntry, error) {
		matches, err := s.matchRepo.ListCompletedByTeam(ctx, teamID, sampleSize)
		if err != nil {
			return TeamStatsEntry{}, err
		}
		stats, ok := teamstats.Build(teamID, matches)
		return TeamStatsEntry{Stats: stats, OK: ok}, nil
	}

	var (
		res TeamStatsEntry
		err error
	)
	if s.statsCache != nil {
		res, err = s.statsCache.GetOrLoad(ctx, "stats:"+teamID+":"+strconv.Itoa(sampleSize), load)
	} else {
		res, err = load(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "fetch team matches failed", "team_id", teamID, "error", err)
		return teamstats.Statistics{}, false, fmt.Errorf("%w: list completed matches team=%s: %v", ErrDependencyUnavailable, teamID, err)
	}

	return res.Stats, res.OK, nil
}

// HeadToHead aggregates the most recent completed meetings of the two teams.
func (s *StatsService) HeadToHead(ctx context.Context, homeTeamID, awayTeamID string, limit int) (teamstats.HeadToHead, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.HeadToHead")
	defer span.End()

	homeTeamID = strings.TrimSpace(homeTeamID)
	awayTeamID = strings.TrimSpace(awayTeamID)
	if homeTeamID == "" || awayTeamID == "" {
		return teamstats.HeadToHead{}, fmt.Errorf("%w: both team ids are required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = teamstats.DefaultSampleSize
	}

	load := func(ctx context.Context) (teamstats.HeadToHead, error) {
		matches, err := s.matchRepo.ListCompletedBetween(ctx, homeTeamID, awayTeamID, limit)
		if err != nil {
			return teamstats.HeadToHead{}, err
		}
		return teamstats.BuildHeadToHead(homeTeamID, awayTeamID, matches), nil
	}

	var (
		h2h teamstats.HeadToHead
		err error
	)
	if s.h2hCache != nil {
		h2h, err = s.h2hCache.GetOrLoad(ctx, "h2h:"+homeTeamID+":"+awayTeamID+":"+strconv.Itoa(limit), load)
	} else {
		h2h, err = load(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "fetch head to head failed", "home_team_id", homeTeamID, "away_team_id", awayTeamID, "error", err)
		return teamstats.HeadToHead{}, fmt.Errorf("%w: list head to head: %v", ErrDependencyUnavailable, err)
	}
	return h2h, nil
}

// Warm loads statistics for many teams concurrently into the cache and
// returns how many teams were submitted. It is a no-op without a cache;
// individual failures are logged by TeamStatistics and skipped.
func (s *StatsService) Warm(ctx context.Context, teamIDs []string, sampleSize int) int {
	if s.statsCache == nil || len(teamIDs) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(s.warmWorkers, func(arg any) {
		defer wg.Done()
		_, _, _ = s.TeamStatistics(ctx, arg.(string), sampleSize)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "create warm pool failed", "error", err)
		return 0
	}
	defer pool.Release()

	seen := make(map[string]struct{}, len(teamIDs))
	submitted := 0
	for _, teamID := range teamIDs {
		if ctx.Err() != nil {
			break
		}
		if _, ok := seen[teamID]; ok || teamID == "" {
			continue
		}
		seen[teamID] = struct{}{}

		wg.Add(1)
		if err := pool.Invoke(teamID); err != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "submit warm task failed", "team_id", teamID, "error", err)
			continue
		}
		submitted++
	}
	wg.Wait()

	return submitted
}

// Invalidate drops cached statistics, e.g. after new results were recorded.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.statsCache != nil {
		s.statsCache.DeletePrefix(ctx, "stats:")
	}
	if s.h2hCache != nil {
		s.h2hCache.DeletePrefix(ctx, "h2h:")
	}
}
