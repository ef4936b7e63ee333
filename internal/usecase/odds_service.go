package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/club-odds/internal/domain/match"
	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/domain/teamstats"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

const (
	defaultHistoryLimit   = 20
	maxHistoryLimit       = 200
	defaultBulkWindowDays = 7
	defaultLockLookback   = 6 * time.Hour
)

// OddsPublisher broadcasts odds changes to downstream consumers.
type OddsPublisher interface {
	Publish(ctx context.Context, event odds.ChangeEvent) error
}

type noopOddsPublisher struct{}

func (noopOddsPublisher) Publish(context.Context, odds.ChangeEvent) error {
	return nil
}

func NewNoopOddsPublisher() OddsPublisher {
	return noopOddsPublisher{}
}

type OddsServiceConfig struct {
	DefaultMargin  float64
	SampleSize     int
	GoalLine       float64
	BulkWindowDays int
	// BulkDelay throttles bulk regeneration between matches.
	BulkDelay    time.Duration
	LockLookback time.Duration
}

type RegenerateInput struct {
	MatchID string `validate:"required"`
	// HomeTeamID and AwayTeamID are resolved from the match when both are empty.
	HomeTeamID string
	AwayTeamID string
	// Margin overrides the configured default when set.
	Margin *float64 `validate:"omitempty,gte=0,lte=0.5"`
}

// OddsService generates, validates and versions match odds.
type OddsService struct {
	matchRepo match.Repository
	oddsRepo  odds.Repository
	stats     *StatsService
	generator *odds.Generator
	validator *odds.Validator
	publisher OddsPublisher
	validate  *validator.Validate
	cfg       OddsServiceConfig
	logger    *logging.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewOddsService(
	matchRepo match.Repository,
	oddsRepo odds.Repository,
	stats *StatsService,
	generator *odds.Generator,
	oddsValidator *odds.Validator,
	publisher OddsPublisher,
	cfg OddsServiceConfig,
	logger *logging.Logger,
) *OddsService {
	if publisher == nil {
		publisher = NewNoopOddsPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if generator == nil {
		generator = odds.NewGenerator(odds.DefaultGeneratorConfig())
	}
	if oddsValidator == nil {
		oddsValidator = odds.NewValidator(odds.DefaultValidatorConfig())
	}
	if cfg.DefaultMargin <= 0 {
		cfg.DefaultMargin = odds.DefaultMargin
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = teamstats.DefaultSampleSize
	}
	if cfg.BulkWindowDays <= 0 {
		cfg.BulkWindowDays = defaultBulkWindowDays
	}
	if cfg.LockLookback <= 0 {
		cfg.LockLookback = defaultLockLookback
	}

	return &OddsService{
		matchRepo: matchRepo,
		oddsRepo:  oddsRepo,
		stats:     stats,
		generator: generator,
		validator: oddsValidator,
		publisher: publisher,
		validate:  validator.New(),
		cfg:       cfg,
		logger:    logger.Named("odds_service"),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Save validates o and, when valid, makes it the single active version for
// its match. Expiry of the previous version and the new effective_from share
// one timestamp, so no instant has zero or two active versions.
func (s *OddsService) Save(ctx context.Context, o odds.MatchOdds, source odds.Source, margin float64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.Save", matchAttr(o.MatchID))
	defer span.End()

	matchID := strings.TrimSpace(o.MatchID)
	switch {
	case matchID == "":
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	case !source.Valid():
		return fmt.Errorf("%w: unknown odds source %q", ErrInvalidInput, source)
	case margin < 0 || margin > 0.5:
		return fmt.Errorf("%w: margin %v outside [0, 0.5]", ErrInvalidInput, margin)
	}
	o.MatchID = matchID
	o.Margin = margin

	if res := s.validator.Validate(o); !res.Valid {
		s.logger.WarnContext(ctx, "refusing to save invalid odds",
			"match_id", matchID,
			"source", source,
			"violations", res.Violations,
		)
		return fmt.Errorf("%w: %w", ErrInvalidInput, res.Err(matchID))
	}

	at := s.now().UTC()
	snapshot := o.Snapshot()
	entry := odds.HistoryEntry{
		MatchID:   matchID,
		Action:    odds.ActionGenerated,
		Source:    source,
		Margin:    margin,
		Odds:      snapshot,
		CreatedAt: at,
	}
	if err := s.oddsRepo.ReplaceActive(ctx, matchID, o.Rows(source, at), entry, at); err != nil {
		s.logger.ErrorContext(ctx, "replace active odds failed", "match_id", matchID, "error", err)
		return fmt.Errorf("%w: replace active odds match=%s: %w", ErrDependencyUnavailable, matchID, err)
	}

	s.publish(ctx, odds.ChangeEvent{
		MatchID: matchID,
		Action:  odds.ActionGenerated,
		Source:  source,
		Odds:    snapshot,
		At:      at,
	})
	s.logger.InfoContext(ctx, "odds saved", "match_id", matchID, "source", source, "margin", margin)
	return nil
}

// GetActive returns the active odds of a match, false when none are active.
func (s *OddsService) GetActive(ctx context.Context, matchID string) (odds.MatchOdds, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.GetActive", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return odds.MatchOdds{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	rows, err := s.oddsRepo.ListActive(ctx, matchID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list active odds failed", "match_id", matchID, "error", err)
		return odds.MatchOdds{}, false, fmt.Errorf("%w: list active odds match=%s: %w", ErrDependencyUnavailable, matchID, err)
	}

	o, ok := odds.FromRows(matchID, rows)
	return o, ok, nil
}

// Lock expires every active row of the match without replacement and
// returns how many rows were expired. Locking twice is a no-op.
func (s *OddsService) Lock(ctx context.Context, matchID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.Lock", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return 0, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	at := s.now().UTC()
	expired, err := s.oddsRepo.ExpireActive(ctx, matchID, odds.HistoryEntry{
		MatchID:   matchID,
		Action:    odds.ActionLocked,
		CreatedAt: at,
	}, at)
	if err != nil {
		s.logger.ErrorContext(ctx, "lock odds failed", "match_id", matchID, "error", err)
		return 0, fmt.Errorf("%w: expire active odds match=%s: %w", ErrDependencyUnavailable, matchID, err)
	}
	if expired == 0 {
		return 0, nil
	}

	s.publish(ctx, odds.ChangeEvent{MatchID: matchID, Action: odds.ActionLocked, At: at})
	s.logger.InfoContext(ctx, "odds locked", "match_id", matchID, "expired_rows", expired)
	return expired, nil
}

// History returns the newest audit entries of a match. limit <= 0 means 20.
func (s *OddsService) History(ctx context.Context, matchID string, limit int) ([]odds.HistoryEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.History", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	entries, err := s.oddsRepo.ListHistory(ctx, matchID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "list odds history failed", "match_id", matchID, "error", err)
		return nil, fmt.Errorf("%w: list odds history match=%s: %w", ErrDependencyUnavailable, matchID, err)
	}
	return entries, nil
}

// Regenerate prices a match from fresh statistics and saves the result as
// CALCULATED. Missing or unreadable statistics fall back to league defaults.
func (s *OddsService) Regenerate(ctx context.Context, input RegenerateInput) (odds.MatchOdds, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.Regenerate", matchAttr(input.MatchID))
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	if err := s.validate.Struct(input); err != nil {
		return odds.MatchOdds{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if input.HomeTeamID == "" && input.AwayTeamID == "" {
		m, err := s.resolveMatch(ctx, input.MatchID)
		if err != nil {
			return odds.MatchOdds{}, err
		}
		input.HomeTeamID, input.AwayTeamID = m.HomeTeamID, m.AwayTeamID
	}

	margin := s.cfg.DefaultMargin
	if input.Margin != nil {
		margin = *input.Margin
	}

	genInput := odds.GenerateInput{
		MatchID:    input.MatchID,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Margin:     margin,
		GoalLine:   s.cfg.GoalLine,
	}
	if s.stats != nil {
		genInput.Home = s.teamStatistics(ctx, input.HomeTeamID)
		genInput.Away = s.teamStatistics(ctx, input.AwayTeamID)
		if h2h, err := s.stats.HeadToHead(ctx, input.HomeTeamID, input.AwayTeamID, s.cfg.SampleSize); err == nil {
			genInput.HeadToHead = &h2h
		}
	}

	generated, err := s.generator.Generate(genInput)
	if err != nil {
		s.logger.WarnContext(ctx, "generate odds failed", "match_id", input.MatchID, "error", err)
		return odds.MatchOdds{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.Save(ctx, generated, odds.SourceCalculated, margin); err != nil {
		return odds.MatchOdds{}, err
	}
	return generated, nil
}

// BulkRegenerateUpcoming regenerates every upcoming match kicking off within
// withinDays, one at a time with the configured delay in between. A failing
// or panicking match is logged and skipped. It returns the number of
// matches regenerated.
func (s *OddsService) BulkRegenerateUpcoming(ctx context.Context, withinDays int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.BulkRegenerateUpcoming")
	defer span.End()

	if withinDays <= 0 {
		withinDays = s.cfg.BulkWindowDays
	}

	now := s.now().UTC()
	upcoming, err := s.matchRepo.ListUpcoming(ctx, now, now.AddDate(0, 0, withinDays))
	if err != nil {
		s.logger.ErrorContext(ctx, "list upcoming matches failed", "error", err)
		return 0, fmt.Errorf("%w: list upcoming matches: %w", ErrDependencyUnavailable, err)
	}
	if len(upcoming) == 0 {
		return 0, nil
	}

	if s.stats != nil {
		teamIDs := make([]string, 0, len(upcoming)*2)
		for _, m := range upcoming {
			teamIDs = append(teamIDs, m.HomeTeamID, m.AwayTeamID)
		}
		s.stats.Warm(ctx, teamIDs, s.cfg.SampleSize)
	}

	regenerated := 0
	for i, m := range upcoming {
		if i > 0 && s.cfg.BulkDelay > 0 {
			if err := s.sleep(ctx, s.cfg.BulkDelay); err != nil {
				return regenerated, err
			}
		}
		if err := ctx.Err(); err != nil {
			return regenerated, err
		}

		if err := s.regenerateIsolated(ctx, m); err != nil {
			s.logger.WarnContext(ctx, "bulk regenerate skipped match", "match_id", m.ID, "error", err)
			continue
		}
		regenerated++
	}

	s.logger.InfoContext(ctx, "bulk regeneration finished",
		"window_days", withinDays,
		"matches", len(upcoming),
		"regenerated", regenerated,
	)
	return regenerated, nil
}

// LockKickedOff locks the odds of every match that kicked off within the
// lookback window and returns how many matches had active odds to lock.
func (s *OddsService) LockKickedOff(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.LockKickedOff")
	defer span.End()

	now := s.now().UTC()
	started, err := s.matchRepo.ListKickedOff(ctx, now.Add(-s.cfg.LockLookback), now)
	if err != nil {
		s.logger.ErrorContext(ctx, "list kicked off matches failed", "error", err)
		return 0, fmt.Errorf("%w: list kicked off matches: %w", ErrDependencyUnavailable, err)
	}

	locked := 0
	for _, m := range started {
		if err := ctx.Err(); err != nil {
			return locked, err
		}
		expired, err := s.Lock(ctx, m.ID)
		if err != nil {
			continue
		}
		if expired > 0 {
			locked++
		}
	}
	return locked, nil
}

func (s *OddsService) regenerateIsolated(ctx context.Context, m match.Match) (err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		_, err = s.Regenerate(ctx, RegenerateInput{
			MatchID:    m.ID,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
		})
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return recovered.AsError()
	}
	return err
}

func (s *OddsService) resolveMatch(ctx context.Context, matchID string) (match.Match, error) {
	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: get match=%s: %w", ErrDependencyUnavailable, matchID, err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return m, nil
}

// teamStatistics returns nil when the team has no usable history or the
// store failed; the generator then uses its defaults.
func (s *OddsService) teamStatistics(ctx context.Context, teamID string) *teamstats.Statistics {
	stats, ok, err := s.stats.TeamStatistics(ctx, teamID, s.cfg.SampleSize)
	if err != nil || !ok {
		return nil
	}
	return &stats
}

func (s *OddsService) publish(ctx context.Context, event odds.ChangeEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish odds change failed", "match_id", event.MatchID, "action", event.Action, "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
