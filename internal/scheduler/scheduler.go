package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

// OddsJobs is the slice of the odds service the scheduler drives.
type OddsJobs interface {
	LockKickedOff(ctx context.Context) (int, error)
	BulkRegenerateUpcoming(ctx context.Context, withinDays int) (int, error)
}

type Config struct {
	Interval   time.Duration
	WindowDays int
	// JobTimeout bounds one tick; defaults to the interval.
	JobTimeout time.Duration
}

// Scheduler locks kicked-off matches and then reprices upcoming ones on a
// fixed interval. Overlapping ticks are skipped.
type Scheduler struct {
	cron    *cron.Cron
	jobs    OddsJobs
	cfg     Config
	logger  *logging.Logger
	mu      sync.Mutex
	running bool
	entryID cron.EntryID
}

func New(jobs OddsJobs, cfg Config, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = cfg.Interval
	}

	cronLogger := cronLogAdapter{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		jobs:   jobs,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the tick and starts the cron loop. When runNow is set the
// first tick runs synchronously before the loop starts.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if s.cfg.Interval < time.Second {
		return fmt.Errorf("scheduler interval must be at least 1s, got %s", s.cfg.Interval)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.cfg.Interval), func() { s.Tick(ctx) })
	if err != nil {
		return fmt.Errorf("add odds tick: %w", err)
	}
	s.entryID = entryID

	if runNow {
		s.Tick(ctx)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "interval", s.cfg.Interval.String(), "window_days", s.cfg.WindowDays)
	return nil
}

// Stop waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.running = false
	s.logger.Info("scheduler stopped")
}

// NextRun reports when the next tick fires; zero when stopped.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Tick runs one lock pass followed by one bulk regeneration pass.
func (s *Scheduler) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	started := time.Now()
	locked, err := s.jobs.LockKickedOff(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "lock kicked-off odds failed", "error", err)
	}

	generated, err := s.jobs.BulkRegenerateUpcoming(ctx, s.cfg.WindowDays)
	if err != nil {
		s.logger.ErrorContext(ctx, "bulk regenerate failed", "error", err)
	}

	s.logger.InfoContext(ctx, "odds tick finished",
		"locked_matches", locked,
		"generated_matches", generated,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
