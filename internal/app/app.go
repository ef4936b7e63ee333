package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/club-odds/external/oddsstream"
	"github.com/riskibarqy/club-odds/internal/config"
	"github.com/riskibarqy/club-odds/internal/domain/match"
	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/domain/wallet"
	cacherepo "github.com/riskibarqy/club-odds/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/club-odds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-odds/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/club-odds/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/club-odds/internal/platform/id"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
	"github.com/riskibarqy/club-odds/internal/platform/resilience"
	"github.com/riskibarqy/club-odds/internal/usecase"
)

// App holds the wired services for one process.
type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Stats   *usecase.StatsService
	Odds    *usecase.OddsService
	Wallets *usecase.WalletService

	closers []func() error
}

type repositories struct {
	matches match.Repository
	odds    odds.Repository
	wallets wallet.Repository
}

// New wires storage, the optional odds stream and the usecases. Without
// DB_URL it runs on in-memory repositories seeded with demo fixtures.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	repos, err := a.buildRepositories(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	publisher, err := a.buildPublisher(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var statsCaches usecase.StatsCaches
	if cfg.CacheEnabled {
		statsCaches = usecase.NewStatsCaches(cfg.CacheTTL)
	}
	a.Stats = usecase.NewStatsService(repos.matches, statsCaches, usecase.StatsServiceConfig{}, logger)

	a.Odds = usecase.NewOddsService(
		repos.matches,
		repos.odds,
		a.Stats,
		odds.NewGenerator(odds.DefaultGeneratorConfig()),
		odds.NewValidator(odds.DefaultValidatorConfig()),
		publisher,
		usecase.OddsServiceConfig{
			DefaultMargin:  cfg.OddsDefaultMargin,
			SampleSize:     cfg.OddsSampleSize,
			GoalLine:       cfg.OddsGoalLine,
			BulkWindowDays: cfg.OddsBulkWindowDays,
			BulkDelay:      cfg.OddsBulkDelay,
			LockLookback:   cfg.OddsLockLookback,
		},
		logger,
	)

	a.Wallets = usecase.NewWalletService(repos.wallets, idgen.NewUUIDGenerator(), logger)
	return a, nil
}

func (a *App) buildRepositories(ctx context.Context) (repositories, error) {
	var repos repositories

	if a.Config.UsePostgres() {
		db, err := openDB(ctx, a.Config)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, db.Close)

		repos = repositories{
			matches: postgres.NewMatchRepository(db),
			odds:    postgres.NewOddsRepository(db),
			wallets: postgres.NewWalletRepository(db),
		}
		a.Logger.Info("storage ready", "driver", "postgres", "database", dbNameFromURL(a.Config.DBURL))
	} else {
		repos = repositories{
			matches: memory.NewMatchRepository(memory.SeedMatches(time.Now())),
			odds:    memory.NewOddsRepository(),
			wallets: memory.NewWalletRepository(),
		}
		a.Logger.Warn("storage ready", "driver", "memory", "reason", "DB_URL empty")
	}

	if a.Config.CacheEnabled {
		repos.matches = cacherepo.NewMatchRepository(repos.matches, a.Config.CacheTTL)
		repos.odds = cacherepo.NewOddsRepository(repos.odds, a.Config.CacheTTL)
	}
	return repos, nil
}

func (a *App) buildPublisher(ctx context.Context) (usecase.OddsPublisher, error) {
	if !a.Config.RedisEnabled {
		a.Logger.Info("odds stream disabled", "reason", "REDIS_ENABLED=false")
		return usecase.NewNoopOddsPublisher(), nil
	}

	opts, err := redis.ParseURL(a.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	a.closers = append(a.closers, client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// The publisher is best-effort; a cold redis only costs events.
		a.Logger.Warn("odds stream redis ping failed", "error", err)
	}

	a.Logger.Info("odds stream enabled", "stream", a.Config.RedisStream)
	return oddsstream.NewRedisPublisher(client, oddsstream.RedisPublisherConfig{
		Stream: a.Config.RedisStream,
		MaxLen: a.Config.RedisStreamMaxLen,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          a.Config.RedisCircuitEnabled,
			FailureThreshold: a.Config.RedisCircuitFailures,
			OpenTimeout:      a.Config.RedisCircuitOpenTimeout,
		},
	}, a.Logger.Named("oddsstream")), nil
}

// NewOpsServer builds the HTTP server exposing health, odds and wallet
// endpoints for operators.
func (a *App) NewOpsServer() (*http.Server, error) {
	if a.Config.OpsHTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Odds, a.Wallets, a.Logger.Named("http"))
	return &http.Server{
		Addr:              a.Config.OpsHTTPAddr,
		Handler:           httpapi.NewRouter(handler, a.Logger.Named("http"), a.Config.PprofEnabled),
		ReadTimeout:       a.Config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.WriteTimeout,
	}, nil
}

// Close releases storage and stream connections in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
