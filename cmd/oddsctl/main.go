package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/club-odds/internal/app"
	"github.com/riskibarqy/club-odds/internal/config"
	"github.com/riskibarqy/club-odds/internal/observability"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
	"github.com/riskibarqy/club-odds/internal/scheduler"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type cli struct {
	cfg    config.Config
	logger *logging.Logger
	app    *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "oddsctl",
		Short:         "Generate, inspect and lock club match odds",
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.close()
		},
	}

	root.AddCommand(
		c.regenerateCmd(),
		c.bulkCmd(),
		c.lockCmd(),
		c.lockKickedOffCmd(),
		c.showCmd(),
		c.historyCmd(),
		c.runCmd(),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	c.logger = logging.New(cfg.LogFormat, cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(c.logger)

	a, err := app.New(ctx, cfg, c.logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	c.app = a
	return nil
}

func (c *cli) close() error {
	var errs []error
	if c.app != nil {
		errs = append(errs, c.app.Close())
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	return errors.Join(errs...)
}

func (c *cli) runCmd() *cobra.Command {
	var skipFirstTick bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler and the ops HTTP server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			shutdownTracing, err := observability.InitUptrace(c.cfg, c.logger)
			if err != nil {
				return fmt.Errorf("init uptrace: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(shutdownCtx); err != nil {
					c.logger.Warn("uptrace shutdown failed", "error", err)
				}
			}()

			stopProfiler, err := observability.InitPyroscope(c.cfg, c.logger)
			if err != nil {
				return fmt.Errorf("init pyroscope: %w", err)
			}
			defer func() {
				if err := stopProfiler(); err != nil {
					c.logger.Warn("pyroscope stop failed", "error", err)
				}
			}()

			srv, err := c.app.NewOpsServer()
			if err != nil {
				return err
			}
			serverErr := make(chan error, 1)
			go func() {
				c.logger.Info("ops http server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()

			sched := scheduler.New(c.app.Odds, scheduler.Config{
				Interval:   c.cfg.SchedulerInterval,
				WindowDays: c.cfg.OddsBulkWindowDays,
			}, c.logger)
			if err := sched.Start(ctx, !skipFirstTick); err != nil {
				_ = srv.Close()
				return err
			}

			var runErr error
			select {
			case <-ctx.Done():
				c.logger.Info("shutdown signal received")
			case err, ok := <-serverErr:
				if ok {
					runErr = fmt.Errorf("ops http server: %w", err)
				}
			}

			sched.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				c.logger.Error("graceful shutdown failed", "error", err)
			}
			c.logger.Info("oddsctl stopped")
			return runErr
		},
	}
	cmd.Flags().BoolVar(&skipFirstTick, "skip-first-tick", false, "wait one interval before the first tick")
	return cmd
}
