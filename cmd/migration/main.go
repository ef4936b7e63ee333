package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/club-odds/db"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type migrator struct {
	logger *logging.Logger
	m      *migrate.Migrate
	source string
}

func newRootCmd() *cobra.Command {
	mg := &migrator{logger: logging.New(logging.FormatConsole, logging.LevelInfo).Named("migration")}

	root := &cobra.Command{
		Use:           "migration",
		Short:         "Apply the club-odds postgres schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return mg.open()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			mg.close()
			return nil
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if err := ignoreNoChange(mg.logger, mg.m.Up()); err != nil {
					return err
				}
				mg.logger.Info("migrations applied", "source", mg.source)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				if err := ignoreNoChange(mg.logger, mg.m.Steps(-steps)); err != nil {
					return err
				}
				mg.logger.Info("rolled back migrations", "steps", steps)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				version, dirty, err := mg.m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					fmt.Fprintln(cmd.OutOrStdout(), "dirty: false")
					return nil
				}
				if err != nil {
					return fmt.Errorf("read version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
				return nil
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				version, err := parseVersion(args[0])
				if err != nil {
					return err
				}
				if err := mg.m.Force(version); err != nil {
					return fmt.Errorf("force version %d: %w", version, err)
				}
				mg.logger.Info("forced schema version", "version", version)
				return nil
			},
		},
		&cobra.Command{
			Use:     "goto <version>",
			Aliases: []string{"migrate"},
			Short:   "Migrate up or down to the target version",
			Args:    cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				target, err := parseTarget(args[0])
				if err != nil {
					return err
				}
				if err := ignoreNoChange(mg.logger, mg.m.Migrate(target)); err != nil {
					return err
				}
				mg.logger.Info("migrated", "version", target)
				return nil
			},
		},
	)
	return root
}

func (mg *migrator) open() error {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return fmt.Errorf("DB_URL is required")
	}

	dir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if dir == "" {
		src, err := iofs.New(db.Migrations, db.MigrationsRoot)
		if err != nil {
			return fmt.Errorf("open embedded migrations: %w", err)
		}
		mg.source = "embedded"
		return mg.openWith(func() (*migrate.Migrate, error) {
			return migrate.NewWithSourceInstance("iofs", src, dbURL)
		})
	}

	abs, err := resolveMigrationsDir(dir)
	if err != nil {
		return err
	}
	mg.source = "file://" + filepath.ToSlash(abs)
	return mg.openWith(func() (*migrate.Migrate, error) {
		return migrate.New(mg.source, dbURL)
	})
}

func (mg *migrator) openWith(build func() (*migrate.Migrate, error)) error {
	m, err := build()
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	m.Log = migrateLogger{logger: mg.logger}
	mg.m = m
	return nil
}

func (mg *migrator) close() {
	if mg.m == nil {
		return
	}
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		mg.logger.Warn("close migration source failed", "error", srcErr)
	}
	if dbErr != nil {
		mg.logger.Warn("close migration db failed", "error", dbErr)
	}
}

type migrateLogger struct {
	logger *logging.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return false
}

var _ migrate.Logger = migrateLogger{}

func ignoreNoChange(logger *logging.Logger, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}
	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func resolveMigrationsDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve MIGRATIONS_DIR: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("MIGRATIONS_DIR %s is not a directory", abs)
	}
	return abs, nil
}
