package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/club-odds/internal/config"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

// InitUptrace configures the global OpenTelemetry providers. Spans opened by
// the ops HTTP server, the usecases and otelsql all export through it.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return func(context.Context) error { return nil }, nil
	}

	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttributes(cfg)...),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)

	return func(ctx context.Context) error {
		logger.Info("uptrace flushing spans")
		return uptrace.Shutdown(ctx)
	}, nil
}

func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	storage := "memory"
	if cfg.UsePostgres() {
		storage = "postgres"
	}
	return []attribute.KeyValue{
		attribute.String("odds.storage", storage),
		attribute.Bool("odds.stream_enabled", cfg.RedisEnabled),
		attribute.Float64("odds.default_margin", cfg.OddsDefaultMargin),
		attribute.Float64("odds.goal_line", cfg.OddsGoalLine),
	}
}
