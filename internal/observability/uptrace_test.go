package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/club-odds/internal/config"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "club-odds",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EmptyDSN(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: " "}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(config.Config{
		DBURL:             "postgres://localhost/odds",
		RedisEnabled:      true,
		OddsDefaultMargin: 0.05,
		OddsGoalLine:      2.5,
	})

	got := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsInterface()
	}
	if got["odds.storage"] != "postgres" {
		t.Fatalf("expected postgres storage, got %v", got["odds.storage"])
	}
	if got["odds.stream_enabled"] != true {
		t.Fatalf("expected stream enabled, got %v", got["odds.stream_enabled"])
	}
	if got["odds.goal_line"] != 2.5 {
		t.Fatalf("expected goal line 2.5, got %v", got["odds.goal_line"])
	}
}
