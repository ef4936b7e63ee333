package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBreaker_Transitions(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1})

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	boom := errors.New("redis down")
	fail := func(context.Context) error { return boom }
	ok := func(context.Context) error { return nil }
	ctx := context.Background()

	if err := b.Do(ctx, fail); !errors.Is(err, boom) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	_ = b.Do(ctx, fail)
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected short circuit, got err=%v called=%v", err, called)
	}

	now = now.Add(6 * time.Second)
	if state := b.State(); state != StateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}
	if err := b.Do(ctx, ok); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Second})
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	boom := errors.New("boom")
	_ = b.Do(context.Background(), func(context.Context) error { return boom })
	now = now.Add(2 * time.Second)
	_ = b.Do(context.Background(), func(context.Context) error { return boom })

	if state := b.State(); state != StateOpen {
		t.Fatalf("expected reopened breaker, got %s", state)
	}
}

func TestBreaker_CancellationIsNotAFailure(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 1})
	_ = b.Do(context.Background(), func(context.Context) error { return context.Canceled })

	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed breaker, got %s", state)
	}
}

func TestBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: false, FailureThreshold: 1})
	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		if err := b.Do(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("expected raw error, got %v", err)
		}
	}
}
