package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	loader := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != 7 {
		t.Fatalf("expected reload to succeed, got %v, %v", v, err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("cached GetOrLoad error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_DeleteAndPrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	ctx := context.Background()
	store.Set(ctx, "odds:m1", 1)
	store.Set(ctx, "odds:m2", 2)
	store.Set(ctx, "stats:t1", 3)

	store.Delete(ctx, "odds:m1")
	if _, ok := store.Get(ctx, "odds:m1"); ok {
		t.Fatalf("expected odds:m1 deleted")
	}

	store.DeletePrefix(ctx, "odds:")
	if _, ok := store.Get(ctx, "odds:m2"); ok {
		t.Fatalf("expected odds:m2 deleted by prefix")
	}
	if _, ok := store.Get(ctx, "stats:t1"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}

	store.Reset()
	if _, ok := store.Get(ctx, "stats:t1"); ok {
		t.Fatalf("expected empty store after reset")
	}
}

func TestStore_GetOrLoad_DropsLoadOverlappingDelete(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string, 1)

	go func() {
		v, _ := store.GetOrLoad(ctx, "odds:m1", func(context.Context) (string, error) {
			close(entered)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-entered
	store.Delete(ctx, "odds:m1")
	close(release)
	if got := <-done; got != "stale" {
		t.Fatalf("in-flight caller got %q, want stale", got)
	}

	if _, ok := store.Get(ctx, "odds:m1"); ok {
		t.Fatalf("expected load overlapping delete not to be stored")
	}
	v, err := store.GetOrLoad(ctx, "odds:m1", func(context.Context) (string, error) {
		return "fresh", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "fresh" {
		t.Fatalf("got %q, want fresh", v)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
