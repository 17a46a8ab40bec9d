package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
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
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC))
	store := NewStore(time.Minute, WithClock(clock))
	ctx := context.Background()

	store.Set(ctx, "standings:d1", 1)
	clock.Advance(59 * time.Second)
	if _, ok := store.Get(ctx, "standings:d1"); !ok {
		t.Fatalf("expected entry before ttl")
	}

	clock.Advance(time.Second)
	if _, ok := store.Get(ctx, "standings:d1"); ok {
		t.Fatalf("expected entry to expire at ttl")
	}
}

func TestStore_DeletePrefixAndPurge(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "standings:d1", 1)
	store.Set(ctx, "standings:d2", 2)
	store.Set(ctx, "divisions", 3)

	store.DeletePrefix(ctx, "standings:")
	if _, ok := store.Get(ctx, "standings:d1"); ok {
		t.Fatalf("expected prefix entries removed")
	}
	if _, ok := store.Get(ctx, "divisions"); !ok {
		t.Fatalf("expected unrelated entry kept")
	}

	store.Purge(ctx)
	if _, ok := store.Get(ctx, "divisions"); ok {
		t.Fatalf("expected purge to drop everything")
	}
}

func TestStore_GetOrLoad_SkipsStoreWhenPurgedDuringLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	value, err := store.GetOrLoad(ctx, "standings:d1", func(ctx context.Context) (any, error) {
		// A successful ingestion lands while the old table is being computed.
		store.Purge(ctx)
		return "old table", nil
	})
	if err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if value != "old table" {
		t.Fatalf("expected loaded value returned to caller, got %v", value)
	}
	if _, ok := store.Get(ctx, "standings:d1"); ok {
		t.Fatalf("expected value loaded across a purge not to be cached")
	}

	if _, err := store.GetOrLoad(ctx, "standings:d1", func(context.Context) (any, error) {
		return "new table", nil
	}); err != nil {
		t.Fatalf("get or load: %v", err)
	}
	if got, ok := store.Get(ctx, "standings:d1"); !ok || got != "new table" {
		t.Fatalf("expected fresh load cached, got %v ok=%v", got, ok)
	}
}

func TestLoad_TypedAndErrorsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	var calls int

	failing := func(context.Context) (int, error) {
		calls++
		return 0, errUnexpectedValue
	}
	if _, err := Load(ctx, store, "k", failing); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}

	ok := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}
	got, err := Load(ctx, store, "k", ok)
	if err != nil || got != 42 {
		t.Fatalf("unexpected load result %d, %v", got, err)
	}
	if _, err := Load(ctx, store, "k", ok); err != nil {
		t.Fatalf("unexpected cached load error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("loader called %d times, want 2", calls)
	}

	if _, err := Load[string](ctx, store, "k", func(context.Context) (string, error) { return "x", nil }); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
