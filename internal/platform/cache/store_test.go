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

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return 7, nil
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
			v, err := store.GetOrLoad(context.Background(), "pending-count", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(int); got != 7 {
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

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	if v, ok := store.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected cached value, got %v/%v", v, ok)
	}

	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected value gone after delete")
	}
}

func TestStore_Get_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected value expired after ttl")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "aggregates:match-1", 1)
	store.Set(ctx, "aggregates:match-2", 2)
	store.Set(ctx, "edit-requests:pending-count", 3)

	store.DeletePrefix(ctx, "aggregates:")

	if _, ok := store.Get(ctx, "aggregates:match-1"); ok {
		t.Fatal("expected prefixed key gone")
	}
	if _, ok := store.Get(ctx, "edit-requests:pending-count"); !ok {
		t.Fatal("expected unrelated key to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
