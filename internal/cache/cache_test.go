package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// memStore is an in-process Store for tests.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	sets   int
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	m.sets++
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestFetch_NilLoaderCallsFill(t *testing.T) {
	var calls int
	got, err := Fetch(context.Background(), nil, "k", func(context.Context) ([]string, error) {
		calls++
		return []string{"a"}, nil
	})
	if err != nil || len(got) != 1 || calls != 1 {
		t.Fatalf("got=%v err=%v calls=%d", got, err, calls)
	}
}

func TestFetch_ReadThroughAndInvalidate(t *testing.T) {
	store := newMemStore()
	l := &Loader{Store: store, TTL: time.Minute}
	ctx := context.Background()

	var calls int
	fill := func(context.Context) ([]int, error) {
		calls++
		return []int{calls}, nil
	}

	first, _ := Fetch(ctx, l, "subjects", fill)
	second, _ := Fetch(ctx, l, "subjects", fill)
	if calls != 1 || first[0] != 1 || second[0] != 1 {
		t.Fatalf("expected one fill and a cached second read, calls=%d first=%v second=%v", calls, first, second)
	}

	l.Invalidate(ctx, "subjects")
	third, _ := Fetch(ctx, l, "subjects", fill)
	if calls != 2 || third[0] != 2 {
		t.Fatalf("expected refill after invalidate, calls=%d third=%v", calls, third)
	}
}

func TestFetch_FillErrorIsNotCached(t *testing.T) {
	store := newMemStore()
	l := &Loader{Store: store}
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), l, "k", func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected fill error, got %v", err)
	}
	if store.sets != 0 {
		t.Fatalf("failed fills must not be stored")
	}
}

func TestFetch_StoreErrorFallsThrough(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("down")
	var reported []string
	l := &Loader{Store: store, OnError: func(op string, _ error) { reported = append(reported, op) }}

	got, err := Fetch(context.Background(), l, "k", func(context.Context) (string, error) { return "fresh", nil })
	if err != nil || got != "fresh" {
		t.Fatalf("got=%q err=%v", got, err)
	}
	if len(reported) == 0 || reported[0] != "get" {
		t.Fatalf("expected get error to be reported, got %v", reported)
	}
}

func TestFetch_ConcurrentMissesShareOneFill(t *testing.T) {
	l := &Loader{Store: newMemStore(), TTL: time.Minute}
	var calls atomic.Int32
	release := make(chan struct{})

	fill := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			v, err := Fetch(context.Background(), l, "hot", fill)
			if err != nil {
				return err
			}
			if v != 7 {
				return errors.New("wrong value")
			}
			return nil
		})
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	if err := g.Wait(); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// Late arrivals either join the in-flight call or read the stored value.
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected exactly one fill, got %d", n)
	}
}

func TestRedis_UnreachableServer(t *testing.T) {
	r := NewRedis(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	}, "test:")
	t.Cleanup(func() { _ = r.Close() })

	ctx := context.Background()
	if err := r.Ping(ctx); err == nil {
		t.Fatalf("expected ping error against a closed port")
	}
	if _, _, err := r.Get(ctx, "k"); err == nil {
		t.Fatalf("expected get error against a closed port")
	}

	// The loader still serves from the fill function.
	l := &Loader{Store: r, TTL: time.Second}
	got, err := Fetch(ctx, l, "k", func(context.Context) (int, error) { return 3, nil })
	if err != nil || got != 3 {
		t.Fatalf("got=%d err=%v", got, err)
	}
	if err := r.Delete(ctx); err != nil {
		t.Fatalf("Delete without keys should be a no-op: %v", err)
	}
}
