package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestKeyLayout(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		op       string
		params   any
		want     string
	}{
		{
			name:     "without params",
			resource: "dashboard",
			op:       "stats",
			want:     "dashboard.stats",
		},
		{
			name:     "with params",
			resource: "users",
			op:       "list",
			params:   map[string]int{"page": 2},
			want:     `users.list?{"page":2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.resource, tt.op, tt.params); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGetCachesValue(t *testing.T) {
	c := NewCache()
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Get(context.Background(), "users.list", fetch)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != "value" {
			t.Fatalf("expected %q, got %v", "value", got)
		}
	}
	if got := fetches.Load(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	c := NewCache()
	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Get(context.Background(), "users.list", fetch)
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			if got != "shared" {
				t.Errorf("expected %q, got %v", "shared", got)
			}
		}()
	}
	close(release)
	wg.Wait()
	if got := fetches.Load(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestFailedFetchSurfacesErrorAndRetriesNextTime(t *testing.T) {
	c := NewCache()
	boom := errors.New("backend down")
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		if fetches.Add(1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	if _, err := c.Get(context.Background(), "users.list", fetch); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	got, err := c.Get(context.Background(), "users.list", fetch)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("expected %q, got %v", "recovered", got)
	}
}

func TestInvalidatePrefixMatching(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		prefix      string
		wantRefetch bool
	}{
		{name: "exact", key: "users.list", prefix: "users.list", wantRefetch: true},
		{name: "dot boundary", key: "users.list", prefix: "users", wantRefetch: true},
		{name: "query boundary", key: `users.list?{"page":1}`, prefix: "users.list", wantRefetch: true},
		{name: "no partial token match", key: "users.list", prefix: "user", wantRefetch: false},
		{name: "unrelated", key: "sessions.list", prefix: "users", wantRefetch: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			var fetches atomic.Int32
			fetch := func(ctx context.Context) (any, error) {
				return fetches.Add(1), nil
			}
			if _, err := c.Get(context.Background(), tt.key, fetch); err != nil {
				t.Fatalf("prime: %v", err)
			}
			c.Invalidate(tt.prefix)
			if _, err := c.Get(context.Background(), tt.key, fetch); err != nil {
				t.Fatalf("reread: %v", err)
			}
			want := int32(1)
			if tt.wantRefetch {
				want = 2
			}
			if got := fetches.Load(); got != want {
				t.Fatalf("expected %d fetches, got %d", want, got)
			}
		})
	}
}

func TestInvalidateSupersedesInFlightFetch(t *testing.T) {
	c := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Get(context.Background(), "users.list", func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "stale result", nil
		})
	}()

	<-started
	c.Invalidate("users.list")
	close(release)
	<-done

	// The superseded response must not have been committed.
	got, err := c.Get(context.Background(), "users.list", func(ctx context.Context) (any, error) {
		return "fresh result", nil
	})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "fresh result" {
		t.Fatalf("expected %q, got %v", "fresh result", got)
	}
}

func TestMutateInvalidatesOnlyOnSuccess(t *testing.T) {
	c := NewCache()
	var fetches atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		return fetches.Add(1), nil
	}
	if _, err := c.Get(context.Background(), "users.list", fetch); err != nil {
		t.Fatalf("prime: %v", err)
	}

	boom := errors.New("mutation failed")
	err := c.Mutate(context.Background(), func(ctx context.Context) error { return boom }, "users")
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if _, err := c.Get(context.Background(), "users.list", fetch); err != nil {
		t.Fatalf("reread: %v", err)
	}
	if got := fetches.Load(); got != 1 {
		t.Fatalf("expected failed mutation to keep the cache, got %d fetches", got)
	}

	if err := c.Mutate(context.Background(), func(ctx context.Context) error { return nil }, "users"); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if _, err := c.Get(context.Background(), "users.list", fetch); err != nil {
		t.Fatalf("reread: %v", err)
	}
	if got := fetches.Load(); got != 2 {
		t.Fatalf("expected successful mutation to force a refetch, got %d fetches", got)
	}
}

func TestGetTyped(t *testing.T) {
	c := NewCache()
	type page struct{ Total int }
	got, err := GetTyped(context.Background(), c, "users.list", func(ctx context.Context) (*page, error) {
		return &page{Total: 7}, nil
	})
	if err != nil {
		t.Fatalf("get typed: %v", err)
	}
	if got.Total != 7 {
		t.Fatalf("expected total 7, got %d", got.Total)
	}
}
