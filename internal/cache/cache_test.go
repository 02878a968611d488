package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetCachesFreshValue(t *testing.T) {
	c := New(time.Minute)
	key := Key{Kind: "users", Query: "page=1"}

	var calls int32
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "payload", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), key, fetch)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if v != "payload" {
			t.Fatalf("Get() = %v, want payload", v)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch calls = %d, want 1 (fresh hits must not refetch)", n)
	}
}

func TestGetCoalescesConcurrentReads(t *testing.T) {
	c := New(time.Minute)
	key := Key{Kind: "users", Query: "page=1"}

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	const readers = 5
	var wg sync.WaitGroup
	results := make([]any, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), key, fetch)
			if err != nil {
				t.Errorf("reader %d: %v", i, err)
			}
			results[i] = v
		}(i)
	}

	// Let every reader reach the cache before the fetch resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch calls = %d, want exactly 1 for identical in-flight keys", n)
	}
	for i, v := range results {
		if v != 42 {
			t.Errorf("reader %d got %v, want shared result 42", i, v)
		}
	}
}

func TestDistinctKeysDoNotCoalesce(t *testing.T) {
	c := New(time.Minute)

	var calls int32
	fetch := func(context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	if _, err := c.Get(context.Background(), Key{Kind: "users", Query: "page=1"}, fetch); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(context.Background(), Key{Kind: "users", Query: "page=2"}, fetch); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetch calls = %d, want 2 for distinct queries", n)
	}
}

func TestExpiredEntryRefetches(t *testing.T) {
	c := New(time.Minute)
	c.SetTTL("users", 10*time.Second)
	key := Key{Kind: "users", Query: ""}

	clock := time.Now()
	c.now = func() time.Time { return clock }

	var calls int32
	fetch := func(context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	if _, err := c.Get(context.Background(), key, fetch); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(11 * time.Second)
	v, err := c.Get(context.Background(), key, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if v != int32(2) {
		t.Errorf("expired read = %v, want refetched value 2", v)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := New(time.Minute)

	var calls int32
	fetch := func(context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	uKey := Key{Kind: "users", Query: "page=1"}
	aKey := Key{Kind: "admin-users", Query: ""}
	if _, err := c.Get(context.Background(), uKey, fetch); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(context.Background(), aKey, fetch); err != nil {
		t.Fatal(err)
	}

	c.Invalidate("users")

	if v, _ := c.Get(context.Background(), uKey, fetch); v != int32(3) {
		t.Errorf("users read after invalidation = %v, want refetch", v)
	}
	if v, _ := c.Get(context.Background(), aKey, fetch); v != int32(2) {
		t.Errorf("admin read = %v, want cached value (other kinds untouched)", v)
	}
}

func TestReadRetriesOnce(t *testing.T) {
	c := New(time.Minute)
	key := Key{Kind: "users", Query: ""}

	var calls int32
	fetch := func(context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}

	v, err := c.Get(context.Background(), key, fetch)
	if err != nil {
		t.Fatalf("Get() error after retry: %v", err)
	}
	if v != "ok" {
		t.Errorf("Get() = %v, want ok", v)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetch calls = %d, want 2 (one retry)", n)
	}
}

func TestFailedReadCachesNothing(t *testing.T) {
	c := New(time.Minute)
	key := Key{Kind: "users", Query: ""}

	boom := errors.New("boom")
	var calls int32
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	if _, err := c.Get(context.Background(), key, fetch); !errors.Is(err, boom) {
		t.Fatalf("Get() error = %v, want boom surfaced unmodified", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("fetch calls = %d, want 2 (initial + retry)", n)
	}

	// The failure must not poison the key.
	ok := func(context.Context) (any, error) { return "fine", nil }
	v, err := c.Get(context.Background(), key, ok)
	if err != nil || v != "fine" {
		t.Errorf("Get() after failure = %v, %v; want fine", v, err)
	}
}

func TestGetAsTypes(t *testing.T) {
	c := New(time.Minute)
	key := Key{Kind: "users", Query: ""}

	type page struct{ Total int }
	v, err := GetAs(context.Background(), c, key, func(context.Context) (*page, error) {
		return &page{Total: 7}, nil
	})
	if err != nil {
		t.Fatalf("GetAs() error: %v", err)
	}
	if v.Total != 7 {
		t.Errorf("Total = %d, want 7", v.Total)
	}
}
