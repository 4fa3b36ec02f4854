package hibp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countingSource struct {
	calls atomic.Int32
	body  []byte
	err   error
}

func (c *countingSource) Range(_ context.Context, _ string) ([]byte, error) {
	c.calls.Add(1)
	return c.body, c.err
}

func TestCachedSource(t *testing.T) {
	q := NewQuery("password")
	inner := &countingSource{body: []byte(q.Suffix + ":1\n")}
	cached, err := NewCachedSource(inner, 1<<20, 0)
	if err != nil {
		t.Fatalf("Should not fail creating cache: %s", err)
	}
	t.Cleanup(cached.Close)

	client := NewClient(cached)
	first, err := client.Check(context.Background(), "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	cached.cache.Wait()

	second, err := client.Check(context.Background(), "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	if first != second {
		t.Errorf("Cached result should be identical, got %+v and %+v", first, second)
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("Range should be fetched once, got %d", n)
	}
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("boom")}
	cached, err := NewCachedSource(inner, 1<<20, 0)
	if err != nil {
		t.Fatalf("Should not fail creating cache: %s", err)
	}
	t.Cleanup(cached.Close)

	for i := 0; i < 2; i++ {
		if _, err = cached.Range(context.Background(), "5BAA6"); err == nil {
			t.Errorf("Should fail")
		}
		cached.cache.Wait()
	}
	if n := inner.calls.Load(); n != 2 {
		t.Errorf("Failures should not be cached, got %d calls", n)
	}
}
