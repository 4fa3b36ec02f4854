package hibp

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// CachedSource keeps recent range bodies in memory. Range bodies are around 30KiB each.
type CachedSource struct {
	source RangeSource
	cache  *ristretto.Cache
	ttl    time.Duration
}

// NewCachedSource caches up to maxBytes of range bodies for ttl. A zero ttl never expires entries.
func NewCachedSource(source RangeSource, maxBytes int64, ttl time.Duration) (*CachedSource, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		// ~10x the number of bodies that fit
		NumCounters: 10 * (maxBytes/(30*1024) + 1),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &CachedSource{source: source, cache: cache, ttl: ttl}, nil
}

func (c *CachedSource) Range(ctx context.Context, prefix string) ([]byte, error) {
	if body, ok := c.cache.Get(prefix); ok {
		return body.([]byte), nil
	}

	body, err := c.source.Range(ctx, prefix)
	if err != nil {
		return nil, err
	}

	c.cache.SetWithTTL(prefix, body, int64(len(body)), c.ttl)
	return body, nil
}

func (c *CachedSource) Close() {
	c.cache.Close()
}
