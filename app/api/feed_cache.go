package api

import (
	"fmt"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/lysyi3m/vk-comb/app/feed"
)

const feedCacheSize = 1_000

// FeedCache keeps rendered on-demand feeds until their TTL runs out.
// A zero TTL disables caching.
type FeedCache struct {
	cache *otter.Cache[string, string]
}

func NewFeedCache(ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		return &FeedCache{}
	}

	return &FeedCache{
		cache: otter.Must(&otter.Options[string, string]{
			MaximumSize:      feedCacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, string](ttl),
		}),
	}
}

func (c *FeedCache) Get(key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	return c.cache.GetIfPresent(key)
}

func (c *FeedCache) Set(key, rss string) {
	if c.cache == nil {
		return
	}
	c.cache.Set(key, rss)
}

func (c *FeedCache) Size() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.EstimatedSize()
}

func feedCacheKey(owner feed.Owner, count int, include, exclude string) string {
	return fmt.Sprintf("%s|%d|%q|%q", owner.Slug(), count, include, exclude)
}
