package identity

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/healthquest/healthquest/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// cachedUserEntry wraps a user with version metadata for cache invalidation
type cachedUserEntry struct {
	Version  string       `json:"version"`
	User     *domain.User `json:"user"`
	CachedAt time.Time    `json:"cached_at"`
}

// userCache provides an in-memory LRU cache for user lookups keyed by wallet
// address, with time-based expiration and version-based invalidation.
type userCache struct {
	lru *expirable.LRU[string, *cachedUserEntry]
}

func newUserCache(size int, ttl time.Duration) *userCache {
	return &userCache{
		lru: expirable.NewLRU[string, *cachedUserEntry](size, nil, ttl),
	}
}

// Get retrieves a user from the cache. Entries with a mismatched schema
// version are removed and reported as misses.
func (c *userCache) Get(wallet string) (*domain.User, bool) {
	entry, found := c.lru.Get(wallet)
	if !found {
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(wallet)
		return nil, false
	}

	return entry.User, true
}

// Set stores a user in the cache with current schema version
func (c *userCache) Set(wallet string, user *domain.User) {
	c.lru.Add(wallet, &cachedUserEntry{
		Version:  CacheSchemaVersion,
		User:     user,
		CachedAt: time.Now(),
	})
}

// Invalidate removes a user from the cache after an update
func (c *userCache) Invalidate(wallet string) {
	c.lru.Remove(wallet)
}
