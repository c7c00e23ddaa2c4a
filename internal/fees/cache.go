package fees

import (
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"feeScope/internal/model"
)

// DefaultCacheTTL bounds how long a cached snapshot may serve reads.
const DefaultCacheTTL = 60 * time.Second

type cacheEntry struct {
	snapshot  *model.ClaimableSnapshot
	createdAt time.Time
}

// SnapshotCache memoizes per-owner snapshots for a bounded time. Invalidate
// removes the entry outright, so the next read is always a genuine
// recomputation rather than a race with TTL arithmetic.
type SnapshotCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewSnapshotCache builds a cache with the given TTL. ttl <= 0 falls back to
// DefaultCacheTTL.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &SnapshotCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(owner common.Address) string {
	return strings.ToLower(owner.Hex())
}

// Get returns the owner's snapshot if a fresh entry exists.
func (c *SnapshotCache) Get(owner common.Address) (*model.ClaimableSnapshot, bool) {
	key := cacheKey(owner)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.snapshot, true
}

// Put stores the owner's snapshot, replacing any previous entry.
func (c *SnapshotCache) Put(owner common.Address, snapshot *model.ClaimableSnapshot) {
	key := cacheKey(owner)

	c.mu.Lock()
	c.entries[key] = cacheEntry{snapshot: snapshot, createdAt: c.now()}
	c.mu.Unlock()
}

// Invalidate evicts the owner's entry. Idempotent.
func (c *SnapshotCache) Invalidate(owner common.Address) {
	key := cacheKey(owner)

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
