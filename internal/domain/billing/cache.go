package billing

import (
	"sync"
	"time"

	"clinic-billing/internal/domain/plans"
)

// DefaultCacheTTL is how long a fetched plan counts as fresh.
const DefaultCacheTTL = 5 * time.Minute

// CacheEntry is a snapshot plus when it was fetched. Entries are replaced
// whole, never edited.
type CacheEntry struct {
	Snapshot  *plans.Snapshot
	FetchedAt time.Time
}

// PlanCache holds the last fetched plan.
type PlanCache struct {
	mu    sync.RWMutex
	entry *CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewPlanCache(ttl time.Duration, now func() time.Time) *PlanCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &PlanCache{ttl: ttl, now: now}
}

// IsValid reports whether a snapshot exists and is younger than the TTL.
func (c *PlanCache) IsValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validLocked()
}

func (c *PlanCache) validLocked() bool {
	return c.entry != nil && c.entry.Snapshot != nil && c.now().Sub(c.entry.FetchedAt) < c.ttl
}

// Get returns a copy of the cached snapshot, fresh or not.
func (c *PlanCache) Get() *plans.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return nil
	}
	return c.entry.Snapshot.Clone()
}

// Fresh returns a copy of the entry only when it is still valid.
func (c *PlanCache) Fresh() (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.validLocked() {
		return CacheEntry{}, false
	}
	return CacheEntry{Snapshot: c.entry.Snapshot.Clone(), FetchedAt: c.entry.FetchedAt}, true
}

// Entry returns a copy of the entry regardless of freshness.
func (c *PlanCache) Entry() (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return CacheEntry{}, false
	}
	return CacheEntry{Snapshot: c.entry.Snapshot.Clone(), FetchedAt: c.entry.FetchedAt}, true
}

// Set replaces the entry and stamps it with the current time.
func (c *PlanCache) Set(s *plans.Snapshot) {
	e := &CacheEntry{Snapshot: s.Clone(), FetchedAt: c.now()}
	c.mu.Lock()
	c.entry = e
	c.mu.Unlock()
}

func (c *PlanCache) Clear() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
