// Package cache holds the in-process period-assignment cache. It is a pure
// derived-data accelerator keyed by (teacher, class, day); the schedule
// tables stay the system of record.
package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
)

const (
	// DefaultTTL bounds how long a resolved assignment list is served
	// without re-reading the schedule tables.
	DefaultTTL = 5 * time.Minute
	// DefaultMaxEntries caps the number of cached keys before the least
	// recently used entry is evicted.
	DefaultMaxEntries = 1000
	// DefaultSweepInterval is how often expired entries are swept out.
	DefaultSweepInterval = 2 * time.Minute
)

// Clock supplies the current time. Tests inject a fake.
type Clock func() time.Time

// Options configures a PeriodCache.
type Options struct {
	TTL           time.Duration
	MaxEntries    int
	SweepInterval time.Duration
	Clock         Clock
	Logger        *zap.Logger
}

type entry struct {
	key         string
	teacherID   string
	classID     string
	dayOfWeek   string
	assignments []models.PeriodAssignment
	cachedAt    time.Time
	expiresAt   time.Time
}

// PeriodCache is an LRU-bounded TTL cache of expanded period assignments.
//
// The mutex only guards map and list bookkeeping; it is not a single-flight
// mechanism. Concurrent requests that miss on the same key will both hit the
// database and both store the same result, which is wasted work but never
// wrong, since expansion is a pure function of the underlying rows.
type PeriodCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used

	ttl        time.Duration
	maxEntries int
	now        Clock
	logger     *zap.Logger

	hits   uint64
	misses uint64

	sweepInterval time.Duration
	sweepCtx      context.Context
	sweepCancel   context.CancelFunc
	wg            sync.WaitGroup
	started       bool
}

// NewPeriodCache builds a cache with the provided options, filling defaults
// for anything unset.
func NewPeriodCache(opts Options) *PeriodCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &PeriodCache{
		entries:       make(map[string]*list.Element),
		order:         list.New(),
		ttl:           opts.TTL,
		maxEntries:    opts.MaxEntries,
		now:           opts.Clock,
		logger:        opts.Logger,
		sweepInterval: opts.SweepInterval,
	}
}

// Key builds the canonical cache key. Day names are lowercased so callers
// sending "Monday" and "monday" share one entry.
func Key(teacherID, classID, dayOfWeek string) string {
	return teacherID + "|" + classID + "|" + strings.ToLower(dayOfWeek)
}

// Get returns the cached assignments for the key if present and fresh. A
// hit promotes the entry to most-recently-used. Expired entries count as
// misses; the next Put overwrites them in place.
func (c *PeriodCache) Get(teacherID, classID, dayOfWeek string) ([]models.PeriodAssignment, bool) {
	key := Key(teacherID, classID, dayOfWeek)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := elem.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return e.assignments, true
}

// Put stores the assignments for the key, evicting the least recently used
// entry when the cache is full.
func (c *PeriodCache) Put(teacherID, classID, dayOfWeek string, assignments []models.PeriodAssignment) {
	key := Key(teacherID, classID, dayOfWeek)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.assignments = assignments
		e.cachedAt = now
		e.expiresAt = now.Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxEntries {
		c.evictOldestLocked()
	}

	e := &entry{
		key:         key,
		teacherID:   teacherID,
		classID:     classID,
		dayOfWeek:   strings.ToLower(dayOfWeek),
		assignments: assignments,
		cachedAt:    now,
		expiresAt:   now.Add(c.ttl),
	}
	c.entries[key] = c.order.PushFront(e)
}

// Delete removes one exact key. It reports whether an entry existed.
func (c *PeriodCache) Delete(teacherID, classID, dayOfWeek string) bool {
	key := Key(teacherID, classID, dayOfWeek)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(elem)
	return true
}

// Clear drops every entry and returns how many were removed.
func (c *PeriodCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.order.Len()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return removed
}

// InvalidateMatching removes every entry whose key components match ANY of
// the supplied filters (OR semantics). Empty filters are ignored; with no
// filters at all, everything goes.
func (c *PeriodCache) InvalidateMatching(classID, teacherID, dayOfWeek string) int {
	if classID == "" && teacherID == "" && dayOfWeek == "" {
		return c.Clear()
	}
	day := strings.ToLower(dayOfWeek)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry)
		if (classID != "" && e.classID == classID) ||
			(teacherID != "" && e.teacherID == teacherID) ||
			(day != "" && e.dayOfWeek == day) {
			c.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// CleanupExpired sweeps out entries whose TTL has elapsed and returns the
// count removed.
func (c *PeriodCache) CleanupExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry)
		if !now.Before(e.expiresAt) {
			c.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Stats snapshots the hit/miss counters and current occupancy.
func (c *PeriodCache) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := models.CacheStats{
		Hits:       c.hits,
		Misses:     c.misses,
		Size:       c.order.Len(),
		MaxEntries: c.maxEntries,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// ResetStats zeroes the hit/miss counters without touching entries.
func (c *PeriodCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
}

// StartSweep launches the periodic expiry sweep. Safe to call once.
func (c *PeriodCache) StartSweep(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.sweepCtx, c.sweepCancel = context.WithCancel(ctx)
	c.started = true
	// Registered under the lock so a racing StopSweep cannot observe
	// started and Wait before the goroutine is accounted for.
	c.wg.Add(1)
	c.mu.Unlock()

	go c.sweepLoop()
	c.logger.Sugar().Infow("period cache sweep started", "interval", c.sweepInterval)
}

// StopSweep cancels the sweep goroutine and waits for it to exit. Calling
// it on a cache that never started is a no-op.
func (c *PeriodCache) StopSweep() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	cancel := c.sweepCancel
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	c.logger.Sugar().Infow("period cache sweep stopped")
}

func (c *PeriodCache) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.sweepCtx.Done():
			return
		case <-ticker.C:
			if removed := c.CleanupExpired(); removed > 0 {
				c.logger.Sugar().Debugw("swept expired period cache entries", "removed", removed)
			}
		}
	}
}

func (c *PeriodCache) evictOldestLocked() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	e := elem.Value.(*entry)
	c.removeLocked(elem)
	c.logger.Sugar().Debugw("evicted period cache entry", "key", e.key)
}

func (c *PeriodCache) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.entries, e.key)
}
