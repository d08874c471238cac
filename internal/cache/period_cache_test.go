package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
)

type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.current
}

func (f *fakeClock) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func newTestCache(maxEntries int) (*PeriodCache, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	c := NewPeriodCache(Options{
		TTL:        5 * time.Minute,
		MaxEntries: maxEntries,
		Clock:      clock.Now,
	})
	return c, clock
}

func assignments(period int) []models.PeriodAssignment {
	return []models.PeriodAssignment{{PeriodNumber: period, Session: models.SessionMorning}}
}

func TestPeriodCacheHitAndMissCounters(t *testing.T) {
	c, _ := newTestCache(10)

	_, ok := c.Get("t1", "c1", "monday")
	assert.False(t, ok)

	c.Put("t1", "c1", "monday", assignments(1))

	got, ok := c.Get("t1", "c1", "monday")
	require.True(t, ok)
	assert.Equal(t, 1, got[0].PeriodNumber)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 0.5, stats.HitRate)
	assert.Equal(t, 1, stats.Size)
}

func TestPeriodCacheKeyLowercasesDay(t *testing.T) {
	c, _ := newTestCache(10)
	c.Put("t1", "c1", "Monday", assignments(1))

	_, ok := c.Get("t1", "c1", "monday")
	assert.True(t, ok)
}

func TestPeriodCacheTTLExpiry(t *testing.T) {
	c, clock := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))

	clock.Advance(4 * time.Minute)
	_, ok := c.Get("t1", "c1", "monday")
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("t1", "c1", "monday")
	assert.False(t, ok, "entries past their TTL are misses")
}

func TestPeriodCacheCleanupExpired(t *testing.T) {
	c, clock := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))
	c.Put("t2", "c2", "tuesday", assignments(2))

	clock.Advance(3 * time.Minute)
	c.Put("t3", "c3", "wednesday", assignments(3))

	clock.Advance(3 * time.Minute)
	removed := c.CleanupExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Stats().Size)

	_, ok := c.Get("t3", "c3", "wednesday")
	assert.True(t, ok)
}

func TestPeriodCacheLRUEviction(t *testing.T) {
	c, _ := newTestCache(3)
	for i := 1; i <= 3; i++ {
		c.Put(fmt.Sprintf("t%d", i), "c1", "monday", assignments(i))
	}

	// Touch t1 so t2 becomes least recently used.
	_, ok := c.Get("t1", "c1", "monday")
	require.True(t, ok)

	c.Put("t4", "c1", "monday", assignments(4))

	assert.Equal(t, 3, c.Stats().Size, "size stays at the cap")
	_, ok = c.Get("t2", "c1", "monday")
	assert.False(t, ok, "least recently used entry was evicted")
	_, ok = c.Get("t1", "c1", "monday")
	assert.True(t, ok, "touched entry survived")
	_, ok = c.Get("t4", "c1", "monday")
	assert.True(t, ok)
}

func TestPeriodCachePutExistingKeyDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(2)
	c.Put("t1", "c1", "monday", assignments(1))
	c.Put("t2", "c1", "monday", assignments(2))

	c.Put("t1", "c1", "monday", assignments(5))

	assert.Equal(t, 2, c.Stats().Size)
	got, ok := c.Get("t1", "c1", "monday")
	require.True(t, ok)
	assert.Equal(t, 5, got[0].PeriodNumber)
	_, ok = c.Get("t2", "c1", "monday")
	assert.True(t, ok)
}

func TestPeriodCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))
	c.Put("t2", "c2", "tuesday", assignments(2))

	assert.True(t, c.Delete("t1", "c1", "monday"))
	assert.False(t, c.Delete("t1", "c1", "monday"))

	assert.Equal(t, 1, c.Clear())
	assert.Equal(t, 0, c.Stats().Size)
}

func TestPeriodCacheInvalidateMatchingORSemantics(t *testing.T) {
	c, _ := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))
	c.Put("t1", "c2", "tuesday", assignments(2))
	c.Put("t2", "c3", "monday", assignments(3))
	c.Put("t3", "c4", "friday", assignments(4))

	// classID=c1 OR dayOfWeek=monday matches three entries: the c1 entry
	// plus every monday entry. AND semantics would only match the first.
	removed := c.InvalidateMatching("c1", "", "monday")
	assert.Equal(t, 2, removed)

	_, ok := c.Get("t1", "c1", "monday")
	assert.False(t, ok)
	_, ok = c.Get("t2", "c3", "monday")
	assert.False(t, ok)
	_, ok = c.Get("t1", "c2", "tuesday")
	assert.True(t, ok)
	_, ok = c.Get("t3", "c4", "friday")
	assert.True(t, ok)
}

func TestPeriodCacheInvalidateMatchingIsNotConjunctive(t *testing.T) {
	// Documents the OR behaviour explicitly: an entry matching only one of
	// two supplied filters is still removed. Flipping to AND semantics
	// must break this test.
	c, _ := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))

	removed := c.InvalidateMatching("c1", "some-other-teacher", "")
	assert.Equal(t, 1, removed)
}

func TestPeriodCacheInvalidateMatchingByTeacher(t *testing.T) {
	c, _ := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))
	c.Put("t1", "c2", "tuesday", assignments(2))
	c.Put("t2", "c1", "monday", assignments(3))

	removed := c.InvalidateMatching("", "t1", "")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestPeriodCacheInvalidateMatchingNoFiltersClearsAll(t *testing.T) {
	c, _ := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))
	c.Put("t2", "c2", "tuesday", assignments(2))

	assert.Equal(t, 2, c.InvalidateMatching("", "", ""))
	assert.Equal(t, 0, c.Stats().Size)
}

func TestPeriodCacheInvalidationBeatsTTL(t *testing.T) {
	c, clock := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))

	clock.Advance(time.Minute)
	removed := c.InvalidateMatching("c1", "", "")
	require.Equal(t, 1, removed)

	_, ok := c.Get("t1", "c1", "monday")
	assert.False(t, ok, "invalidated entry misses even before its TTL elapsed")
}

func TestPeriodCacheResetStats(t *testing.T) {
	c, _ := newTestCache(10)
	c.Put("t1", "c1", "monday", assignments(1))
	c.Get("t1", "c1", "monday")
	c.Get("missing", "c1", "monday")

	c.ResetStats()
	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, 1, stats.Size, "reset leaves entries alone")
}

func TestPeriodCacheSweepLifecycle(t *testing.T) {
	c := NewPeriodCache(Options{SweepInterval: 10 * time.Millisecond})

	c.StartSweep(context.Background())
	c.StartSweep(context.Background()) // second start is a no-op
	c.StopSweep()
	c.StopSweep() // stop after stop is a no-op
}

func TestPeriodCacheSweepStopRacesStart(t *testing.T) {
	// A stop issued immediately after start must wait for the sweep
	// goroutine it races with, never return ahead of it.
	c := NewPeriodCache(Options{SweepInterval: time.Millisecond})

	for i := 0; i < 50; i++ {
		c.StartSweep(context.Background())

		done := make(chan struct{})
		go func() {
			c.StopSweep()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("StopSweep did not return")
		}
	}
}
