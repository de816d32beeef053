package application

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/course-scheduler/internal/scheduler"
)

const (
	defaultReportCacheTTL        = 30 * time.Second
	defaultReportCacheMaxEntries = 256
)

type reportCacheEntry struct {
	report    scheduler.Report
	expiresAt time.Time
}

// reportCache memoizes conflict-check reports for repeated identical checks.
// Entries are short-lived and the cache is invalidated whenever a persisting
// mutation changes the set of occurrences a check could collide with.
type reportCache struct {
	mu         sync.RWMutex
	entries    map[string]reportCacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func newReportCache(ttl time.Duration, maxEntries int) *reportCache {
	if ttl <= 0 {
		ttl = defaultReportCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultReportCacheMaxEntries
	}
	return &reportCache{
		entries:    make(map[string]reportCacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *reportCache) Get(key string) (scheduler.Report, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return scheduler.Report{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return scheduler.Report{}, false
	}
	return entry.report, true
}

func (c *reportCache) Store(key string, report scheduler.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = reportCacheEntry{
		report:    report,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops every cached report. Checks are keyed by course input,
// not by resource, so a mutation on any room or teacher clears the lot.
func (c *reportCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]reportCacheEntry)
	c.mu.Unlock()
}

func (c *reportCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *reportCache) evictOneLocked() {
	var oldestKey string
	var oldestExpiry time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func buildReportCacheKey(courseID string, input CourseInput) string {
	var b strings.Builder
	b.WriteString(courseID)
	b.WriteString("|")
	b.WriteString(input.RoomID)
	b.WriteString("|")
	b.WriteString(input.TeacherID)
	b.WriteString("|")
	b.WriteString(input.StartTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "|%d|%t|%t", input.DurationMinutes, input.IsRecurring, input.ExcludeHolidays)
	if input.IsRecurring {
		b.WriteString("|")
		for i, day := range input.Pattern.Normalize().Days {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(day.String())
		}
		if input.RecurrenceEndDate != nil {
			b.WriteString("|")
			b.WriteString(input.RecurrenceEndDate.UTC().Format(time.RFC3339))
		}
	}
	return b.String()
}
