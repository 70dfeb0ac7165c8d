// Package cache holds completed search batches in memory for a bounded
// window so the export path can retrieve them later. Nothing is persisted;
// a process restart discards every entry.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobsearch-api/internal/config"
	"jobsearch-api/internal/logging"
	"jobsearch-api/internal/logging/types"
	"jobsearch-api/pkg/models"
)

// Entry owns one immutable batch of records plus the metadata of the search
// that produced it. The cache is the sole owner; callers must not mutate
// the batch after handing it over.
type Entry struct {
	Jobs      []models.JobRecord
	Timestamp time.Time
	Metadata  map[string]any
}

// expired is the single expiry predicate shared by the lazy get-path check
// and the background sweep so the two can never disagree.
func (e *Entry) expired(now time.Time, ttl time.Duration) bool {
	return now.After(e.Timestamp.Add(ttl))
}

// Stats reports entry counts and a rough size estimate
type Stats struct {
	TotalEntries   int     `json:"total_entries"`
	ActiveEntries  int     `json:"active_entries"`
	ExpiredEntries int     `json:"expired_entries"`
	CacheSizeMB    float64 `json:"cache_size_mb"`
}

// ResultsCache is a TTL-bound in-memory store from search identifier to
// result batch. All access is serialized through one lock; expired entries
// are evicted lazily on read and eagerly by a periodic sweep.
type ResultsCache struct {
	config  *config.Config
	entries map[string]*Entry
	mu      sync.RWMutex
	logger  types.Logger

	cancel  context.CancelFunc
	done    chan struct{}
	started bool

	// test seam, defaults to time.Now
	now func() time.Time
}

// New creates a results cache. Start must be called before the background
// sweep runs; lazy eviction works regardless.
func New(cfg *config.Config) *ResultsCache {
	return &ResultsCache{
		config:  cfg,
		entries: make(map[string]*Entry),
		logger:  logging.GetGlobalLogger(),
		now:     time.Now,
	}
}

// Start arms the periodic sweep. The composition root owns the lifecycle;
// the cache never starts itself.
func (c *ResultsCache) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.started = true

	go c.sweepLoop(sweepCtx)

	c.logger.Info("Results cache started", map[string]any{
		"ttl":              c.config.Cache.TTL.Std().String(),
		"cleanup_interval": c.config.Cache.CleanupInterval.Std().String(),
	})
	return nil
}

// Stop cancels the sweep and waits for it to exit
func (c *ResultsCache) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = false
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done
	c.logger.Info("Results cache stopped")
	return nil
}

// Put stores a batch under the given search identifier, unconditionally
// overwriting any previous entry and stamping the current time.
func (c *ResultsCache) Put(searchID string, jobs []models.JobRecord, metadata map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[searchID] = &Entry{
		Jobs:      jobs,
		Timestamp: c.now(),
		Metadata:  metadata,
	}
}

// Get returns the entry for searchID, or nil if it is unknown or expired.
// An expired entry found here is evicted on the spot so read traffic keeps
// the map tidy between sweeps.
func (c *ResultsCache) Get(searchID string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[searchID]
	if !ok {
		return nil
	}

	if entry.expired(c.now(), c.config.Cache.TTL.Std()) {
		delete(c.entries, searchID)
		return nil
	}
	return entry
}

// Remove deletes the entry for searchID, reporting whether one existed
func (c *ResultsCache) Remove(searchID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[searchID]; !ok {
		return false
	}
	delete(c.entries, searchID)
	return true
}

// Clear drops all entries
func (c *ResultsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// GetStats returns entry counts and an approximate size assuming ~2KB per
// record.
func (c *ResultsCache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	total := len(c.entries)
	expired := 0
	totalJobs := 0
	for _, entry := range c.entries {
		if entry.expired(now, c.config.Cache.TTL.Std()) {
			expired++
		}
		totalJobs += len(entry.Jobs)
	}

	sizeMB := float64(totalJobs*2048) / (1024 * 1024)
	return Stats{
		TotalEntries:   total,
		ActiveEntries:  total - expired,
		ExpiredEntries: expired,
		CacheSizeMB:    sizeMB,
	}
}

func (c *ResultsCache) sweepLoop(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.config.Cache.CleanupInterval.Std())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runSweep()
		}
	}
}

// runSweep guards one sweep pass; a failing pass is logged and the loop
// carries on to the next interval.
func (c *ResultsCache) runSweep() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Cache sweep failed", map[string]any{"panic": fmt.Sprint(r)})
		}
	}()

	if removed := c.sweep(); removed > 0 {
		c.logger.Debug("Cache sweep removed expired entries", map[string]any{
			"removed": removed,
		})
	}
}

// sweep removes every entry whose expiry predicate holds right now
func (c *ResultsCache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for searchID, entry := range c.entries {
		if entry.expired(now, c.config.Cache.TTL.Std()) {
			delete(c.entries, searchID)
			removed++
		}
	}
	return removed
}
