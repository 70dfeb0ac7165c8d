package workers

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobsearch-api/internal/config"
)

// siteLimiter tracks the rate limiter and counters for one job board
type siteLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
	rejected int64
	mu       sync.Mutex
}

// SiteLimiter enforces a per-site request budget at pool admission so one
// hot board cannot starve the others.
type SiteLimiter struct {
	config *config.Config
	sites  map[string]*siteLimiter
	mu     sync.Mutex
}

// NewSiteLimiter creates a new per-site rate limiter
func NewSiteLimiter(cfg *config.Config) *SiteLimiter {
	return &SiteLimiter{
		config: cfg,
		sites:  make(map[string]*siteLimiter),
	}
}

// Allow reports whether a request touching the given site may proceed
func (sl *SiteLimiter) Allow(site string) bool {
	l := sl.limiterFor(strings.ToLower(site))

	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastSeen = time.Now()
	l.requests++
	if !l.limiter.Allow() {
		l.rejected++
		return false
	}
	return true
}

// Stats returns request counters per site
func (sl *SiteLimiter) Stats() map[string]map[string]int64 {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	out := make(map[string]map[string]int64, len(sl.sites))
	for site, l := range sl.sites {
		l.mu.Lock()
		out[site] = map[string]int64{
			"requests": l.requests,
			"rejected": l.rejected,
		}
		l.mu.Unlock()
	}
	return out
}

func (sl *SiteLimiter) limiterFor(site string) *siteLimiter {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	l, ok := sl.sites[site]
	if !ok {
		perMinute := sl.config.Workers.RateLimit
		if perMinute <= 0 {
			perMinute = 60
		}
		l = &siteLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		}
		sl.sites[site] = l
	}
	return l
}
