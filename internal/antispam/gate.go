package antispam

import (
	"sync"
	"time"
)

// Gate tracks submission attempts per client IP and enforces an escalating
// backoff between attempts plus a hard cap per cooldown period. State lives
// in process memory only, so limits are per instance; that limitation is
// accepted and documented rather than papered over.
type Gate struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord

	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
	cooldown    time.Duration
	retention   time.Duration

	stopCh chan struct{}
	now    func() time.Time
}

type attemptRecord struct {
	firstSeenAt   time.Time
	attempts      int
	lastAttemptAt time.Time
}

// Options configures a Gate. Zero fields fall back to defaults.
type Options struct {
	BaseDelay   time.Duration // delay after the second attempt (default 30s)
	MaxDelay    time.Duration // backoff ceiling (default 5m)
	MaxAttempts int           // hard cap per cooldown (default 5)
	Cooldown    time.Duration // rolling cap period (default 1h)
	Retention   time.Duration // record lifetime before the sweep evicts it (default 24h)
}

// Verdict is the outcome of a CanAttempt check.
type Verdict struct {
	Allowed  bool
	WaitTime time.Duration
	Message  string
}

// NewGate builds a Gate and starts its hourly eviction sweep. Call Close to
// stop the sweep.
func NewGate(opts Options) *Gate {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 30 * time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 5 * time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = time.Hour
	}
	if opts.Retention <= 0 {
		opts.Retention = 24 * time.Hour
	}

	g := &Gate{
		attempts:    make(map[string]*attemptRecord),
		baseDelay:   opts.BaseDelay,
		maxDelay:    opts.MaxDelay,
		maxAttempts: opts.MaxAttempts,
		cooldown:    opts.Cooldown,
		retention:   opts.Retention,
		stopCh:      make(chan struct{}),
		now:         time.Now,
	}
	go g.sweep()
	return g
}

// CanAttempt records an attempt from the IP when allowed, and rejects it when
// the required backoff delay has not elapsed or the hourly cap is exhausted.
// Once the cooldown since the first tracked attempt passes, the counter
// restarts at 1 instead of growing further.
func (g *Gate) CanAttempt(ip string) Verdict {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	rec, ok := g.attempts[ip]
	if !ok || now.Sub(rec.firstSeenAt) >= g.cooldown {
		g.attempts[ip] = &attemptRecord{firstSeenAt: now, attempts: 1, lastAttemptAt: now}
		return Verdict{Allowed: true}
	}

	if rec.attempts >= g.maxAttempts {
		wait := g.cooldown - now.Sub(rec.firstSeenAt)
		return Verdict{
			Allowed:  false,
			WaitTime: wait,
			Message:  "too many attempts, please try again later",
		}
	}

	delay := g.requiredDelay(rec.attempts)
	if elapsed := now.Sub(rec.lastAttemptAt); elapsed < delay {
		return Verdict{
			Allowed:  false,
			WaitTime: delay - elapsed,
			Message:  "please wait before trying again",
		}
	}

	rec.attempts++
	rec.lastAttemptAt = now
	return Verdict{Allowed: true}
}

// requiredDelay returns the backoff owed after the given number of attempts:
// none after the first, then baseDelay * 2^(attempts-1), capped.
func (g *Gate) requiredDelay(attempts int) time.Duration {
	if attempts < 1 {
		return 0
	}
	delay := g.baseDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= g.maxDelay {
			return g.maxDelay
		}
	}
	if delay > g.maxDelay {
		return g.maxDelay
	}
	return delay
}

// Close stops the eviction sweep.
func (g *Gate) Close() {
	close(g.stopCh)
}

func (g *Gate) sweep() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.evictStale()
		case <-g.stopCh:
			return
		}
	}
}

func (g *Gate) evictStale() {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.retention)
	for ip, rec := range g.attempts {
		if rec.lastAttemptAt.Before(cutoff) {
			delete(g.attempts, ip)
		}
	}
}
