package congress

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// Limiter enforces a minimum gap between requests and a rolling daily
// quota that resets at local midnight. One limiter guards one origin, so
// every client talking to the same host shares the same counters.
type Limiter struct {
	mu         sync.Mutex
	minGap     time.Duration
	dailyQuota int

	lastRequest time.Time
	dailyCount  int
	dayMarker   time.Time

	now func() time.Time
}

// LimiterStatus is a point-in-time snapshot of the limiter counters.
type LimiterStatus struct {
	DailyQuota int       `json:"daily_quota"`
	DailyCount int       `json:"daily_count"`
	Remaining  int       `json:"remaining"`
	ResetsAt   time.Time `json:"resets_at"`
}

// registry holds one limiter per origin so concurrent clients share quota.
var registry = xsync.NewMap[string, *Limiter]()

// LimiterFor returns the process-wide limiter for the given origin,
// creating it on first use.
func LimiterFor(origin string, minGap time.Duration, dailyQuota int) *Limiter {
	l, _ := registry.LoadOrStore(origin, NewLimiter(minGap, dailyQuota))
	return l
}

// NewLimiter builds a standalone limiter. Most callers want LimiterFor.
func NewLimiter(minGap time.Duration, dailyQuota int) *Limiter {
	now := time.Now()
	return &Limiter{
		minGap:     minGap,
		dailyQuota: dailyQuota,
		dayMarker:  midnight(now),
		now:        time.Now,
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Acquire blocks until a request may be sent. It returns ErrQuotaExhausted
// without sleeping when the daily budget is already spent, and the context
// error if the caller gives up while waiting out the gap.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()

	now := l.now()
	if now.Sub(l.dayMarker) >= 24*time.Hour {
		l.dailyCount = 0
		l.dayMarker = midnight(now)
	}

	if l.dailyCount >= l.dailyQuota {
		l.mu.Unlock()
		return ErrQuotaExhausted
	}

	var wait time.Duration
	if !l.lastRequest.IsZero() {
		if since := now.Sub(l.lastRequest); since < l.minGap {
			wait = l.minGap - since
		}
	}

	// Reserve the slot before sleeping so concurrent callers queue up
	// behind each other instead of bursting.
	l.lastRequest = now.Add(wait)
	l.dailyCount++
	l.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Status reports the current counters, rolling the day over first so a
// stale snapshot never shows yesterday's count.
func (l *Limiter) Status() LimiterStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.dayMarker) >= 24*time.Hour {
		l.dailyCount = 0
		l.dayMarker = midnight(now)
	}

	return LimiterStatus{
		DailyQuota: l.dailyQuota,
		DailyCount: l.dailyCount,
		Remaining:  l.dailyQuota - l.dailyCount,
		ResetsAt:   l.dayMarker.Add(24 * time.Hour),
	}
}
