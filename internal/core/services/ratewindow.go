package services

import (
	"sync"
	"time"
)

// Rate limit for grounded questions: at most queryRateLimit accepted
// queries per space within the trailing queryRateWindow.
const (
	queryRateLimit  = 10
	queryRateWindow = 60 * time.Second
)

// rateWindow is a sliding-window rate limiter keyed by space ID.
// Stale timestamps are pruned lazily on each check. Check and record
// happen under one lock, which is correct for a single process; no
// cross-process coordination is attempted.
type rateWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	stamps map[string][]time.Time
}

func newRateWindow(limit int, window time.Duration, now func() time.Time) *rateWindow {
	return &rateWindow{
		limit:  limit,
		window: window,
		now:    now,
		stamps: make(map[string][]time.Time),
	}
}

// allow reports whether a request for the key fits in the window, and
// records it if so.
func (w *rateWindow) allow(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	kept := w.stamps[key][:0]
	for _, ts := range w.stamps[key] {
		if now.Sub(ts) < w.window {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= w.limit {
		w.stamps[key] = kept
		return false
	}
	w.stamps[key] = append(kept, now)
	return true
}
