package utils

import (
	"sync"
	"time"
)

// Pacer enforces a fixed minimum interval between consecutive remote
// calls. It is a courtesy delay, not an adaptive limiter: callers that
// need stronger guarantees against server-side throttling must raise
// the configured delay.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	lastCall time.Time
}

// NewPacer creates a Pacer with the given minimum interval in
// milliseconds. A non-positive delay disables pacing entirely.
func NewPacer(delayMs int) *Pacer {
	return &Pacer{interval: time.Duration(delayMs) * time.Millisecond}
}

// Wait blocks until at least the configured interval has passed since
// the previous call. The first call never blocks.
func (p *Pacer) Wait() {
	if p.interval <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastCall.IsZero() {
		if elapsed := time.Since(p.lastCall); elapsed < p.interval {
			time.Sleep(p.interval - elapsed)
		}
	}
	p.lastCall = time.Now()
}
