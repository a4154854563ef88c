// Package clickguard drops repeated taps that arrive inside a minimum interval.
package clickguard

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval matches the platform's usual double-tap window.
const DefaultInterval = 600 * time.Millisecond

// Guard admits at most one tap per interval.
type Guard struct {
	clock    clockwork.Clock
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func New(clock clockwork.Clock, interval time.Duration) *Guard {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Guard{clock: clock, interval: interval}
}

// Allow reports whether a tap happening now should be handled.
func (g *Guard) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if !g.last.IsZero() && now.Sub(g.last) <= g.interval {
		return false
	}
	g.last = now
	return true
}
