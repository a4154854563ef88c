// Package countdown implements the resend cooldown used by the register screen.
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultTotal    = 60 * time.Second
	DefaultInterval = time.Second
)

// Countdown is a single repeating ticker that reports the remaining time until
// it reaches zero. Starting it again cancels the previous run.
type Countdown struct {
	clock    clockwork.Clock
	total    time.Duration
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// New creates a countdown. Zero durations fall back to the defaults.
func New(clock clockwork.Clock, total, interval time.Duration) *Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if total <= 0 {
		total = DefaultTotal
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Countdown{clock: clock, total: total, interval: interval}
}

// Total is the configured countdown length.
func (c *Countdown) Total() time.Duration {
	return c.total
}

// Start begins a new run. onTick receives the remaining time right away and
// after every interval; onFinish runs once when the remaining time reaches
// zero. Neither runs after ctx is done or after Stop/Start replaced this run.
func (c *Countdown) Start(ctx context.Context, onTick func(remaining time.Duration), onFinish func()) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	deadline := c.clock.Now().Add(c.total)
	ticker := c.clock.NewTicker(c.interval)
	c.mu.Unlock()

	if onTick != nil {
		onTick(c.total)
	}

	go func() {
		defer ticker.Stop()
		defer c.release(gen)

		for {
			select {
			case <-runCtx.Done():
				return
			case now := <-ticker.Chan():
				if runCtx.Err() != nil {
					return
				}
				remaining := deadline.Sub(now)
				if remaining <= 0 {
					if onFinish != nil {
						onFinish()
					}
					return
				}
				if onTick != nil {
					onTick(remaining)
				}
			}
		}
	}()
}

// Stop cancels the current run, if any.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Running reports whether a run is in progress.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

func (c *Countdown) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Seconds renders a remaining duration the way the resend label shows it.
func Seconds(remaining time.Duration) int {
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Second)
}
