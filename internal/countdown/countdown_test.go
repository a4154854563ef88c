package countdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	ticks    []int
	finished int
}

func (r *recorder) tick(remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, Seconds(remaining))
}

func (r *recorder) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
}

func (r *recorder) lastTick() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ticks) == 0 {
		return -1
	}
	return r.ticks[len(r.ticks)-1]
}

func (r *recorder) finishedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

func TestCountdownTicksDownToFinish(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 5*time.Second, time.Second)
	rec := &recorder{}

	c.Start(context.Background(), rec.tick, rec.finish)
	assert.Equal(t, 5, rec.lastTick())
	assert.True(t, c.Running())

	for want := 4; want >= 1; want-- {
		clock.Advance(time.Second)
		require.Eventually(t, func() bool { return rec.lastTick() == want }, time.Second, time.Millisecond)
		assert.Equal(t, 0, rec.finishedCount())
	}

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return rec.finishedCount() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)
}

func TestCountdownStopPreventsFinish(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 2*time.Second, time.Second)
	rec := &recorder{}

	c.Start(context.Background(), rec.tick, rec.finish)
	c.Stop()
	assert.False(t, c.Running())

	clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.finishedCount())
}

func TestCountdownRestartReplacesPreviousRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 3*time.Second, time.Second)
	first := &recorder{}
	second := &recorder{}

	c.Start(context.Background(), first.tick, first.finish)
	c.Start(context.Background(), second.tick, second.finish)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		want := 2 - i
		if want > 0 {
			require.Eventually(t, func() bool { return second.lastTick() == want }, time.Second, time.Millisecond)
		}
	}
	require.Eventually(t, func() bool { return second.finishedCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 0, first.finishedCount())
}

func TestCountdownContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 2*time.Second, time.Second)
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	c.Start(ctx, rec.tick, rec.finish)
	cancel()
	require.Eventually(t, func() bool { return !c.Running() }, time.Second, time.Millisecond)

	clock.Advance(3 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.finishedCount())
}

func TestDefaultsAndSeconds(t *testing.T) {
	c := New(nil, 0, 0)
	assert.Equal(t, DefaultTotal, c.Total())
	assert.Equal(t, 59, Seconds(59*time.Second+900*time.Millisecond))
	assert.Equal(t, 0, Seconds(-time.Second))
}
