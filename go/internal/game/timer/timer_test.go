package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	ticks   []int
	expired int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnTick: func(remaining int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.ticks = append(r.ticks, remaining)
		},
		OnExpire: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.expired++
		},
	}
}

func (r *recorder) tickCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

func (r *recorder) snapshot() ([]int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...), r.expired
}

// advanceSecond moves the fake clock one tick and waits until the tick has been handled.
func advanceSecond(t *testing.T, clock *clockwork.FakeClock, rec *recorder) {
	t.Helper()
	want := rec.tickCount() + 1
	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return rec.tickCount() == want }, time.Second, time.Millisecond)
}

func TestTimer_CountsDownAndExpiresOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	tm := New(clock, rec.callbacks())

	tm.Start(3)
	assert.Equal(t, StateRunning, tm.State())
	assert.Equal(t, 3, tm.Remaining())

	advanceSecond(t, clock, rec)
	advanceSecond(t, clock, rec)
	assert.Equal(t, 1, tm.Remaining())

	advanceSecond(t, clock, rec)
	require.Eventually(t, func() bool {
		_, expired := rec.snapshot()
		return expired == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, StateStopped, tm.State())
	assert.Equal(t, 0, tm.Remaining())

	clock.Advance(5 * time.Second)
	assert.Never(t, func() bool {
		ticks, expired := rec.snapshot()
		return len(ticks) != 3 || expired != 1
	}, 50*time.Millisecond, 5*time.Millisecond)

	ticks, _ := rec.snapshot()
	assert.Equal(t, []int{2, 1, 0}, ticks)
}

func TestTimer_PauseKeepsRemaining(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	tm := New(clock, rec.callbacks())

	tm.Start(10)
	advanceSecond(t, clock, rec)

	tm.Pause()
	tm.Pause()
	assert.Equal(t, StatePaused, tm.State())
	assert.Equal(t, 9, tm.Remaining())

	clock.Advance(3 * time.Second)
	assert.Never(t, func() bool { return rec.tickCount() != 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, 9, tm.Remaining())

	tm.Resume()
	assert.Equal(t, StateRunning, tm.State())
	advanceSecond(t, clock, rec)
	assert.Equal(t, 8, tm.Remaining())
}

func TestTimer_ResumeOnlyFromPaused(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock, Callbacks{})

	tm.Resume()
	assert.Equal(t, StateStopped, tm.State())

	tm.Start(5)
	tm.Stop()
	tm.Resume()
	assert.Equal(t, StateStopped, tm.State())
	tm.Pause()
	assert.Equal(t, StateStopped, tm.State())
}

func TestTimer_RestartCancelsPreviousTicker(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	tm := New(clock, rec.callbacks())

	tm.Start(5)
	advanceSecond(t, clock, rec)

	tm.Start(2)
	assert.Equal(t, 2, tm.Remaining())

	advanceSecond(t, clock, rec)
	advanceSecond(t, clock, rec)

	require.Eventually(t, func() bool {
		_, expired := rec.snapshot()
		return expired == 1
	}, time.Second, time.Millisecond)

	clock.Advance(5 * time.Second)
	assert.Never(t, func() bool {
		_, expired := rec.snapshot()
		return expired != 1
	}, 50*time.Millisecond, 5*time.Millisecond)

	ticks, _ := rec.snapshot()
	assert.Equal(t, []int{4, 1, 0}, ticks)
}

func TestTimer_StopSuppressesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	tm := New(clock, rec.callbacks())

	tm.Start(1)
	tm.Stop()
	clock.Advance(2 * time.Second)

	assert.Never(t, func() bool {
		ticks, expired := rec.snapshot()
		return len(ticks) > 0 || expired > 0
	}, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, StateStopped, tm.State())
	assert.Equal(t, 1, tm.Remaining())
}

func TestTimer_StartWithZeroDoesNotRun(t *testing.T) {
	tm := New(clockwork.NewFakeClock(), Callbacks{})
	tm.Start(0)
	assert.Equal(t, StateStopped, tm.State())
	assert.Equal(t, 0, tm.Remaining())
}
