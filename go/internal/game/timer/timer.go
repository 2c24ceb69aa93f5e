package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// State is the countdown's lifecycle state.
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

const tickInterval = time.Second

// Callbacks receive countdown notifications. They run on the tick goroutine
// with no timer lock held, so they may call back into the Timer.
type Callbacks struct {
	OnTick   func(remaining int)
	OnExpire func()
}

// Timer is a one-second countdown with pause and resume.
// Only one tick source is ever live: starting or resuming cancels the previous one.
type Timer struct {
	clock     clockwork.Clock
	callbacks Callbacks

	mu        sync.Mutex
	state     State
	remaining int
	gen       uint64
	done      chan struct{}
}

func New(clock clockwork.Clock, callbacks Callbacks) *Timer {
	return &Timer{
		clock:     clock,
		callbacks: callbacks,
		state:     StateStopped,
	}
}

// Start begins counting down from seconds, replacing any countdown in progress.
func (t *Timer) Start(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.remaining = seconds
	if seconds <= 0 {
		t.state = StateStopped
		return
	}
	t.state = StateRunning
	t.launchLocked()
}

// Pause freezes the countdown, keeping the remaining time. Pausing twice is harmless.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return
	}
	t.cancelLocked()
	t.state = StatePaused
}

// Resume continues a paused countdown. It does nothing in any other state.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePaused {
		return
	}
	t.state = StateRunning
	t.launchLocked()
}

// Stop ends the countdown without firing OnExpire.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.state = StateStopped
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) launchLocked() {
	t.gen++
	gen := t.gen
	done := make(chan struct{})
	t.done = done

	ticker := t.clock.NewTicker(tickInterval)
	go t.run(ticker, done, gen)
}

func (t *Timer) cancelLocked() {
	t.gen++
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}

func (t *Timer) run(ticker clockwork.Ticker, done <-chan struct{}, gen uint64) {
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			if !t.tick(gen) {
				return
			}
		}
	}
}

// tick applies one second and reports whether the ticker should keep running.
func (t *Timer) tick(gen uint64) bool {
	t.mu.Lock()
	if gen != t.gen || t.state != StateRunning {
		t.mu.Unlock()
		return false
	}

	t.remaining--
	remaining := t.remaining
	expired := remaining <= 0
	if expired {
		t.remaining = 0
		remaining = 0
		t.state = StateStopped
		t.gen++
		t.done = nil
	}
	t.mu.Unlock()

	if t.callbacks.OnTick != nil {
		t.callbacks.OnTick(remaining)
	}
	if expired && t.callbacks.OnExpire != nil {
		t.callbacks.OnExpire()
	}
	return !expired
}
