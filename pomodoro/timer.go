// Package pomodoro implements the work/break interval timer. The
// authoritative quantity is an absolute end time; the periodic tick
// only recomputes remaining time and repaints, so missed ticks cannot
// cause drift.
package pomodoro

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/types"
)

// State is the timer phase.
type State string

const (
	StateIdle       State = "idle"
	StateWorking    State = "working"
	StateShortBreak State = "shortBreak"
	StateLongBreak  State = "longBreak"
	StatePaused     State = "paused"
)

// Status is delivered to the status callback on every tick and on every
// state transition.
type Status struct {
	State            State
	RemainingSeconds int
	CompletedCount   int
	// CurrentTask is a non-owning reference used for display only.
	CurrentTask *models.Task
}

// Callbacks notify the consumer of timer activity. Nil funcs are
// skipped. OnWorkEnd fires when a work period expires, before the break
// starts; OnBreakEnd fires when a break expires and the consumer should
// offer task re-selection. OnStatus is invoked with the timer lock held
// and must not call back into the Timer.
type Callbacks struct {
	OnStatus   func(Status)
	OnWorkEnd  func(completed int)
	OnBreakEnd func()
}

// Timer is the single process-wide interval timer.
type Timer struct {
	cfg       types.PomodoroConfig
	callbacks Callbacks
	now       func() time.Time

	mu        sync.Mutex
	state     State
	endTime   time.Time
	remaining time.Duration // meaningful only while paused
	pausedIn  State         // phase to resume into
	completed int
	current   *models.Task
	stop      chan struct{}
}

// NewTimer creates an idle timer. now is injectable for tests; nil
// selects the wall clock. An interval below 1 is raised to 1 so the
// long-break modulo is always defined, even for a zero-value config.
func NewTimer(cfg types.PomodoroConfig, callbacks Callbacks, now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	if cfg.LongBreakInterval < 1 {
		cfg.LongBreakInterval = 1
	}
	return &Timer{cfg: cfg, callbacks: callbacks, now: now, state: StateIdle}
}

// Start begins a work period, optionally bound to a task for display
// and progress checkpointing. Any running period is replaced.
func (t *Timer) Start(task *models.Task) {
	t.mu.Lock()
	t.current = task
	t.beginLocked(StateWorking, t.workDuration())
	t.mu.Unlock()
}

// Pause captures the remaining duration and clears the end time. Only a
// running work or break period can be paused.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case StateWorking, StateShortBreak, StateLongBreak:
	default:
		return
	}
	t.stopTickerLocked()
	t.remaining = t.endTime.Sub(t.now())
	if t.remaining < 0 {
		t.remaining = 0
	}
	t.pausedIn = t.state
	t.state = StatePaused
	t.endTime = time.Time{}
	t.emitLocked()
}

// Resume recomputes the end time from the captured remaining duration.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePaused || t.remaining <= 0 {
		return
	}
	t.beginLocked(t.pausedIn, t.remaining)
}

// Reset returns the timer to idle, clearing the current task and the
// completed-period counter.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTickerLocked()
	t.state = StateIdle
	t.endTime = time.Time{}
	t.remaining = 0
	t.completed = 0
	t.current = nil
	t.emitLocked()
}

// Status reports the current phase and remaining time.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

// CurrentTask returns the task bound to the running session, if any.
func (t *Timer) CurrentTask() *models.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// beginLocked enters a phase with the given length and (re)starts the
// tick loop.
func (t *Timer) beginLocked(state State, length time.Duration) {
	t.stopTickerLocked()
	t.state = state
	t.remaining = 0
	t.endTime = t.now().Add(length)
	t.stop = make(chan struct{})
	go t.run(t.stop)
	t.emitLocked()
}

// run is the repaint loop. It owns no timing state; every tick derives
// remaining time from the absolute end time.
func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.tick(stop) {
				return
			}
		}
	}
}

// tick recomputes remaining time, emits a status, and drives the phase
// transition on expiry. It reports whether the loop should exit.
func (t *Timer) tick(stop chan struct{}) bool {
	t.mu.Lock()
	if t.stop != stop {
		// A newer phase owns the loop now.
		t.mu.Unlock()
		return true
	}
	remaining := remainingSeconds(t.endTime, t.now())
	t.emitLocked()
	if remaining > 0 {
		t.mu.Unlock()
		return false
	}

	ended := t.state
	t.stopTickerLocked()
	switch ended {
	case StateWorking:
		t.completed++
		completed := t.completed
		next := StateShortBreak
		length := t.shortBreakDuration()
		if completed%t.cfg.LongBreakInterval == 0 {
			next = StateLongBreak
			length = t.longBreakDuration()
		}
		t.beginLocked(next, length)
		t.mu.Unlock()
		if t.callbacks.OnWorkEnd != nil {
			t.callbacks.OnWorkEnd(completed)
		}
	case StateShortBreak, StateLongBreak:
		t.state = StateIdle
		t.endTime = time.Time{}
		t.emitLocked()
		t.mu.Unlock()
		if t.callbacks.OnBreakEnd != nil {
			t.callbacks.OnBreakEnd()
		}
	default:
		t.mu.Unlock()
	}
	return true
}

func (t *Timer) stopTickerLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) statusLocked() Status {
	remaining := 0
	switch t.state {
	case StatePaused:
		remaining = int(math.Ceil(t.remaining.Seconds()))
	case StateWorking, StateShortBreak, StateLongBreak:
		remaining = remainingSeconds(t.endTime, t.now())
	}
	return Status{
		State:            t.state,
		RemainingSeconds: remaining,
		CompletedCount:   t.completed,
		CurrentTask:      t.current,
	}
}

func (t *Timer) emitLocked() {
	if t.callbacks.OnStatus == nil {
		return
	}
	status := t.statusLocked()
	t.callbacks.OnStatus(status)
	slog.Debug("pomodoro status", "state", status.State, "remaining", status.RemainingSeconds)
}

// remainingSeconds derives the displayed remaining time from the
// absolute end time, never from accumulated ticks.
func remainingSeconds(endTime, now time.Time) int {
	left := endTime.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

func (t *Timer) workDuration() time.Duration {
	return time.Duration(t.cfg.WorkDuration) * time.Minute
}

func (t *Timer) shortBreakDuration() time.Duration {
	return time.Duration(t.cfg.ShortBreakDuration) * time.Minute
}

func (t *Timer) longBreakDuration() time.Duration {
	return time.Duration(t.cfg.LongBreakDuration) * time.Minute
}
