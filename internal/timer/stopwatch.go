// Package timer provides the stopwatch behind live session recording.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	Started
	Stopped
)

func (s State) String() string {
	switch s {
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Clock returns the current time.
type Clock func() time.Time

// Snapshot is the observable state of a stopwatch.
type Snapshot struct {
	State   State
	Elapsed time.Duration
}

// Seconds is the elapsed time truncated to whole seconds.
func (s Snapshot) Seconds() int64 {
	return int64(s.Elapsed / time.Second)
}

// Stopwatch accumulates elapsed time across Start/Stop cycles until it is
// cancelled. It is safe for concurrent use.
type Stopwatch struct {
	mu          sync.Mutex
	now         Clock
	state       State
	startedAt   time.Time
	accumulated time.Duration
}

// New returns an idle stopwatch. A nil clock uses time.Now.
func New(clock Clock) *Stopwatch {
	if clock == nil {
		clock = time.Now
	}
	return &Stopwatch{now: clock}
}

// Start begins or resumes timing. Starting a running stopwatch is a no-op.
func (w *Stopwatch) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Started {
		return
	}
	w.startedAt = w.now()
	w.state = Started
}

// Stop pauses timing and keeps the elapsed time.
func (w *Stopwatch) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Started {
		return
	}
	w.accumulated += w.now().Sub(w.startedAt)
	w.state = Stopped
}

// Cancel resets to Idle with nothing elapsed.
func (w *Stopwatch) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = Idle
	w.accumulated = 0
	w.startedAt = time.Time{}
}

func (w *Stopwatch) Elapsed() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elapsedLocked()
}

func (w *Stopwatch) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{State: w.state, Elapsed: w.elapsedLocked()}
}

func (w *Stopwatch) elapsedLocked() time.Duration {
	d := w.accumulated
	if w.state == Started {
		d += w.now().Sub(w.startedAt)
	}
	return d
}

// Tick emits the elapsed time every interval while the stopwatch is
// started. Ticks the reader has not consumed are skipped. The channel
// closes when ctx is done.
func (w *Stopwatch) Tick(ctx context.Context, interval time.Duration) <-chan time.Duration {
	out := make(chan time.Duration, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := w.Snapshot()
				if snap.State != Started {
					continue
				}
				select {
				case out <- snap.Elapsed:
				default:
				}
			}
		}
	}()
	return out
}

// Format renders d as HH:MM:SS.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
