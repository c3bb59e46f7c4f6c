package timer

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestStopwatch_Lifecycle(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	w := New(clk.now)

	if got := w.Snapshot(); got.State != Idle || got.Elapsed != 0 {
		t.Fatalf("new stopwatch = %+v, want idle/0", got)
	}

	w.Start()
	clk.advance(90 * time.Second)
	if got := w.Elapsed(); got != 90*time.Second {
		t.Fatalf("Elapsed = %v, want 90s", got)
	}

	w.Stop()
	clk.advance(time.Hour)
	if got := w.Snapshot(); got.State != Stopped || got.Elapsed != 90*time.Second {
		t.Fatalf("paused = %+v, want stopped/90s", got)
	}

	w.Start()
	clk.advance(30 * time.Second)
	if got := w.Snapshot().Seconds(); got != 120 {
		t.Fatalf("Seconds = %d, want 120", got)
	}

	w.Cancel()
	if got := w.Snapshot(); got.State != Idle || got.Elapsed != 0 {
		t.Fatalf("cancelled = %+v, want idle/0", got)
	}
}

func TestStopwatch_RepeatedCallsAreNoOps(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	w := New(clk.now)

	w.Stop()
	if w.Snapshot().State != Idle {
		t.Fatal("Stop on idle stopwatch should stay idle")
	}

	w.Start()
	clk.advance(10 * time.Second)
	w.Start()
	clk.advance(10 * time.Second)
	if got := w.Elapsed(); got != 20*time.Second {
		t.Fatalf("Elapsed = %v, want 20s", got)
	}
}

func TestStopwatch_TickOnlyWhileStarted(t *testing.T) {
	w := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	ticks := w.Tick(ctx, 5*time.Millisecond)

	select {
	case d := <-ticks:
		t.Fatalf("unexpected tick %v while idle", d)
	case <-time.After(30 * time.Millisecond):
	}

	w.Start()
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick while started")
	}

	cancel()
	for range ticks {
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Minute, "01:01:00"},
		{25*time.Hour + 1500*time.Millisecond, "25:00:01"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestState_String(t *testing.T) {
	if Idle.String() != "idle" || Started.String() != "started" || Stopped.String() != "stopped" {
		t.Fatal("unexpected state names")
	}
}
