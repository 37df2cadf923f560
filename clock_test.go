package monipoll

import (
	"testing"
	"time"
)

var testStart = time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC)

func TestClockTickOnlyWhileRunning(t *testing.T) {
	c := NewClock(testStart, 1, time.Hour)
	if c.Tick() {
		t.Fatal("stopped clock must not advance")
	}
	c.SetRunning(true)
	if !c.Tick() || c.Hour() != 1 {
		t.Errorf("expected hour 1, got %d", c.Hour())
	}
}

func TestClockStopsAtEnd(t *testing.T) {
	c := NewClock(testStart, 1, time.Hour)
	c.SetRunning(true)
	ticks := 0
	for c.Tick() {
		ticks++
		if ticks > 100 {
			t.Fatal("clock never stopped")
		}
	}
	if ticks != 23 {
		t.Errorf("ticks = %d, want 23", ticks)
	}
	if c.Running() {
		t.Error("expected clock to stop")
	}
	if !c.Now().Equal(testStart.Add(23 * time.Hour)) {
		t.Errorf("now = %v, want the last time before the end", c.Now())
	}
}

func TestClockZeroDays(t *testing.T) {
	c := NewClock(testStart, 0, time.Hour)
	c.SetRunning(true)
	if c.Tick() || c.Running() {
		t.Error("zero day clock must stop on the first tick")
	}
}

func TestClockNight(t *testing.T) {
	cases := map[int]bool{0: true, 5: true, 6: false, 12: false, 21: false, 22: true, 23: true}
	c := NewClock(testStart, 1, time.Hour)
	for h, want := range cases {
		c.Set(testStart.Add(time.Duration(h) * time.Hour))
		if c.Night() != want {
			t.Errorf("hour %d: night = %v, want %v", h, c.Night(), want)
		}
	}
}

func TestClockReset(t *testing.T) {
	c := NewClock(testStart, 3, time.Hour)
	c.SetRunning(true)
	c.Tick()
	c.Tick()
	c.Reset(1)
	if c.Running() || !c.Now().Equal(testStart) || c.Days() != 1 {
		t.Errorf("unexpected state after reset: running=%v now=%v days=%d", c.Running(), c.Now(), c.Days())
	}
}
