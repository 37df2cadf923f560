package monipoll

import "time"

// Clock is the simulated time source. It only moves while running and stops
// on its own once the configured number of days has passed.
type Clock struct {
	start   time.Time
	days    int
	step    time.Duration
	now     time.Time
	running bool
}

// NewClock starts stopped at start. Every Tick adds step to simulated time.
func NewClock(start time.Time, days int, step time.Duration) *Clock {
	if step <= 0 {
		step = time.Hour
	}
	if days < 0 {
		days = 0
	}
	return &Clock{start: start, days: days, step: step, now: start}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time { return c.now }

// Start returns the configured start time.
func (c *Clock) Start() time.Time { return c.start }

// Days returns the configured run length.
func (c *Clock) Days() int { return c.days }

// Running reports whether the clock advances on Tick.
func (c *Clock) Running() bool { return c.running }

// End is the simulated time at which the clock stops by itself.
func (c *Clock) End() time.Time {
	return c.start.Add(time.Duration(c.days) * 24 * time.Hour)
}

// Hour is the simulated hour of day, 0-23.
func (c *Clock) Hour() int { return c.now.Hour() }

// Night reports whether the simulated time is between 22:00 and 06:00.
func (c *Clock) Night() bool { return IsNight(c.now) }

// IsNight reports whether t is between 22:00 and 06:00.
func IsNight(t time.Time) bool {
	h := t.Hour()
	return h >= 22 || h < 6
}

// SetRunning starts or stops the clock.
func (c *Clock) SetRunning(running bool) { c.running = running }

// SetDays changes the run length. Negative values are treated as 0.
func (c *Clock) SetDays(days int) {
	if days < 0 {
		days = 0
	}
	c.days = days
}

// Set moves simulated time to t without touching the running state.
func (c *Clock) Set(t time.Time) { c.now = t }

// Reset returns to the start time with days and stops the clock.
func (c *Clock) Reset(days int) {
	c.now = c.start
	c.SetDays(days)
	c.running = false
}

// Tick advances simulated time by one step. When the next step would reach
// the end the clock stops and keeps its current time. It reports whether
// time moved.
func (c *Clock) Tick() bool {
	if !c.running {
		return false
	}
	next := c.now.Add(c.step)
	if !next.Before(c.End()) {
		c.running = false
		return false
	}
	c.now = next
	return true
}
