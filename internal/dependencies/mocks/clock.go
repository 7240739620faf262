package mocks

import (
	"sort"
	"time"

	"github.com/mcoot/gamenight-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Timers scheduled
// via AfterFunc fire synchronously from Advance when their deadline passes.
type MockClock struct {
	CurrentTime time.Time
	timers      []*MockTimer
	tickers     []*MockTicker
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// AfterFunc schedules fn to fire when the clock is advanced past d
func (c *MockClock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	t := &MockTimer{Deadline: c.CurrentTime.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// NewTicker returns a manually driven ticker; use its Tick method
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	t := &MockTicker{Period: d, ch: make(chan time.Time, 16)}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock forward and fires any due timers in deadline order
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)

	due := make([]*MockTimer, 0, len(c.timers))
	remaining := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.Deadline.After(c.CurrentTime) {
			due = append(due, t)
		} else if !t.stopped {
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining

	sort.Slice(due, func(i, j int) bool { return due[i].Deadline.Before(due[j].Deadline) })
	for _, t := range due {
		t.fired = true
		t.fn()
	}
}

// Set sets the clock to the given time without firing timers
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}

// PendingTimers returns the count of scheduled, unfired, unstopped timers
func (c *MockClock) PendingTimers() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Tickers returns all tickers created so far
func (c *MockClock) Tickers() []*MockTicker {
	return c.tickers
}

// MockTimer is a timer handle scheduled on a MockClock
type MockTimer struct {
	Deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

// Stop cancels the timer; reports whether it had not yet fired
func (t *MockTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

// MockTicker is a manually driven ticker
type MockTicker struct {
	Period  time.Duration
	ch      chan time.Time
	Stopped bool
}

// C returns the tick channel
func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop marks the ticker stopped
func (t *MockTicker) Stop() {
	t.Stopped = true
}

// Tick injects one tick
func (t *MockTicker) Tick(at time.Time) {
	t.ch <- at
}
