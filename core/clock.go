package core

import "time"

// Clock is the external collaborator contract for a free-running
// monotonic clock, independent per side of the link: time.monotonic_ms()
// in the spec's external-interfaces vocabulary. The buffer manager takes
// one of these instead of calling a global so tests can inject a fake.
type Clock interface {
	// NowMS returns milliseconds since an arbitrary, clock-specific epoch.
	// Only differences between calls are meaningful.
	NowMS() uint64
}

// SystemClock is the default Clock, backed by the runtime's monotonic
// timer. It is safe to share a single SystemClock across goroutines.
type SystemClock struct{ start time.Time }

// NewSystemClock returns a Clock anchored to the moment it is created.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) NowMS() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}

// FakeClock is a manually advanced Clock for deterministic tests of
// timeout and FIFO-ordering behavior.
type FakeClock struct{ ms uint64 }

// NewFakeClock returns a FakeClock starting at time 0.
func NewFakeClock() *FakeClock { return &FakeClock{} }

func (c *FakeClock) NowMS() uint64 { return c.ms }

// Advance moves the fake clock forward by the given number of milliseconds.
func (c *FakeClock) Advance(ms uint64) { c.ms += ms }

// Set pins the fake clock to an absolute value.
func (c *FakeClock) Set(ms uint64) { c.ms = ms }
