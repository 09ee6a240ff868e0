package v1

import (
	"fmt"
	"sync"
	"time"
)

// Clock tracks the active time provider for a dispatcher loop. Overrides
// nest: installing a provider remembers the previously active one, and
// restoring unwinds strictly in LIFO order. The bottom of the stack is
// always the real system clock.
type Clock struct {
	mu    sync.Mutex
	stack []TimeProvider
}

// NewClock creates a clock whose active provider is the system clock.
func NewClock() *Clock {
	return &Clock{stack: []TimeProvider{systemProvider}}
}

var (
	processClock   *Clock
	processClockMu sync.Mutex
)

// CurrentClock returns the process-wide clock, creating it on first use.
// It is never reset except through explicit provider overrides.
func CurrentClock() *Clock {
	processClockMu.Lock()
	defer processClockMu.Unlock()
	if processClock == nil {
		processClock = NewClock()
	}
	return processClock
}

// Now returns the current time of the active provider.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack[len(c.stack)-1].Now()
}

// Current returns the active time provider.
func (c *Clock) Current() TimeProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack[len(c.stack)-1]
}

// SetNested pushes p as the active provider, remembering the previous one.
// Passing nil restores the real system clock by discarding every override.
func (c *Clock) SetNested(p TimeProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == nil {
		c.stack = c.stack[:1]
		Log(LogTypeClock, "Time provider restored to system clock", "")
		return
	}
	c.stack = append(c.stack, p)
	Logf(LogTypeClock, "Time provider installed (depth %d)", len(c.stack)-1)
}

// Restore removes the override p. Unwinding is strictly LIFO: restoring a
// provider that is not the innermost override fails, and restoring the
// system clock itself fails, so the stack can never be left in an
// inconsistent nested state.
func (c *Clock) Restore(p TimeProvider) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.stack) == 1 {
		return fmt.Errorf("%w: no time provider override to restore", ErrInvalidArgument)
	}
	if c.stack[len(c.stack)-1] != p {
		return fmt.Errorf("%w: out-of-order time provider restore", ErrInvalidArgument)
	}
	c.stack = c.stack[:len(c.stack)-1]
	Logf(LogTypeClock, "Time provider restored (depth %d)", len(c.stack)-1)
	return nil
}

// Pulse advances the active provider by d. The duration must be
// non-negative and the active provider must be explicitly advanceable;
// pulsing the real system clock is rejected.
func (c *Clock) Pulse(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative pulse duration %s", ErrInvalidArgument, d)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	adv, ok := c.stack[len(c.stack)-1].(Advancer)
	if !ok {
		return fmt.Errorf("%w: active time provider is not advanceable", ErrNotHeadless)
	}
	adv.Advance(d)
	return nil
}
