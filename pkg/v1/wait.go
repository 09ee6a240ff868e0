package v1

import (
	"fmt"
	"time"
)

// WaitUntil advances virtual time in step increments until cond returns
// true or timeout of virtual time has elapsed. Between pulses every job
// that falls due runs, so conditions driven by dispatcher timers make
// progress. No wall-clock time passes.
//
// The condition is checked once before any time advances, so an
// already-true condition consumes no virtual time.
func (d *Dispatcher) WaitUntil(cond func() bool, step, timeout time.Duration) error {
	if err := d.guard(); err != nil {
		return err
	}
	if step <= 0 {
		return fmt.Errorf("%w: wait step must be positive, got %s", ErrInvalidArgument, step)
	}
	if timeout < 0 {
		return fmt.Errorf("%w: negative wait timeout %s", ErrInvalidArgument, timeout)
	}
	if err := d.Idle(); err != nil {
		return err
	}

	deadline := d.clock.Now().Add(timeout)
	for !cond() {
		if !d.clock.Now().Before(deadline) {
			Logf(LogTypeExpect, "Condition not met within %s of virtual time", timeout)
			return fmt.Errorf("condition not met within %s of virtual time", timeout)
		}
		if err := d.PulseTime(step); err != nil {
			return err
		}
	}
	return nil
}
