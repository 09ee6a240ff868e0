package v1

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TimeProvider supplies the dispatcher's notion of "now".
// clockwork.Clock satisfies it, so a clockwork fake can be installed
// directly as a custom time source in tests.
type TimeProvider interface {
	Now() time.Time
}

// Advancer is implemented by time providers whose time moves only when
// explicitly advanced. Both *VirtualClock and clockwork.FakeClock qualify.
type Advancer interface {
	Advance(d time.Duration)
}

// systemProvider is the wall-clock source restored when an override is
// removed. It is the bottom of every provider stack.
var systemProvider TimeProvider = clockwork.NewRealClock()

// VirtualClock is a TimeProvider that stands still until pulsed.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewVirtualClock creates a virtual clock starting at the given instant.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the virtual time forward by d. Validation of d happens at
// the pacing surface (see Clock.Pulse); Advance itself applies any delta,
// matching clockwork's FakeClock contract.
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
