package v1

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/petermattis/goid"
)

// Job is a deferred unit of work with a due time. A job is eligible to run
// once its due time is at or before the current virtual time. Eligible jobs
// run in due order; jobs sharing a due time run in the order they were
// posted.
type Job struct {
	fn  func()
	due time.Time
	seq uint64
}

// jobQueue is a min-heap ordered by due time, then posting order.
type jobQueue []*Job

func (q jobQueue) Len() int { return len(q) }

func (q jobQueue) Less(i, j int) bool {
	if !q[i].due.Equal(q[j].due) {
		return q[i].due.Before(q[j].due)
	}
	return q[i].seq < q[j].seq
}

func (q jobQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *jobQueue) Push(x any) { *q = append(*q, x.(*Job)) }

func (q *jobQueue) Pop() any {
	old := *q
	n := len(old)
	job := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return job
}

// Dispatcher is the single-goroutine cooperative scheduler for a UI loop.
// All state is owned exclusively by the goroutine that created the
// dispatcher; calls from any other goroutine are rejected rather than
// synchronized, so no locking is needed.
//
// Pacing (Idle, PulseTime, PulseRenderFrames, SetTimeProvider) additionally
// requires the headless backend; a dispatcher running against a real
// windowing backend refuses those operations.
type Dispatcher struct {
	owner  int64
	clock  *Clock
	queue  jobQueue
	frames []*Frame
	seq    uint64
}

// NewDispatcher creates a dispatcher owned by the calling goroutine,
// bound to the process-wide clock.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithClock(CurrentClock())
}

// NewDispatcherWithClock creates a dispatcher bound to an explicit clock.
// Sessions and tests use this to keep their time-provider stacks isolated.
func NewDispatcherWithClock(c *Clock) *Dispatcher {
	return &Dispatcher{owner: goid.Get(), clock: c}
}

// Clock returns the clock this dispatcher schedules against.
func (d *Dispatcher) Clock() *Clock {
	return d.clock
}

// Now returns the dispatcher's current (possibly virtual) time.
func (d *Dispatcher) Now() time.Time {
	return d.clock.Now()
}

// PendingJobs returns the number of queued jobs, due or not.
// Owner-goroutine only.
func (d *Dispatcher) PendingJobs() int {
	return len(d.queue)
}

// VerifyAccess returns ErrNotOwner when called from a goroutine other than
// the one that created the dispatcher.
func (d *Dispatcher) VerifyAccess() error {
	if id := goid.Get(); id != d.owner {
		return fmt.Errorf("%w (owner %d, caller %d)", ErrNotOwner, d.owner, id)
	}
	return nil
}

// guard runs the checks shared by every pacing operation: owning-goroutine
// affinity, then headless backend. No state is mutated when either fails.
func (d *Dispatcher) guard() error {
	if err := d.VerifyAccess(); err != nil {
		return err
	}
	if b := ActiveBackend(); b != BackendHeadless {
		return fmt.Errorf("%w (active backend %q)", ErrNotHeadless, b)
	}
	return nil
}

// Post enqueues fn to run on the next drain.
func (d *Dispatcher) Post(fn func()) error {
	return d.PostDelayed(fn, 0)
}

// PostDelayed enqueues fn to run once delay of virtual time has elapsed.
func (d *Dispatcher) PostDelayed(fn func(), delay time.Duration) error {
	if err := d.VerifyAccess(); err != nil {
		return err
	}
	if delay < 0 {
		return fmt.Errorf("%w: negative delay %s", ErrInvalidArgument, delay)
	}
	d.seq++
	heap.Push(&d.queue, &Job{fn: fn, due: d.clock.Now().Add(delay), seq: d.seq})
	return nil
}

// Idle runs every currently-schedulable job to completion, including
// timer jobs whose due time has already elapsed, then returns.
//
// A frame is pushed, a zero-delay marker job is posted that cancels the
// frame, and the queue drains in due order until the marker fires. Jobs
// posted while draining land behind the marker and wait for the next
// drain. Re-entrant calls from within a running job are permitted; nested
// frames resolve inner-to-outer.
func (d *Dispatcher) Idle() error {
	if err := d.guard(); err != nil {
		return err
	}
	frame := d.pushFrame()
	defer d.popFrame()
	if err := d.Post(frame.Cancel); err != nil {
		return err
	}
	d.drain(frame)
	return nil
}

// drain executes eligible jobs until the frame's continuation flag clears.
// The marker job posted by Idle guarantees termination: it is always
// eligible and everything ahead of it in the queue runs first.
func (d *Dispatcher) drain(f *Frame) {
	for f.Continue() {
		job, ok := d.nextEligible()
		if !ok {
			break
		}
		job.fn()
	}
}

// nextEligible pops the earliest job whose due time is at or before the
// current virtual time.
func (d *Dispatcher) nextEligible() (*Job, bool) {
	if len(d.queue) == 0 {
		return nil, false
	}
	if d.queue[0].due.After(d.clock.Now()) {
		return nil, false
	}
	return heap.Pop(&d.queue).(*Job), true
}

// PulseTime advances the virtual clock by duration, then idles. Every
// timer job falling due within the pulse fires synchronously before
// PulseTime returns; no real-world sleeping is involved.
func (d *Dispatcher) PulseTime(duration time.Duration) error {
	if err := d.guard(); err != nil {
		return err
	}
	if err := d.clock.Pulse(duration); err != nil {
		return err
	}
	return d.Idle()
}

// PulseRenderFrames issues frames render ticks, advancing virtual time by
// one frame interval (1/FPS seconds) through PulseTime after each tick.
// Zero frames is a no-op. The installed render timer must be the headless
// variant.
func (d *Dispatcher) PulseRenderFrames(frames int) error {
	if err := d.guard(); err != nil {
		return err
	}
	if frames < 0 {
		return fmt.Errorf("%w: negative frame count %d", ErrInvalidArgument, frames)
	}
	timer, ok := ActiveRenderTimer().(*HeadlessRenderTimer)
	if !ok {
		return fmt.Errorf("%w: active render timer is not the headless implementation", ErrNotHeadless)
	}
	interval := timer.FrameInterval()
	for i := 0; i < frames; i++ {
		timer.Pulse(d.clock.Now())
		if err := d.PulseTime(interval); err != nil {
			return err
		}
	}
	return nil
}

// SetTimeProvider installs p as the dispatcher's time source, remembering
// the previously active one, then idles so any consequences of the time
// jump are processed immediately. Passing nil restores the real system
// clock.
func (d *Dispatcher) SetTimeProvider(p TimeProvider) error {
	if err := d.guard(); err != nil {
		return err
	}
	d.clock.SetNested(p)
	return d.Idle()
}

// RestoreTimeProvider removes the override p installed by SetTimeProvider,
// then idles. Restores must unwind in LIFO order; an out-of-order restore
// fails and leaves the provider stack untouched.
func (d *Dispatcher) RestoreTimeProvider(p TimeProvider) error {
	if err := d.guard(); err != nil {
		return err
	}
	if err := d.clock.Restore(p); err != nil {
		return err
	}
	return d.Idle()
}
