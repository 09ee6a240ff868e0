package v1

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

// Session owns the dispatcher loop for a headless test run. It starts a
// dedicated OS-thread-locked goroutine, installs the headless backend and a
// virtual clock there, and services closures posted through Dispatch. All
// pacing calls made inside Dispatch therefore run on the dispatcher's
// owning goroutine and pass the affinity check.
type Session struct {
	dispatcher *Dispatcher
	virtual    *VirtualClock
	work       chan func()
	done       chan struct{}
	closeOnce  sync.Once
}

// StartSession boots a headless session with the given render frame rate.
// The session's dispatcher starts with a virtual clock seeded from the
// current wall time, so PulseTime works immediately.
func StartSession(fps float64) (*Session, error) {
	s := &Session{
		work: make(chan func()),
		done: make(chan struct{}),
	}
	ready := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if _, err := UseHeadless(fps); err != nil {
			ready <- err
			return
		}
		// Session-local clock keeps provider nesting isolated from any
		// other dispatcher in the process.
		s.dispatcher = NewDispatcherWithClock(NewClock())
		s.virtual = NewVirtualClock(time.Now())
		if err := s.dispatcher.SetTimeProvider(s.virtual); err != nil {
			ready <- err
			return
		}
		Log(LogTypeSession, "Session started", "")
		ready <- nil

		for {
			select {
			case fn := <-s.work:
				fn()
			case <-s.done:
				Log(LogTypeSession, "Session closed", "")
				return
			}
		}
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return s, nil
}

// Dispatch marshals fn onto the session's dispatcher goroutine and waits
// for it to finish, returning whatever fn returns. Fails once the session
// is closed.
func (s *Session) Dispatch(fn func(d *Dispatcher) error) error {
	errc := make(chan error, 1)
	select {
	case s.work <- func() { errc <- fn(s.dispatcher) }:
	case <-s.done:
		return errors.New("session is closed")
	}
	return <-errc
}

// Close stops the session's dispatcher loop. Closures already dispatched
// finish; later Dispatch calls fail.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
