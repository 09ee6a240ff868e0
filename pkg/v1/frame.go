package v1

// Frame is a scoped stop marker for a nested drain of the job queue. The
// dispatcher keeps an explicit stack of frames; each frame owns its own
// continuation flag, so nested drain loops never lose an outer caller's
// stopping condition.
type Frame struct {
	active bool
}

// Continue reports whether the drain loop owning this frame should keep
// running jobs.
func (f *Frame) Continue() bool {
	return f.active
}

// Cancel clears the continuation flag, returning control to whoever
// pushed the frame once the current job finishes.
func (f *Frame) Cancel() {
	f.active = false
}

// pushFrame puts a fresh frame on the dispatcher's frame stack.
// Owner-goroutine only; callers have already verified access.
func (d *Dispatcher) pushFrame() *Frame {
	f := &Frame{active: true}
	d.frames = append(d.frames, f)
	return f
}

// popFrame removes the innermost frame. The frame being popped must be the
// innermost one; the drain loop guarantees this by construction.
func (d *Dispatcher) popFrame() {
	d.frames = d.frames[:len(d.frames)-1]
}

// Draining reports whether the dispatcher is currently inside a drain loop.
func (d *Dispatcher) Draining() bool {
	return len(d.frames) > 0
}
