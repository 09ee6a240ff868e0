package v1

import (
	"fmt"
	"sync"
	"time"
)

// RenderTimer is the per-frame tick source consumed by the rendering
// pipeline. The headless implementation is pulsed manually by the
// dispatcher; real windowing backends drive theirs from vsync or a ticker.
type RenderTimer interface {
	// FramesPerSecond returns the configured tick rate. Always positive.
	FramesPerSecond() float64
	// Subscribe registers fn to be called on every tick with the tick's
	// timestamp. The returned function cancels the subscription.
	Subscribe(fn func(now time.Time)) (cancel func())
}

// HeadlessRenderTimer is a RenderTimer with no hardware tick source.
// Frames are issued one at a time through Pulse, and every subscriber is
// notified synchronously inside the pulsing call stack. Missed frames are
// never buffered: pulsing N frames issues exactly N notifications.
type HeadlessRenderTimer struct {
	fps float64

	mu   sync.Mutex
	subs map[int]func(time.Time)
	next int
}

// NewHeadlessRenderTimer creates a manually pulsed render timer.
func NewHeadlessRenderTimer(fps float64) (*HeadlessRenderTimer, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: frames per second must be positive, got %g", ErrInvalidArgument, fps)
	}
	return &HeadlessRenderTimer{fps: fps, subs: make(map[int]func(time.Time))}, nil
}

// FramesPerSecond returns the configured tick rate.
func (t *HeadlessRenderTimer) FramesPerSecond() float64 {
	return t.fps
}

// FrameInterval returns the virtual-time duration of a single frame.
func (t *HeadlessRenderTimer) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / t.fps)
}

// Subscribe registers fn for per-tick notification.
func (t *HeadlessRenderTimer) Subscribe(fn func(now time.Time)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.next
	t.next++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// Pulse issues a single tick, invoking every subscriber synchronously.
func (t *HeadlessRenderTimer) Pulse(now time.Time) {
	t.mu.Lock()
	fns := make([]func(time.Time), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(now)
	}
}

// TickerRenderTimer is the real-time RenderTimer variant, driven by a
// time.Ticker instead of manual pulses. It backs non-headless runs of the
// example app and the mode-guard tests.
type TickerRenderTimer struct {
	fps    float64
	ticker *time.Ticker
	stop   chan struct{}

	mu   sync.Mutex
	subs map[int]func(time.Time)
	next int
}

// NewTickerRenderTimer creates a stopped ticker-backed render timer.
func NewTickerRenderTimer(fps float64) (*TickerRenderTimer, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: frames per second must be positive, got %g", ErrInvalidArgument, fps)
	}
	return &TickerRenderTimer{fps: fps, subs: make(map[int]func(time.Time))}, nil
}

// FramesPerSecond returns the configured tick rate.
func (t *TickerRenderTimer) FramesPerSecond() float64 {
	return t.fps
}

// Subscribe registers fn for per-tick notification.
func (t *TickerRenderTimer) Subscribe(fn func(now time.Time)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.next
	t.next++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// Start begins ticking at the configured rate. Notifications run on the
// timer's own goroutine until Stop is called.
func (t *TickerRenderTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker != nil {
		return
	}
	t.ticker = time.NewTicker(time.Duration(float64(time.Second) / t.fps))
	t.stop = make(chan struct{})
	go func(ticker *time.Ticker, stop chan struct{}) {
		for {
			select {
			case now := <-ticker.C:
				t.mu.Lock()
				fns := make([]func(time.Time), 0, len(t.subs))
				for _, fn := range t.subs {
					fns = append(fns, fn)
				}
				t.mu.Unlock()
				for _, fn := range fns {
					fn(now)
				}
			case <-stop:
				return
			}
		}
	}(t.ticker, t.stop)
}

// Stop halts ticking. Safe to call on a timer that was never started.
func (t *TickerRenderTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.stop)
	t.ticker = nil
}
