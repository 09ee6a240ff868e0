package v1

import "sync"

// Backend identifies the active windowing/timer implementation.
type Backend string

const (
	// BackendNone means no backend has been installed yet.
	BackendNone Backend = "none"
	// BackendHeadless is the software-only backend used for automation
	// and testing. Pacing operations require it.
	BackendHeadless Backend = "headless"
	// BackendDesktop is a real windowing backend.
	BackendDesktop Backend = "desktop"
)

// The platform registry is the pacing layer's view of the toolkit's
// service locator: the active backend plus the render timer it provides.
var (
	platformMu        sync.Mutex
	activeBackend     = BackendNone
	activeRenderTimer RenderTimer
)

// UseHeadless installs the headless backend together with a manually
// pulsed render timer at the given frame rate. Returns the timer so tests
// can subscribe to ticks directly.
func UseHeadless(fps float64) (*HeadlessRenderTimer, error) {
	t, err := NewHeadlessRenderTimer(fps)
	if err != nil {
		return nil, err
	}
	platformMu.Lock()
	defer platformMu.Unlock()
	activeBackend = BackendHeadless
	activeRenderTimer = t
	Logf(LogTypeSession, "Headless backend active (%g FPS)", fps)
	return t, nil
}

// UseBackend installs an arbitrary backend/render timer pair. Real
// windowing integrations register themselves through this.
func UseBackend(b Backend, t RenderTimer) {
	platformMu.Lock()
	defer platformMu.Unlock()
	activeBackend = b
	activeRenderTimer = t
	Logf(LogTypeSession, "Backend set to %s", b)
}

// ActiveBackend returns the currently installed backend.
func ActiveBackend() Backend {
	platformMu.Lock()
	defer platformMu.Unlock()
	return activeBackend
}

// ActiveRenderTimer returns the render timer of the installed backend, or
// nil when no backend is active.
func ActiveRenderTimer() RenderTimer {
	platformMu.Lock()
	defer platformMu.Unlock()
	return activeRenderTimer
}
