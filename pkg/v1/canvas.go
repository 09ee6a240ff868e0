package v1

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// CanvasRefresher repaints tracked canvas objects on every render tick, so
// widget state mutated by dispatcher jobs becomes visible to headless
// canvas assertions without a real rendering loop.
type CanvasRefresher struct {
	mu      sync.Mutex
	objects []fyne.CanvasObject
	cancel  func()
}

// NewCanvasRefresher subscribes a refresher to the given render timer.
func NewCanvasRefresher(timer RenderTimer) *CanvasRefresher {
	r := &CanvasRefresher{}
	r.cancel = timer.Subscribe(r.onTick)
	return r
}

// Track adds obj to the set repainted on each render tick.
func (r *CanvasRefresher) Track(obj fyne.CanvasObject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = append(r.objects, obj)
}

// Detach unsubscribes the refresher from its render timer.
func (r *CanvasRefresher) Detach() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *CanvasRefresher) onTick(_ time.Time) {
	r.mu.Lock()
	objs := make([]fyne.CanvasObject, len(r.objects))
	copy(objs, r.objects)
	r.mu.Unlock()

	for _, obj := range objs {
		obj.Refresh()
	}
}
