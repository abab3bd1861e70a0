package picker

import "sync"

// State is the observable state of a region.
type State int

const (
	// Empty means no controls are rendered.
	Empty State = iota
	// Populated means the controls of the last successful fetch are rendered.
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "empty"
}

// ListRegion is an in-memory region. The palette front-end renders from it.
type ListRegion struct {
	mu       sync.RWMutex
	controls []Control
	replaced int
}

var _ Region = (*ListRegion)(nil)

// Replace implements Region.
func (r *ListRegion) Replace(controls []Control) {
	next := make([]Control, len(controls))
	copy(next, controls)

	r.mu.Lock()
	r.controls = next
	r.replaced++
	r.mu.Unlock()
}

// Controls returns a copy of the rendered controls.
func (r *ListRegion) Controls() []Control {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Control, len(r.controls))
	copy(out, r.controls)
	return out
}

// Labels returns the rendered labels in order.
func (r *ListRegion) Labels() []string {
	controls := r.Controls()
	labels := make([]string, len(controls))
	for i, c := range controls {
		labels[i] = c.Label
	}
	return labels
}

// State reports Empty or Populated.
func (r *ListRegion) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.controls) == 0 {
		return Empty
	}
	return Populated
}

// Replacements counts successful renders. Failed fetches do not change it.
func (r *ListRegion) Replacements() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.replaced
}
