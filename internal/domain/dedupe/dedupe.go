// Package dedupe tracks already-processed sample IDs so one biological
// sample contributes at most one row to an extracted matrix.
package dedupe

import (
	"sync"
)

// Tracker records seen sample IDs. The first file observed for a sample
// wins; later files for the same sample are reported as duplicates.
type Tracker interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(id string) bool

	// Unrecord removes an ID, allowing the sample to be processed again.
	// Used when a sample was claimed but its file turned out unreadable.
	Unrecord(id string)

	Size() int
}

type inMemoryTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
}

// NewInMemoryTracker creates a tracker with configuration options. With a
// positive max size the oldest recorded IDs are evicted first.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		seen: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *inMemoryTracker) SeenAndRecord(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return true
	}

	if t.maxSize > 0 && len(t.seen) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.seen, oldest)
	}

	t.seen[id] = struct{}{}
	if t.maxSize > 0 {
		t.order = append(t.order, id)
	}
	return false
}

func (t *inMemoryTracker) Unrecord(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; !ok {
		return
	}
	delete(t.seen, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *inMemoryTracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
