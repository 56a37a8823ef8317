// Package dedupe tracks recently seen keys so repeated work can be skipped.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 4096

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it
	// if not. The check and the insert are one atomic step.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so the work it guards can be attempted again.
	// Used when the work was accepted but then failed to start.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

type slot struct {
	key string
	gen uint64
}

// window is a Deduper that remembers the most recent maxSize keys. The
// oldest key is evicted first. maxSize <= 0 means unbounded.
type window struct {
	mu      sync.Mutex
	seen    map[string]uint64 // key -> generation of its live slot
	ring    []slot
	next    int
	gen     uint64
	maxSize int
}

// NewWindow creates a Deduper with configuration options.
func NewWindow(opts ...Option) Deduper {
	w := &window{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(w)
	}
	w.seen = make(map[string]uint64)
	if w.maxSize > 0 {
		w.ring = make([]slot, w.maxSize)
	}
	return w
}

func (w *window) SeenAndRecord(_ context.Context, key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.seen[key]; ok {
		return true
	}
	w.gen++
	if w.ring != nil {
		old := w.ring[w.next]
		// A slot is live only while the map still points at its generation;
		// unrecorded or re-recorded keys leave stale slots behind.
		if g, ok := w.seen[old.key]; ok && g == old.gen {
			delete(w.seen, old.key)
		}
		w.ring[w.next] = slot{key: key, gen: w.gen}
		w.next = (w.next + 1) % len(w.ring)
	}
	w.seen[key] = w.gen
	return false
}

func (w *window) Unrecord(_ context.Context, key string) {
	w.mu.Lock()
	delete(w.seen, key)
	w.mu.Unlock()
}

func (w *window) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int64(len(w.seen))
}
