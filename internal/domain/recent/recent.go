// Package recent tracks recently used keys in a bounded FIFO window.
package recent

import (
	"sync"
)

// DefaultMaxSize is the window used when no size is configured.
const DefaultMaxSize = 10

// Window remembers the last N recorded keys, oldest first.
// A key may appear more than once.
type Window struct {
	mu      sync.Mutex
	entries []string       // oldest at index 0
	counts  map[string]int // key -> occurrences inside the window
	maxSize int
}

// NewWindow creates a window with the configured capacity.
func NewWindow(opts ...Option) *Window {
	w := &Window{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(w)
	}
	w.entries = make([]string, 0, w.maxSize)
	w.counts = make(map[string]int, w.maxSize)
	return w
}

// Record appends key, evicting the oldest entry when the window is full.
func (w *Window) Record(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.entries) >= w.maxSize {
		w.evictOldest()
	}
	w.entries = append(w.entries, key)
	w.counts[key]++
}

// Contains reports whether key is anywhere in the window.
func (w *Window) Contains(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[key] > 0
}

// ContainsLast reports whether key is among the last n recorded entries.
func (w *Window) ContainsLast(key string, n int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if n <= 0 {
		return false
	}
	start := max(0, len(w.entries)-n)
	for _, e := range w.entries[start:] {
		if e == key {
			return true
		}
	}
	return false
}

// Size returns the number of entries currently held.
func (w *Window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Capacity returns the configured maximum.
func (w *Window) Capacity() int { return w.maxSize }

// Reset empties the window.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = w.entries[:0]
	clear(w.counts)
}

// evictOldest drops the head of the FIFO. Must be called with w.mu held.
func (w *Window) evictOldest() {
	if len(w.entries) == 0 {
		return
	}
	oldest := w.entries[0]
	w.entries = append(w.entries[:0], w.entries[1:]...)
	if w.counts[oldest]--; w.counts[oldest] <= 0 {
		delete(w.counts, oldest)
	}
}
