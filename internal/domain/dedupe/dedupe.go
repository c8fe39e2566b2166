// Package dedupe remembers idempotency keys so a retried request maps back to
// the match it already created.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 10_000

// Index maps idempotency keys to the value recorded by the first claim.
type Index interface {
	// Claim records value under key unless the key is already held. It
	// returns the held value and false for a repeated key.
	Claim(ctx context.Context, key, value string) (string, bool)

	// Release forgets key if it still holds value, so it can be claimed
	// again. Used when the request that claimed it failed.
	Release(ctx context.Context, key, value string)

	Size() int64
}

type entry struct {
	key   string
	value string
}

// inMemoryIndex evicts the oldest key once maxSize keys are held. A maxSize
// of zero or less means unbounded.
type inMemoryIndex struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List // front is newest
	maxSize int
	size    atomic.Int64
}

// NewInMemoryIndex creates an in-memory index.
func NewInMemoryIndex(opts ...Option) Index {
	d := &inMemoryIndex{
		keys:    make(map[string]*list.Element),
		order:   list.New(),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryIndex) Claim(_ context.Context, key, value string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.keys[key]; ok {
		return el.Value.(*entry).value, false
	}
	if d.maxSize > 0 && len(d.keys) >= d.maxSize {
		d.evictOldest()
	}
	d.keys[key] = d.order.PushFront(&entry{key: key, value: value})
	d.size.Add(1)
	return value, true
}

func (d *inMemoryIndex) Release(_ context.Context, key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.keys[key]; ok && el.Value.(*entry).value == value {
		d.order.Remove(el)
		delete(d.keys, key)
		d.size.Add(-1)
	}
}

// evictOldest must be called with d.mu held.
func (d *inMemoryIndex) evictOldest() {
	el := d.order.Back()
	if el == nil {
		return
	}
	d.order.Remove(el)
	delete(d.keys, el.Value.(*entry).key)
	d.size.Add(-1)
}

func (d *inMemoryIndex) Size() int64 {
	return d.size.Load()
}
