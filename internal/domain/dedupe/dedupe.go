// Package dedupe defines the interface for idempotency tracking of
// settlement event IDs.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen settlement IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	// This is the ONLY method for deduplication - thread-safe and atomic.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// This should only be used when a settlement was marked as seen but
	// failed to be processed (e.g., queue backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded ring of recently seen IDs.
// For bounded mode (maxSize > 0): a fixed-size ring evicts the oldest entry
// once full. For unbounded mode (maxSize <= 0): a plain map with no eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order for bounded eviction
	next    int      // next ring slot to overwrite
	maxSize int      // 0 or negative = unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000, // default max size
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
// Returns true if id was already seen, false if it was newly recorded.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		// Overwriting a live slot evicts the oldest recorded ID.
		if old := d.ring[d.next]; old != "" {
			if _, exists := d.seen[old]; exists {
				delete(d.seen, old)
				d.size.Add(-1)
			}
		}
		d.ring[d.next] = id
		d.next = (d.next + 1) % d.maxSize
	}

	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
// The ring slot is left in place; it becomes a no-op on eviction.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
