package dedupe

// Option configures the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of IDs kept in memory.
// Zero or negative disables eviction entirely.
func WithMaxSize(size int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = size
	}
}
