package dedupe

// Option configures the in-memory Index.
type Option func(*memoryIndex)

// WithMaxSize caps the number of tracked request IDs. Zero or negative
// means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *memoryIndex) {
		d.maxSize = maxSize
	}
}
