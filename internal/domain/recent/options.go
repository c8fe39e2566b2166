package recent

// Option applies a configuration option to a Window.
type Option func(*Window)

// WithMaxSize sets how many keys the window remembers.
// Values below 1 keep the default.
func WithMaxSize(maxSize int) Option {
	return func(w *Window) {
		if maxSize > 0 {
			w.maxSize = maxSize
		}
	}
}
