package dedupe

// Option applies a configuration option to a window.
type Option func(*window)

// WithMaxSize sets how many keys are remembered. Zero or negative values
// remove the bound.
func WithMaxSize(maxSize int) Option {
	return func(w *window) {
		w.maxSize = maxSize
	}
}
