package engine

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTuning replaces the default balance constants.
func WithTuning(t Tuning) Option {
	return func(e *Engine) {
		e.tuning = t
	}
}

// WithHooks installs observers for minutes, events and render failures.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}
