package repository

import "github.com/okian/derby/pkg/logger"

type options struct {
	logger logger.Logger
}

// Option configures a store.
type Option func(*options)

// WithLogger sets the logger used for load and migration messages.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
