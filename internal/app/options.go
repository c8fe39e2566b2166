package app

import (
	"time"

	"github.com/okian/derby/internal/adapters/feed"
	"github.com/okian/derby/internal/adapters/repository"
	"github.com/okian/derby/internal/domain/engine"
	"github.com/okian/derby/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the roster store. It is required.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets how many matches run at the same time.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets how many scheduled matches may wait for a worker.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxMatches caps how many matches are remembered; the oldest
// finished ones are forgotten first.
func WithMaxMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxMatches = n
		}
	}
}

// WithIdempotencyKeys caps how many idempotency keys are remembered.
func WithIdempotencyKeys(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxKeys = n
		}
	}
}

// WithMatchLength sets the number of minutes per match.
func WithMatchLength(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.matchLength = minutes
		}
	}
}

// WithSink adds a sink that receives every delivered line, next to the
// in-memory buffer served by the API.
func WithSink(sink feed.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
}

// WithRunnerOptions forwards options to the match runner.
func WithRunnerOptions(opts ...RunnerOption) Option {
	return func(s *Service) {
		s.runnerOpts = append(s.runnerOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLiveInterval sets the pause between minutes of live matches.
func WithLiveInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d >= 0 {
			r.liveInterval = d
		}
	}
}

// WithLanguage selects the commentary language.
func WithLanguage(lang string) RunnerOption {
	return func(r *Runner) { r.lang = lang }
}

// WithRecentTemplates sets how many recently used templates are avoided.
func WithRecentTemplates(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.recent = n
		}
	}
}

// WithTuning overrides the engine constants.
func WithTuning(t engine.Tuning) RunnerOption {
	return func(r *Runner) { r.tuning = t }
}

// WithTracker receives match lifecycle updates.
func WithTracker(t Tracker) RunnerOption {
	return func(r *Runner) {
		if t != nil {
			r.tracker = t
		}
	}
}

// WithRunnerLogger sets the runner's logger.
func WithRunnerLogger(l logger.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
