// Package feed delivers match commentary lines to their consumers.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/okian/derby/pkg/logger"
)

// Sink receives a match's lines in order. Implementations must be safe for
// concurrent use by many matches.
type Sink interface {
	Deliver(ctx context.Context, matchID, line string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, matchID, line string) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, matchID, line string) error {
	return f(ctx, matchID, line)
}

// Fanout delivers every line to all sinks and joins their errors.
type Fanout []Sink

// Deliver sends line to every sink, even after one fails.
func (f Fanout) Deliver(ctx context.Context, matchID, line string) error {
	var errs []error
	for _, s := range f {
		if err := s.Deliver(ctx, matchID, line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes lines to a structured logger at debug level.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a sink over l.
func NewLogSink(l logger.Logger) *LogSink {
	return &LogSink{logger: l.Named("feed")}
}

// Deliver logs the line.
func (s *LogSink) Deliver(ctx context.Context, matchID, line string) error {
	s.logger.Debug(ctx, line, logger.String("match_id", matchID))
	return nil
}

// WriterSink prints lines to w, one per line, optionally prefixed by match id.
type WriterSink struct {
	mu       sync.Mutex
	w        io.Writer
	prefixed bool
}

// NewWriterSink creates a sink printing to w. With prefixed set each line
// starts with "[match id]".
func NewWriterSink(w io.Writer, prefixed bool) *WriterSink {
	return &WriterSink{w: w, prefixed: prefixed}
}

// Deliver writes the line.
func (s *WriterSink) Deliver(_ context.Context, matchID, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.prefixed {
		_, err = fmt.Fprintf(s.w, "[%s] %s\n", matchID, line)
	} else {
		_, err = fmt.Fprintln(s.w, line)
	}
	if err != nil {
		return fmt.Errorf("write feed line: %w", err)
	}
	return nil
}
