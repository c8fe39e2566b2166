package feed

import (
	"context"
	"sync"

	"github.com/okian/derby/internal/domain/types"
)

const defaultMaxLines = 1000

// Option configures a Buffer.
type Option func(*Buffer)

// WithMaxLines caps the lines kept per match; older lines are dropped first.
func WithMaxLines(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxLines = n
		}
	}
}

type stream struct {
	lines []types.FeedLine
	next  int
}

// Buffer keeps every match's recent lines in memory so clients can poll
// them with a cursor.
type Buffer struct {
	mu       sync.RWMutex
	streams  map[string]*stream
	maxLines int
}

// NewBuffer creates an empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{streams: map[string]*stream{}, maxLines: defaultMaxLines}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Deliver appends the line to the match's stream.
func (b *Buffer) Deliver(_ context.Context, matchID, line string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.streams[matchID]
	if !ok {
		s = &stream{}
		b.streams[matchID] = s
	}
	s.next++
	s.lines = append(s.lines, types.FeedLine{Seq: s.next, Text: line})
	if over := len(s.lines) - b.maxLines; over > 0 {
		s.lines = append(s.lines[:0:0], s.lines[over:]...)
	}
	return nil
}

// Since returns the lines with Seq greater than since, in order.
func (b *Buffer) Since(matchID string, since int) []types.FeedLine {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.streams[matchID]
	if !ok {
		return []types.FeedLine{}
	}
	out := make([]types.FeedLine, 0, len(s.lines))
	for _, l := range s.lines {
		if l.Seq > since {
			out = append(out, l)
		}
	}
	return out
}

// Len returns how many lines have ever been delivered for the match.
func (b *Buffer) Len(matchID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if s, ok := b.streams[matchID]; ok {
		return s.next
	}
	return 0
}

// Forget drops a match's stream.
func (b *Buffer) Forget(matchID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.streams, matchID)
}
