package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/pkg/logger"
	"github.com/okian/derby/pkg/metrics"
)

// FileStore keeps all teams in one JSON object keyed by team name.
type FileStore struct {
	path   string
	logger logger.Logger

	mu    sync.RWMutex
	teams map[string]roster.Record
}

// OpenFile loads path. A missing file is an empty store; a corrupt one is an error.
func OpenFile(ctx context.Context, path string, opts ...Option) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	o := buildOptions(opts)
	s := &FileStore{
		path:   filepath.Clean(path),
		logger: o.logger.Named("filestore"),
		teams:  map[string]roster.Record{},
	}

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info(ctx, "roster file not found, starting empty", logger.String("path", s.path))
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	case len(bytes.TrimSpace(raw)) > 0:
		if err := json.Unmarshal(raw, &s.teams); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.path, err)
		}
		for key, rec := range s.teams {
			if rec.Name == "" {
				rec.Name = key
				s.teams[key] = rec
			}
		}
	}
	metrics.UpdateTeamsTotal(len(s.teams))
	return s, nil
}

// List returns every team ordered by name.
func (s *FileStore) List(_ context.Context) ([]roster.Record, error) {
	defer observe("list", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]roster.Record, 0, len(s.teams))
	for _, rec := range s.teams {
		out = append(out, clone(rec))
	}
	slices.SortFunc(out, func(a, b roster.Record) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Get returns one team.
func (s *FileStore) Get(_ context.Context, name string) (rec roster.Record, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.teams[name]
	if !ok {
		return roster.Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return clone(r), nil
}

// Create saves a new team.
func (s *FileStore) Create(_ context.Context, rec roster.Record) (err error) {
	defer func(start time.Time) { observe("create", start, err) }(time.Now())
	if err := validate(&rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[rec.Name]; ok {
		return fmt.Errorf("%w: %q", ErrExists, rec.Name)
	}
	return s.commit(func(m map[string]roster.Record) { m[rec.Name] = clone(rec) })
}

// Put saves a team, replacing any previous version.
func (s *FileStore) Put(_ context.Context, rec roster.Record) (err error) {
	defer func(start time.Time) { observe("put", start, err) }(time.Now())
	if err := validate(&rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func(m map[string]roster.Record) { m[rec.Name] = clone(rec) })
}

// Delete removes a team.
func (s *FileStore) Delete(_ context.Context, name string) (err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s.commit(func(m map[string]roster.Record) { delete(m, name) })
}

// Count returns the number of saved teams.
func (s *FileStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error { return nil }

// commit applies mutate to a copy, writes it and swaps it in on success.
// Callers hold the write lock.
func (s *FileStore) commit(mutate func(map[string]roster.Record)) error {
	next := make(map[string]roster.Record, len(s.teams)+1)
	for k, v := range s.teams {
		next[k] = v
	}
	mutate(next)

	if err := s.write(next); err != nil {
		return err
	}
	s.teams = next
	metrics.UpdateTeamsTotal(len(next))
	return nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *FileStore) write(teams map[string]roster.Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(teams); err != nil {
		return fmt.Errorf("encode teams: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".teams-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func clone(rec roster.Record) roster.Record {
	rec.Players = slices.Clone(rec.Players)
	return rec
}
