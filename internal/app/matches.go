package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/derby/internal/adapters/mq/queue"
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/model"
	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/internal/domain/types"
	"github.com/okian/derby/pkg/logger"
	"github.com/okian/derby/pkg/metrics"
)

// MatchRequest asks for a fixture between two saved teams. A nil Seed
// draws a random one; an empty Mode means live. A non-empty Key makes the
// request idempotent.
type MatchRequest struct {
	Home string
	Away string
	Mode string
	Seed *uint64
	Key  string
}

// ScheduleMatch validates the request, snapshots both rosters and queues the
// fixture. All setup errors are returned before a match exists. A repeated
// Key returns the match it first created together with ErrDuplicate.
func (s *Service) ScheduleMatch(ctx context.Context, req MatchRequest) (summary types.MatchSummary, err error) {
	mode, err := parseMode(req.Mode)
	if err != nil {
		return types.MatchSummary{}, err
	}
	home, away := strings.TrimSpace(req.Home), strings.TrimSpace(req.Away)
	if home == "" || away == "" {
		return types.MatchSummary{}, fmt.Errorf("%w: both home and away are required", ErrUnknownTeam)
	}
	if home == away {
		return types.MatchSummary{}, fmt.Errorf("%w: %q", ErrSameTeam, home)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.MatchSummary{}, ErrNotStarted
	}

	f := model.Fixture{
		MatchID: uuid.NewString(),
		Mode:    mode,
		Length:  s.matchLength,
	}
	if key := strings.TrimSpace(req.Key); key != "" {
		prev, claimed, cerr := s.claim(ctx, key, f.MatchID)
		if cerr != nil {
			return types.MatchSummary{}, fmt.Errorf("schedule match: %w", cerr)
		}
		if !claimed {
			return prev, fmt.Errorf("%w: key %q", ErrDuplicate, key)
		}
		defer func() {
			if err != nil {
				s.keys.Release(ctx, key, f.MatchID)
			}
			s.settle(f.MatchID)
		}()
	}
	if f.Home, err = s.snapshot(ctx, home); err != nil {
		return types.MatchSummary{}, err
	}
	if f.Away, err = s.snapshot(ctx, away); err != nil {
		return types.MatchSummary{}, err
	}
	if req.Seed != nil {
		f.Seed = *req.Seed
	} else {
		f.Seed = rand.Uint64() //nolint:gosec // simulation seed
	}

	summary = types.MatchSummary{
		ID:        f.MatchID,
		Home:      f.Home.Name,
		Away:      f.Away.Name,
		Mode:      f.Mode,
		Seed:      f.Seed,
		Status:    types.StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.registry.add(summary)

	if err := s.queue.Enqueue(ctx, f); err != nil {
		s.registry.remove(f.MatchID)
		switch {
		case errors.Is(err, queue.ErrFull):
			return types.MatchSummary{}, ErrBackpressure
		case errors.Is(err, queue.ErrClosed):
			return types.MatchSummary{}, ErrNotStarted
		default:
			return types.MatchSummary{}, fmt.Errorf("schedule match: %w", err)
		}
	}

	metrics.RecordMatchScheduled()
	s.logger.Info(ctx, "match scheduled",
		logger.String("match_id", f.MatchID),
		logger.String("fixture", f.Label()),
		logger.String("mode", f.Mode),
	)
	return summary, nil
}

// claim records key for matchID. While the request holding the key is still
// being scheduled, claim waits for it to settle. It reports false with the
// earlier match when the key is held by a match that is still remembered.
func (s *Service) claim(ctx context.Context, key, matchID string) (types.MatchSummary, bool, error) {
	for {
		s.pendingMu.Lock()
		prev, ok := s.keys.Claim(ctx, key, matchID)
		if ok {
			s.pending[matchID] = make(chan struct{})
			s.pendingMu.Unlock()
			return types.MatchSummary{}, true, nil
		}
		done, inFlight := s.pending[prev]
		s.pendingMu.Unlock()

		if !inFlight {
			if summary, _, found := s.registry.get(prev); found {
				return summary, false, nil
			}
			// evicted from the registry
			s.keys.Release(ctx, key, prev)
			continue
		}
		select {
		case <-done:
		case <-ctx.Done():
			return types.MatchSummary{}, false, ctx.Err()
		}
	}
}

// settle wakes requests waiting on matchID's key. The match must already be
// registered or its key released.
func (s *Service) settle(matchID string) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if done, ok := s.pending[matchID]; ok {
		close(done)
		delete(s.pending, matchID)
	}
}

// snapshot loads a team that is able to play.
func (s *Service) snapshot(ctx context.Context, name string) (roster.Record, error) {
	rec, err := s.store.Get(ctx, name)
	if err != nil {
		return roster.Record{}, storeError(err, name)
	}
	if len(rec.Players) == 0 {
		return roster.Record{}, fmt.Errorf("%w: %q", ErrEmptyRoster, name)
	}
	return rec, nil
}

func parseMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", match.ModeLive:
		return match.ModeLive, nil
	case match.ModeFast:
		return match.ModeFast, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMode, mode, match.ModeLive, match.ModeFast)
	}
}

// ListMatches returns every remembered match, newest first.
func (s *Service) ListMatches(_ context.Context) ([]types.MatchSummary, error) {
	reg, err := s.matches()
	if err != nil {
		return nil, err
	}
	return reg.list(), nil
}

// GetMatch returns the current state of one match.
func (s *Service) GetMatch(_ context.Context, id string) (types.MatchSummary, error) {
	reg, err := s.matches()
	if err != nil {
		return types.MatchSummary{}, err
	}
	summary, _, ok := reg.get(id)
	if !ok {
		return types.MatchSummary{}, fmt.Errorf("%w: %q", ErrMatchNotFound, id)
	}
	return summary, nil
}

// Events returns the feed lines of a match after cursor since.
func (s *Service) Events(_ context.Context, id string, since int) ([]types.FeedLine, error) {
	reg, err := s.matches()
	if err != nil {
		return nil, err
	}
	if _, _, ok := reg.get(id); !ok {
		return nil, fmt.Errorf("%w: %q", ErrMatchNotFound, id)
	}
	return s.buffer.Since(id, since), nil
}

// Report returns the post-match report of a finished match.
func (s *Service) Report(_ context.Context, id string) (*match.Report, error) {
	reg, err := s.matches()
	if err != nil {
		return nil, err
	}
	summary, report, ok := reg.get(id)
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %q", ErrMatchNotFound, id)
	case summary.Status == types.StatusAborted:
		return nil, fmt.Errorf("%w: %s", ErrMatchAborted, summary.Error)
	case report == nil:
		return nil, fmt.Errorf("%w: %q is %s", ErrMatchInProgress, id, summary.Status)
	}
	return report, nil
}

func (s *Service) matches() (*registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.registry == nil {
		return nil, ErrNotStarted
	}
	return s.registry, nil
}
