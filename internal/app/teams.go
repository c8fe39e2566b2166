package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/okian/derby/internal/adapters/repository"
	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/internal/domain/squad"
	"github.com/okian/derby/internal/domain/types"
	"github.com/okian/derby/pkg/logger"
)

// globalRand draws from the process-wide source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) } //nolint:gosec // squad generation, not crypto

// CreateTeam parses squad text and saves it as a new team.
func (s *Service) CreateTeam(ctx context.Context, name, squadText string) (types.TeamSummary, error) {
	players, err := squad.Parse(squadText)
	if err != nil {
		return types.TeamSummary{}, fmt.Errorf("%w: %w", ErrInvalidTeam, err)
	}
	return s.createTeam(ctx, name, players)
}

// CreateRandomTeam saves a new team of random players.
func (s *Service) CreateRandomTeam(ctx context.Context, name string) (types.TeamSummary, error) {
	return s.createTeam(ctx, name, squad.Random(globalRand{}, squad.DefaultSize))
}

func (s *Service) createTeam(ctx context.Context, name string, players []roster.PlayerRecord) (types.TeamSummary, error) {
	rec := roster.Record{Name: strings.TrimSpace(name), Style: roster.StyleBalanced, Players: players}
	if rec.Name == "" {
		return types.TeamSummary{}, fmt.Errorf("%w: name is required", ErrInvalidTeam)
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return types.TeamSummary{}, storeError(err, rec.Name)
	}
	s.log().Info(ctx, "team created",
		logger.String("team", rec.Name),
		logger.Int("players", len(players)),
	)
	return types.NewTeamSummary(&rec), nil
}

// UpdateSquad replaces a team's players with the squad parsed from text.
func (s *Service) UpdateSquad(ctx context.Context, name, squadText string) (types.TeamSummary, error) {
	rec, err := s.store.Get(ctx, name)
	if err != nil {
		return types.TeamSummary{}, storeError(err, name)
	}
	players, err := squad.Parse(squadText)
	if err != nil {
		return types.TeamSummary{}, fmt.Errorf("%w: %w", ErrInvalidTeam, err)
	}
	rec.Players = players
	if err := s.store.Put(ctx, rec); err != nil {
		return types.TeamSummary{}, storeError(err, name)
	}
	s.log().Info(ctx, "squad updated", logger.String("team", name), logger.Int("players", len(players)))
	return types.NewTeamSummary(&rec), nil
}

// DeleteTeam removes a team. Matches already scheduled keep their snapshot.
func (s *Service) DeleteTeam(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return storeError(err, name)
	}
	s.log().Info(ctx, "team deleted", logger.String("team", name))
	return nil
}

// ListTeams summarises every saved team ordered by name.
func (s *Service) ListTeams(ctx context.Context) ([]types.TeamSummary, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make([]types.TeamSummary, 0, len(recs))
	for i := range recs {
		out = append(out, types.NewTeamSummary(&recs[i]))
	}
	return out, nil
}

// GetTeam returns a saved team with its full squad.
func (s *Service) GetTeam(ctx context.Context, name string) (roster.Record, error) {
	rec, err := s.store.Get(ctx, name)
	if err != nil {
		return roster.Record{}, storeError(err, name)
	}
	return rec, nil
}

// storeError maps repository errors to service errors.
func storeError(err error, name string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %q", ErrUnknownTeam, name)
	case errors.Is(err, repository.ErrExists):
		return fmt.Errorf("%w: %q", ErrTeamExists, name)
	case errors.Is(err, repository.ErrInvalidRecord):
		return fmt.Errorf("%w: %w", ErrInvalidTeam, err)
	default:
		return fmt.Errorf("roster store: %w", err)
	}
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Discard()
	}
	return s.logger
}
