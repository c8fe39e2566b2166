// Package engine simulates a match one minute at a time.
//
// An Engine is bound to a single match run: it owns the random source and
// the narrator. It holds no locks; callers must not advance the same match
// from more than one goroutine.
package engine

import (
	"errors"
	"fmt"

	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/roster"
)

// Rand is the subset of *math/rand/v2.Rand the engine draws from.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Narrator turns an event into a commentary line. An empty line means no
// commentary. On error the returned text is the raw template and is used as is.
type Narrator interface {
	Render(m *match.Match, ev match.EventType, subj match.Subject) (string, error)
}

// Hooks observe the simulation without influencing it.
type Hooks struct {
	OnMinute      func(m *match.Match)
	OnEvent       func(m *match.Match, o match.Outcome)
	OnRenderError func(m *match.Match, ev match.EventType, err error)
}

// Engine advances matches.
type Engine struct {
	rng      Rand
	narrator Narrator
	tuning   Tuning
	hooks    Hooks
}

// New builds an engine over a random source and a narrator.
func New(rng Rand, narrator Narrator, opts ...Option) *Engine {
	e := &Engine{
		rng:      rng,
		narrator: narrator,
		tuning:   DefaultTuning(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tuning returns the constants in use.
func (e *Engine) Tuning() Tuning { return e.tuning }

// Advance plays exactly one minute of m.
func (e *Engine) Advance(m *match.Match) error {
	if m.IsFinished() {
		return ErrMatchFinished
	}
	m.Minute++
	minute := m.Minute

	e.tire(m)
	e.raiseChaos(m)
	if e.hooks.OnMinute != nil {
		e.hooks.OnMinute(m)
	}

	if e.rng.Float64() < e.NeutralProbability(m) {
		e.neutralMinute(m, minute)
		return nil
	}

	attacking := e.takePossession(m)
	outcome, err := e.Resolve(m, attacking)
	if err != nil {
		return fmt.Errorf("minute %d: %w", minute, err)
	}
	e.Apply(m, outcome)
	if e.hooks.OnEvent != nil {
		e.hooks.OnEvent(m, outcome)
	}

	text := e.render(m, outcome.Type, outcome.Subject())
	if text != "" {
		m.AddEvent(minute, text, outcome.Type)
	}
	return nil
}

// NeutralProbability is the chance that nothing happens this minute.
func (e *Engine) NeutralProbability(m *match.Match) float64 {
	t := e.tuning
	p := t.NeutralBase
	if m.PossessionStreak > 0 {
		p -= t.NeutralStreakCut
	}
	if m.MomentumGap() > t.NeutralGap {
		p -= t.NeutralGapCut
	}
	if m.Chaos > t.NeutralChaosLevel {
		p -= t.NeutralChaosCut
	}
	if m.Minute > t.NeutralCloseMinute && abs(m.GoalDifference()) <= 1 {
		p -= t.NeutralCloseCut
	}
	return clamp(p, t.NeutralMin, t.NeutralMax)
}

// neutralMinute narrates a quiet minute, re-rolling once to avoid repeating
// the previous line. Quiet minutes are logged only in live mode.
func (e *Engine) neutralMinute(m *match.Match, minute int) {
	subj := match.Subject{Team: m.Possession}
	text := e.render(m, match.Nothing, subj)
	if text != "" && text == m.LastCommentary {
		text = e.render(m, match.Nothing, subj)
	}
	m.LastCommentary = text
	if m.Live() && text != "" {
		m.AddEvent(minute, text, match.Nothing)
	}
}

func (e *Engine) render(m *match.Match, ev match.EventType, subj match.Subject) string {
	if e.narrator == nil {
		return ""
	}
	text, err := e.narrator.Render(m, ev, subj)
	if err != nil && e.hooks.OnRenderError != nil {
		e.hooks.OnRenderError(m, ev, err)
	}
	return text
}

// tire drops every player's condition by an independent uniform amount.
func (e *Engine) tire(m *match.Match) {
	for _, t := range [...]*roster.Team{m.Home, m.Away} {
		for _, p := range t.Players {
			p.Tire(e.uniform(e.tuning.FatigueMin, e.tuning.FatigueMax))
		}
	}
}

func (e *Engine) raiseChaos(m *match.Match) {
	if m.Minute > e.tuning.LateMinute {
		e.bumpChaos(m, e.tuning.LateChaosBump)
	}
	if m.GoalDifference() == 0 {
		e.bumpChaos(m, e.tuning.LevelChaosBump)
	}
}

func (e *Engine) bumpChaos(m *match.Match, delta float64) {
	m.Chaos = min(e.tuning.MaxChaos, m.Chaos+delta)
}

func (e *Engine) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*e.rng.Float64()
}

// IsFinished reports whether err means the match had already ended.
func IsFinished(err error) bool { return errors.Is(err, ErrMatchFinished) }

func clamp(v, lo, hi float64) float64 { return min(hi, max(lo, v)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
