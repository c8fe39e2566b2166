package engine

import (
	"math"

	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/roster"
)

// takePossession decides who attacks this minute. The current holder keeps
// the ball with a fixed chance; otherwise possession is redrawn and the
// streak resets.
func (e *Engine) takePossession(m *match.Match) *roster.Team {
	var attacking *roster.Team
	if m.Possession != nil && e.rng.Float64() < e.tuning.StickyPossession {
		attacking = m.Possession
		m.PossessionStreak++
	} else {
		attacking = m.Away
		if e.rng.Float64() < e.HomePossessionProbability(m) {
			attacking = m.Home
		}
		m.Possession = attacking
		m.PossessionStreak = 0
	}
	m.SideOf(attacking).PossessionMinutes++
	return attacking
}

// HomePossessionProbability is the chance the home side wins a redraw.
// Squad quality and momentum favour a side; a lead of two or more goals
// hands the trailing side a catch-up bonus per goal of difference.
func (e *Engine) HomePossessionProbability(m *match.Match) float64 {
	t := e.tuning
	adv := (m.Home.AverageOverall() - m.Away.AverageOverall()) +
		(m.Home.Momentum-m.Away.Momentum)/t.MomentumDivisor

	if diff := m.GoalDifference(); abs(diff) >= t.CatchUpFromDiff {
		adv -= t.CatchUpPerGoal * float64(diff)
	}

	p := 1 / (1 + math.Exp(-adv/t.PossessionSlope))
	return clamp(p, t.PossessionMin, t.PossessionMax)
}
