package engine

import (
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/roster"
)

// Resolve classifies the minute for the attacking side. It draws from the
// random source but does not mutate the match.
func (e *Engine) Resolve(m *match.Match, attacking *roster.Team) (match.Outcome, error) {
	defending := m.Opponent(attacking)
	if len(attacking.Players) == 0 || len(defending.Players) == 0 {
		return match.Outcome{}, ErrEmptySquad
	}

	attacker := e.pick(attacking.Available(), true)
	gk := defending.Goalkeeper()

	attack, defense := e.contest(m, attacking, defending, attacker, gk)

	out := match.Outcome{Attacking: attacking, Defending: defending, Player: attacker}
	t := e.tuning
	switch {
	case attack > defense+t.GoalThreshold+t.GoalThresholdPerGoal*float64(attacking.Score) && !attacker.SentOff():
		out.Type = match.Goal
		out.Assister = e.assister(attacking, attacker)
	case attack > defense+t.SaveMargin:
		out.Type = match.Save
		out.Player = gk
	case attack > defense-t.ShotMargin:
		out.Type = match.Shot
	default:
		e.discipline(m, &out)
	}
	return out, nil
}

// contest rolls attack against the goalkeeper.
func (e *Engine) contest(m *match.Match, att, def *roster.Team, attacker, gk *roster.Player) (attack, defense float64) {
	t := e.tuning
	attack = attacker.EffectiveRating() +
		e.uniform(t.AttackRollMin, t.AttackRollMax) +
		(att.Momentum-def.Momentum)/t.MomentumRollDivisor
	defense = gk.EffectiveRating() +
		e.uniform(t.DefenseRollMin, t.DefenseRollMax) +
		t.GoalkeeperBonus

	switch lead := att.Score - def.Score; {
	case lead >= t.MercyLead:
		attack -= t.MercyPenalty
	case lead >= t.ComplacencyLead:
		attack -= t.ComplacencyPenalty
	case lead <= -t.DesperationDeficit:
		attack += t.DesperationBonus
	}

	if e.rng.Float64() < m.Chaos {
		attack += e.uniform(-t.ChaosSpike, t.ChaosSpike)
	}
	return attack, defense
}

// discipline decides whether a failed attack ends in a foul or a card.
// The culprit is a defending outfield player; a second yellow is a red.
func (e *Engine) discipline(m *match.Match, out *match.Outcome) {
	t := e.tuning
	scale := 1 + t.ChaosDisciplineScale*m.Chaos
	red := t.RedChance * scale
	yellow := red + t.YellowChance*scale
	foul := yellow + t.FoulChance*scale

	r := e.rng.Float64()
	if r >= foul {
		out.Type = match.Attack
		return
	}

	pool := out.Defending.Available()
	culprit := pool[e.rng.IntN(len(pool))]
	out.Player = culprit

	switch {
	case r < red:
		out.Type = match.RedCard
	case r < yellow:
		out.Type = match.YellowCard
		if culprit.Yellows >= 1 {
			out.Type = match.RedCard
		}
	default:
		out.Type = match.Foul
	}
}

// assister picks a team-mate of the scorer, or nobody.
func (e *Engine) assister(team *roster.Team, scorer *roster.Player) *roster.Player {
	if e.rng.Float64() >= e.tuning.AssistProbability {
		return nil
	}
	mates := make([]*roster.Player, 0, len(team.Players))
	for _, p := range team.Available() {
		if p != scorer {
			mates = append(mates, p)
		}
	}
	if len(mates) == 0 {
		return nil
	}
	return e.pick(mates, false)
}

// pick draws a player by role weight, optionally cooled down by goals scored.
func (e *Engine) pick(players []*roster.Player, cooldown bool) *roster.Player {
	total := 0.0
	weights := make([]float64, len(players))
	for i, p := range players {
		w := e.roleWeight(p)
		if cooldown {
			w = e.SelectionWeight(p)
		}
		weights[i] = w
		total += w
	}
	r := e.rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return players[i]
		}
		r -= w
	}
	return players[len(players)-1]
}

// SelectionWeight is the attacker weight: the role weight divided down by
// the player's goal tally.
func (e *Engine) SelectionWeight(p *roster.Player) float64 {
	return e.roleWeight(p) / (1 + e.tuning.GoalCooldown*float64(p.Goals))
}

func (e *Engine) roleWeight(p *roster.Player) float64 {
	t := e.tuning
	switch p.Role() {
	case roster.RoleForward:
		return t.WeightForward
	case roster.RoleAttackingMidfielder:
		return t.WeightAttackingMid
	case roster.RoleMidfielder:
		return t.WeightMidfielder
	case roster.RoleDefender:
		return t.WeightDefender
	case roster.RoleGoalkeeper, roster.RoleUnknown:
	}
	return t.WeightUnknown
}
