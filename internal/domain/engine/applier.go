package engine

import (
	"github.com/okian/derby/internal/domain/match"
)

// Apply mutates the match for a classified outcome. Every bounded value
// changes through its clamping mutator.
func (e *Engine) Apply(m *match.Match, o match.Outcome) {
	t := e.tuning
	att := m.SideOf(o.Attacking)
	def := m.SideOf(o.Defending)
	p := o.Player

	switch o.Type {
	case match.Goal:
		p.Goals++
		p.UpdateRating(t.GoalRating)
		p.UpdateConfidence(t.GoalConfidence)
		o.Attacking.Score++
		o.Attacking.UpdateMomentum(t.GoalMomentum)
		e.bumpChaos(m, t.GoalChaos)
		if o.Assister != nil {
			o.Assister.Assists++
			o.Assister.UpdateRating(t.AssistRating)
		}
		att.Shots++
		att.OnTarget++

	case match.Save:
		p.UpdateRating(t.SaveRating)
		o.Defending.UpdateMomentum(t.SaveMomentum)
		att.Shots++
		att.OnTarget++

	case match.RedCard:
		p.UpdateRating(t.RedRating)
		p.Cards++
		p.SendOff()
		e.bumpChaos(m, t.RedChaos)
		def.Reds++

	case match.YellowCard:
		p.UpdateRating(t.YellowRating)
		p.UpdateConfidence(-1)
		p.Yellows++
		e.bumpChaos(m, t.YellowChaos)
		def.Yellows++

	case match.Foul:
		p.UpdateRating(t.FoulRating)
		e.bumpChaos(m, t.FoulChaos)
		def.Fouls++

	case match.Shot:
		p.UpdateConfidence(1)
		p.UpdateRating(t.ShotRating)
		att.Shots++

	case match.Attack:
		o.Attacking.UpdateMomentum(t.AttackMomentum)
		p.UpdateRating(t.AttackRating)

	case match.Nothing:
	}
}
