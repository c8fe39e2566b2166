// Package roster holds the players and teams a match is played with.
package roster

import (
	"strings"
)

// Defaults for a freshly loaded player or team.
const (
	StartingRating     = 6.0
	MinRating          = 1.0
	MaxRating          = 10.0
	MinConfidence      = -3
	MaxConfidence      = 3
	FullCondition      = 100.0
	StartingMomentum   = 50.0
	MinMomentum        = 0.0
	MaxMomentum        = 100.0
	MaxMomentumChange  = 15.0
	DefaultPosition    = "MD"
	StyleBalanced      = "balanced"
	styleMultiplier    = 1.0
	fatiguePenalty     = 0.1
	confidenceBonusPer = 1.5
)

// Player is a rated squad member plus the state a match mutates.
type Player struct {
	Name     string
	Overall  int
	Position string

	Condition  float64
	Rating     float64
	Confidence int
	Goals      int
	Assists    int
	Cards      int
	Yellows    int
}

// NewPlayer returns a player at full condition with the starting rating.
func NewPlayer(name string, overall int, position string) *Player {
	if strings.TrimSpace(position) == "" {
		position = DefaultPosition
	}
	return &Player{
		Name:      name,
		Overall:   overall,
		Position:  position,
		Condition: FullCondition,
		Rating:    StartingRating,
	}
}

// Role classifies the player's position code.
func (p *Player) Role() Role { return RoleOf(p.Position) }

// IsGoalkeeper reports whether the position is a goalkeeper code.
func (p *Player) IsGoalkeeper() bool { return p.Role() == RoleGoalkeeper }

// EffectiveRating is the overall adjusted for confidence and fatigue.
func (p *Player) EffectiveRating() float64 {
	return float64(p.Overall) + float64(p.Confidence)*confidenceBonusPer - (FullCondition-p.Condition)*fatiguePenalty
}

// UpdateRating adds delta and clamps to [MinRating, MaxRating].
func (p *Player) UpdateRating(delta float64) {
	p.Rating = clampFloat(p.Rating+delta, MinRating, MaxRating)
}

// UpdateConfidence adds delta and clamps to [MinConfidence, MaxConfidence].
// Goalkeepers do not track confidence.
func (p *Player) UpdateConfidence(delta int) {
	if p.IsGoalkeeper() {
		return
	}
	p.Confidence = min(MaxConfidence, max(MinConfidence, p.Confidence+delta))
}

// Tire lowers condition by drop, floored at zero. Condition never rises.
func (p *Player) Tire(drop float64) {
	if drop <= 0 {
		return
	}
	p.Condition = max(0, p.Condition-drop)
}

// SendOff removes the player from contention by zeroing the overall.
// The player stays in the squad slice.
func (p *Player) SendOff() { p.Overall = 0 }

// SentOff reports whether the player has been sent off.
func (p *Player) SentOff() bool { return p.Overall == 0 && p.Cards > 0 }

// Team is a named squad with the match state that belongs to a side.
type Team struct {
	Name     string
	Players  []*Player
	Style    string
	Momentum float64
	Score    int
}

// NewTeam builds a team with starting momentum and no goals.
func NewTeam(name string, players []*Player) *Team {
	return &Team{
		Name:     name,
		Players:  players,
		Style:    StyleBalanced,
		Momentum: StartingMomentum,
	}
}

// StyleMultiplier is reserved for tactical styles; every style plays the same.
func (t *Team) StyleMultiplier() float64 { return styleMultiplier }

// AverageOverall is the mean nominal rating, 0 for an empty squad.
func (t *Team) AverageOverall() float64 {
	if len(t.Players) == 0 {
		return 0
	}
	total := 0
	for _, p := range t.Players {
		total += p.Overall
	}
	return float64(total) / float64(len(t.Players))
}

// UpdateMomentum caps delta to ±MaxMomentumChange, then clamps the result.
func (t *Team) UpdateMomentum(delta float64) {
	delta = clampFloat(delta, -MaxMomentumChange, MaxMomentumChange)
	t.Momentum = clampFloat(t.Momentum+delta, MinMomentum, MaxMomentum)
}

// Outfield returns the non-goalkeepers, or the whole squad when there are none.
func (t *Team) Outfield() []*Player {
	out := make([]*Player, 0, len(t.Players))
	for _, p := range t.Players {
		if !p.IsGoalkeeper() {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return t.Players
	}
	return out
}

// Available returns the outfield players still on the pitch. When every
// outfield player is gone it falls back to anyone not sent off, then to
// the whole squad.
func (t *Team) Available() []*Player {
	out := make([]*Player, 0, len(t.Players))
	for _, p := range t.Outfield() {
		if !p.SentOff() {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, p := range t.Players {
		if !p.SentOff() {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		return out
	}
	return t.Players
}

// Goalkeeper returns the first goalkeeper, else the first defender, else the first player.
func (t *Team) Goalkeeper() *Player {
	for _, p := range t.Players {
		if p.IsGoalkeeper() {
			return p
		}
	}
	for _, p := range t.Players {
		if p.Role() == RoleDefender {
			return p
		}
	}
	if len(t.Players) > 0 {
		return t.Players[0]
	}
	return nil
}

func clampFloat(v, lo, hi float64) float64 {
	return min(hi, max(lo, v))
}
