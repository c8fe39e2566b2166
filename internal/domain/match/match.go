// Package match holds the state of one fixture while it is being simulated.
package match

import (
	"fmt"

	"github.com/okian/derby/internal/domain/roster"
)

// Defaults for a new match.
const (
	DefaultLength = 90
	ModeLive      = "live"
	ModeFast      = "fast"
)

// Side is one team's box-score counters.
type Side struct {
	Shots             int `json:"shots"`
	OnTarget          int `json:"on_target"`
	PossessionMinutes int `json:"possession_minutes"`
	Fouls             int `json:"fouls"`
	Yellows           int `json:"yellows"`
	Reds              int `json:"reds"`
}

// Stats holds both sides' counters.
type Stats struct {
	Home Side `json:"home"`
	Away Side `json:"away"`
}

// Highlight is an entry of the filtered history: goals, red cards and saves.
type Highlight struct {
	Minute int       `json:"minute"`
	Text   string    `json:"text"`
	Type   EventType `json:"type"`
	Score  string    `json:"score"`
}

// Match is a single fixture. It is mutated only by the engine and is not
// safe for concurrent use.
type Match struct {
	ID     string
	Home   *roster.Team
	Away   *roster.Team
	Mode   string
	Length int

	Minute           int
	Possession       *roster.Team
	PossessionStreak int
	Chaos            float64
	Stats            Stats

	Log            []string
	History        []Highlight
	LastCommentary string
}

// Option configures a Match.
type Option func(*Match)

// WithID sets the match identifier.
func WithID(id string) Option {
	return func(m *Match) { m.ID = id }
}

// WithLength overrides the number of minutes played.
func WithLength(minutes int) Option {
	return func(m *Match) {
		if minutes > 0 {
			m.Length = minutes
		}
	}
}

// New creates a match at minute zero.
func New(home, away *roster.Team, mode string, opts ...Option) *Match {
	m := &Match{
		Home:   home,
		Away:   away,
		Mode:   mode,
		Length: DefaultLength,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsFinished is true once the minute counter reaches the match length.
func (m *Match) IsFinished() bool { return m.Minute >= m.Length }

// Live reports whether every event is narrated. Any mode other than live is fast.
func (m *Match) Live() bool { return m.Mode == ModeLive }

// Opponent returns the other side.
func (m *Match) Opponent(t *roster.Team) *roster.Team {
	if t == m.Home {
		return m.Away
	}
	return m.Home
}

// SideOf returns the counters for t.
func (m *Match) SideOf(t *roster.Team) *Side {
	if t == m.Home {
		return &m.Stats.Home
	}
	return &m.Stats.Away
}

// GoalDifference is home score minus away score.
func (m *Match) GoalDifference() int { return m.Home.Score - m.Away.Score }

// MomentumGap is the absolute momentum difference between the sides.
func (m *Match) MomentumGap() float64 {
	gap := m.Home.Momentum - m.Away.Momentum
	if gap < 0 {
		return -gap
	}
	return gap
}

// ScoreLine renders "home-away".
func (m *Match) ScoreLine() string { return fmt.Sprintf("%d-%d", m.Home.Score, m.Away.Score) }

// AddEvent appends a minute-prefixed line to the log. Important events
// also go to the highlight history with the score at that moment.
func (m *Match) AddEvent(minute int, text string, ev EventType) {
	m.Log = append(m.Log, fmt.Sprintf("%d' %s", minute, text))
	if ev.Important() {
		m.History = append(m.History, Highlight{
			Minute: minute,
			Text:   text,
			Type:   ev,
			Score:  m.ScoreLine(),
		})
	}
}
