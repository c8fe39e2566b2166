package match

import (
	"math"

	"github.com/okian/derby/internal/domain/roster"
)

// Result labels.
const (
	ResultHome = "home"
	ResultAway = "away"
	ResultDraw = "draw"
)

// PlayerLine is a player's match summary.
type PlayerLine struct {
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	Position string  `json:"position"`
	Rating   float64 `json:"rating"`
	Goals    int     `json:"goals"`
	Assists  int     `json:"assists"`
}

// Report is the post-match summary.
type Report struct {
	Home           string       `json:"home"`
	Away           string       `json:"away"`
	HomeScore      int          `json:"home_score"`
	AwayScore      int          `json:"away_score"`
	Result         string       `json:"result"`
	Minutes        int          `json:"minutes"`
	Stats          Stats        `json:"stats"`
	HomePossession int          `json:"home_possession_pct"`
	AwayPossession int          `json:"away_possession_pct"`
	Highlights     []Highlight  `json:"highlights"`
	ManOfTheMatch  *PlayerLine  `json:"man_of_the_match,omitempty"`
	Dominator      string       `json:"dominator"`
	DominatorWon   bool         `json:"dominator_won"`
	Remark         string       `json:"remark,omitempty"`
	Scorers        []PlayerLine `json:"scorers"`
}

// Result returns which side won, or draw.
func (m *Match) Result() string {
	switch d := m.GoalDifference(); {
	case d > 0:
		return ResultHome
	case d < 0:
		return ResultAway
	default:
		return ResultDraw
	}
}

// Dominator is the side with the higher momentum; away wins ties.
func (m *Match) Dominator() *roster.Team {
	if m.Home.Momentum > m.Away.Momentum {
		return m.Home
	}
	return m.Away
}

// PossessionShare returns rounded possession percentages. With no recorded
// possession it reports 50/50.
func (m *Match) PossessionShare() (home, away int) {
	total := m.Stats.Home.PossessionMinutes + m.Stats.Away.PossessionMinutes
	if total == 0 {
		return 50, 50
	}
	home = int(math.Round(100 * float64(m.Stats.Home.PossessionMinutes) / float64(total)))
	return home, 100 - home
}

// ManOfTheMatch picks the best player by rating, then goals, then assists.
// The first player in home-then-away order wins a full tie.
func (m *Match) ManOfTheMatch() (*roster.Player, *roster.Team) {
	var best *roster.Player
	var bestTeam *roster.Team
	for _, t := range []*roster.Team{m.Home, m.Away} {
		for _, p := range t.Players {
			if best == nil || better(p, best) {
				best, bestTeam = p, t
			}
		}
	}
	return best, bestTeam
}

func better(a, b *roster.Player) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.Goals != b.Goals {
		return a.Goals > b.Goals
	}
	return a.Assists > b.Assists
}

// Report builds the post-match summary. Remark is left for the narrator.
func (m *Match) Report() Report {
	hp, ap := m.PossessionShare()
	dom := m.Dominator()
	r := Report{
		Home:           m.Home.Name,
		Away:           m.Away.Name,
		HomeScore:      m.Home.Score,
		AwayScore:      m.Away.Score,
		Result:         m.Result(),
		Minutes:        m.Minute,
		Stats:          m.Stats,
		HomePossession: hp,
		AwayPossession: ap,
		Highlights:     append([]Highlight(nil), m.History...),
		Dominator:      dom.Name,
		DominatorWon:   dom.Score > m.Opponent(dom).Score,
		Scorers:        []PlayerLine{},
	}
	if p, t := m.ManOfTheMatch(); p != nil {
		line := lineOf(p, t)
		r.ManOfTheMatch = &line
	}
	for _, t := range []*roster.Team{m.Home, m.Away} {
		for _, p := range t.Players {
			if p.Goals > 0 {
				r.Scorers = append(r.Scorers, lineOf(p, t))
			}
		}
	}
	return r
}

func lineOf(p *roster.Player, t *roster.Team) PlayerLine {
	return PlayerLine{
		Name:     p.Name,
		Team:     t.Name,
		Position: p.Position,
		Rating:   p.Rating,
		Goals:    p.Goals,
		Assists:  p.Assists,
	}
}
