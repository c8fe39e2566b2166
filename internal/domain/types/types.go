// Package types contains the read models returned by the service and
// serialised by the HTTP API.
package types

import (
	"time"

	"github.com/okian/derby/internal/domain/roster"
)

// MatchStatus is the lifecycle state of a scheduled match.
type MatchStatus string

// Match statuses.
const (
	StatusQueued   MatchStatus = "queued"
	StatusRunning  MatchStatus = "running"
	StatusFinished MatchStatus = "finished"
	StatusAborted  MatchStatus = "aborted"
)

// Terminal reports whether the match will not change any more.
func (s MatchStatus) Terminal() bool {
	return s == StatusFinished || s == StatusAborted
}

// TeamSummary is a team as listed by the roster endpoints.
type TeamSummary struct {
	Name           string  `json:"name"`
	Style          string  `json:"style"`
	Players        int     `json:"players"`
	AverageOverall float64 `json:"average_ovr"`
}

// NewTeamSummary summarises a stored team.
func NewTeamSummary(rec *roster.Record) TeamSummary {
	return TeamSummary{
		Name:           rec.Name,
		Style:          rec.Style,
		Players:        len(rec.Players),
		AverageOverall: rec.AverageOverall(),
	}
}

// MatchSummary is the current state of one match.
type MatchSummary struct {
	ID         string      `json:"id"`
	Home       string      `json:"home"`
	Away       string      `json:"away"`
	Mode       string      `json:"mode"`
	Seed       uint64      `json:"seed"`
	Status     MatchStatus `json:"status"`
	Minute     int         `json:"minute"`
	HomeScore  int         `json:"home_score"`
	AwayScore  int         `json:"away_score"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// FeedLine is one delivered line of a match feed. Seq starts at 1.
type FeedLine struct {
	Seq  int    `json:"seq"`
	Text string `json:"text"`
}
