// Package smoketest drives a running derby server over HTTP: it creates
// random teams, plays a batch of fast matches concurrently and checks every
// report against the live match state.
package smoketest

import (
	"time"

	"github.com/okian/derby/internal/domain/types"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Matches      int           // Number of matches to schedule
	Teams        int           // Number of random teams to create
	Workers      int           // Number of concurrent clients
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between match status polls
	Deadline     time.Duration // How long a single match may take
	Keep         bool          // Keep the created teams afterwards
	Verbose      bool          // Log every match
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:9080"
	}
	if c.Matches <= 0 {
		c.Matches = DefaultMatches
	}
	if c.Teams < 2 {
		c.Teams = DefaultTeams
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Deadline <= 0 {
		c.Deadline = DefaultDeadline
	}
	return c
}

// Outcome is the verified result of one match.
type Outcome struct {
	Summary types.MatchSummary
	Goals   int
	Err     error
}

// Stats holds smoke run statistics.
type Stats struct {
	TeamsCreated     int
	MatchesScheduled int
	MatchesFinished  int
	MatchesAborted   int
	MatchesFailed    int
	Rejected         int
	Goals            int
	HomeWins         int
	AwayWins         int
	Draws            int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
