// Package model contains the values passed between the service, the queue
// and the workers.
package model

import (
	"time"

	"github.com/okian/derby/internal/domain/roster"
)

// Fixture is a scheduled match waiting for a worker. The rosters are
// snapshots taken at scheduling time, so later squad edits never reach a
// match that is already queued.
type Fixture struct {
	MatchID    string
	Home       roster.Record
	Away       roster.Record
	Mode       string
	Seed       uint64
	Length     int
	EnqueuedAt time.Time
}

// Label is a short human readable description used in logs.
func (f *Fixture) Label() string {
	return f.Home.Name + " vs " + f.Away.Name
}

// Wait reports how long the fixture has been queued at now.
func (f *Fixture) Wait(now time.Time) time.Duration {
	if f.EnqueuedAt.IsZero() {
		return 0
	}
	return now.Sub(f.EnqueuedAt)
}
