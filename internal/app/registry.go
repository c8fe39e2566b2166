package app

import (
	"slices"
	"sync"
	"time"

	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/types"
)

type entry struct {
	summary types.MatchSummary
	report  *match.Report
}

// registry remembers scheduled matches and their outcome. It implements
// Tracker for the runner.
type registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	max     int
	evicted func(id string)
}

func newRegistry(maxEntries int, evicted func(id string)) *registry {
	if evicted == nil {
		evicted = func(string) {}
	}
	return &registry{entries: map[string]*entry{}, max: maxEntries, evicted: evicted}
}

func (r *registry) add(s types.MatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.ID] = &entry{summary: s}
	r.order = append(r.order, s.ID)
	r.trim()
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop(id)
}

// trim forgets the oldest finished matches while over the cap. Queued and
// running matches are never forgotten.
func (r *registry) trim() {
	for i := 0; len(r.entries) > r.max && i < len(r.order); {
		id := r.order[i]
		if e := r.entries[id]; e != nil && e.summary.Status.Terminal() {
			r.drop(id)
			r.evicted(id)
			continue
		}
		i++
	}
}

func (r *registry) drop(id string) {
	delete(r.entries, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

func (r *registry) get(id string) (types.MatchSummary, *match.Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return types.MatchSummary{}, nil, false
	}
	return e.summary, e.report, true
}

// list returns the newest matches first.
func (r *registry) list() []types.MatchSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.MatchSummary, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.entries[r.order[i]].summary)
	}
	return out
}

func (r *registry) counts() map[types.MatchStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[types.MatchStatus]int{}
	for _, e := range r.entries {
		out[e.summary.Status]++
	}
	return out
}

func (r *registry) update(id string, fn func(e *entry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		fn(e)
	}
}

func (r *registry) Started(id string, at time.Time) {
	r.update(id, func(e *entry) {
		e.summary.Status = types.StatusRunning
		e.summary.StartedAt = &at
	})
}

func (r *registry) Progress(id string, minute, home, away int) {
	r.update(id, func(e *entry) {
		e.summary.Minute = minute
		e.summary.HomeScore = home
		e.summary.AwayScore = away
	})
}

func (r *registry) Finished(id string, report *match.Report, at time.Time) {
	r.update(id, func(e *entry) {
		e.summary.Status = types.StatusFinished
		e.summary.Minute = report.Minutes
		e.summary.HomeScore = report.HomeScore
		e.summary.AwayScore = report.AwayScore
		e.summary.FinishedAt = &at
		e.report = report
	})
	r.mu.Lock()
	r.trim()
	r.mu.Unlock()
}

func (r *registry) Aborted(id string, reason error, minute, home, away int, at time.Time) {
	r.update(id, func(e *entry) {
		e.summary.Status = types.StatusAborted
		e.summary.Minute = minute
		e.summary.HomeScore = home
		e.summary.AwayScore = away
		e.summary.Error = reason.Error()
		e.summary.FinishedAt = &at
	})
	r.mu.Lock()
	r.trim()
	r.mu.Unlock()
}
