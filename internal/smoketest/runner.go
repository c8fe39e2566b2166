package smoketest

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/derby/internal/domain/types"
	"github.com/okian/derby/pkg/logger"
)

// ErrFailed is returned when at least one match failed verification.
var ErrFailed = errors.New("smoke test failed")

// fixture is one scheduled pairing.
type fixture struct {
	home, away string
	seed       uint64
}

// Run executes the complete smoke test.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg = cfg.withDefaults()
	log := logger.Get().Named("smoke")
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting derby smoke test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("matches", cfg.Matches),
		logger.Int("teams", cfg.Teams),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Create random teams
	teams, err := createTeams(ctx, client, cfg.Teams)
	stats.TeamsCreated = len(teams)
	if !cfg.Keep {
		defer cleanup(context.WithoutCancel(ctx), log, client, teams)
	}
	if err != nil {
		return stats, fmt.Errorf("team creation failed: %w", err)
	}

	// Step 3: Play matches concurrently
	outcomes := playAll(ctx, cfg, client, fixtures(teams, cfg.Matches))

	// Step 4: Tally and report
	var failures []error
	for _, o := range outcomes {
		tally(stats, o)
		switch {
		case errors.Is(o.Err, ErrBackpressure):
		case o.Err != nil:
			failures = append(failures, o.Err)
			log.Warn(ctx, "match failed", logger.String("match", o.Summary.ID), logger.Error(o.Err))
		case cfg.Verbose:
			log.Info(ctx, "match verified",
				logger.String("match", o.Summary.ID),
				logger.String("fixture", o.Summary.Home+" vs "+o.Summary.Away),
				logger.String("score", fmt.Sprintf("%d-%d", o.Summary.HomeScore, o.Summary.AwayScore)),
			)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if len(failures) > 0 {
		return stats, fmt.Errorf("%w: %w", ErrFailed, errors.Join(failures...))
	}
	log.Info(ctx, "smoke test completed successfully")
	return stats, nil
}

func createTeams(ctx context.Context, client *Client, n int) ([]string, error) {
	run := uuid.NewString()[:8]
	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Smoke %s %02d", run, i)
		if _, err := client.CreateRandomTeam(ctx, name); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

func cleanup(ctx context.Context, log logger.Logger, client *Client, teams []string) {
	for _, name := range teams {
		if err := client.DeleteTeam(ctx, name); err != nil {
			log.Warn(ctx, "failed to delete team", logger.String("team", name), logger.Error(err))
		}
	}
}

// fixtures pairs teams round-robin with random seeds.
func fixtures(teams []string, n int) []fixture {
	out := make([]fixture, 0, n)
	for i := 0; i < n; i++ {
		home := i % len(teams)
		away := (home + 1 + (i/len(teams))%(len(teams)-1)) % len(teams)
		out = append(out, fixture{home: teams[home], away: teams[away], seed: rand.Uint64()}) //nolint:gosec // match seeds
	}
	return out
}

// playAll runs fixtures through a fixed set of workers.
func playAll(ctx context.Context, cfg Config, client *Client, all []fixture) []Outcome {
	jobs := make(chan fixture, cfg.Workers*WorkerChannelMultiplier)
	results := make(chan Outcome, len(all))
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				results <- play(ctx, cfg, client, f)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, f := range all {
			select {
			case <-ctx.Done():
				return
			case jobs <- f:
			}
		}
	}()

	wg.Wait()
	close(results)

	out := make([]Outcome, 0, len(all))
	for o := range results {
		out = append(out, o)
	}
	return out
}

// play schedules one match, waits for it to end and verifies its report.
func play(ctx context.Context, cfg Config, client *Client, f fixture) Outcome {
	summary, err := client.Schedule(ctx, f.home, f.away, f.seed)
	if err != nil {
		return Outcome{Err: err}
	}

	summary, err = waitFinished(ctx, cfg, client, summary.ID)
	if err != nil {
		return Outcome{Summary: summary, Err: err}
	}
	if summary.Status == types.StatusAborted {
		return Outcome{Summary: summary}
	}

	report, err := client.Report(ctx, summary.ID)
	if err != nil {
		return Outcome{Summary: summary, Err: err}
	}
	goals, err := verifyReport(summary, report)
	return Outcome{Summary: summary, Goals: goals, Err: err}
}

func waitFinished(ctx context.Context, cfg Config, client *Client, id string) (types.MatchSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Deadline)
	defer cancel()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for {
		summary, err := client.Match(ctx, id)
		if err != nil {
			return summary, err
		}
		if summary.Status.Terminal() {
			return summary, nil
		}
		select {
		case <-ctx.Done():
			return summary, fmt.Errorf("match %s still %s: %w", id, summary.Status, ctx.Err())
		case <-ticker.C:
		}
	}
}

func tally(stats *Stats, o Outcome) {
	switch {
	case errors.Is(o.Err, ErrBackpressure):
		stats.Rejected++
		return
	case o.Summary.ID == "":
		stats.MatchesFailed++
		return
	}
	stats.MatchesScheduled++
	switch {
	case o.Err != nil:
		stats.MatchesFailed++
	case o.Summary.Status == types.StatusAborted:
		stats.MatchesAborted++
	default:
		stats.MatchesFinished++
		stats.Goals += o.Goals
		switch {
		case o.Summary.HomeScore > o.Summary.AwayScore:
			stats.HomeWins++
		case o.Summary.HomeScore < o.Summary.AwayScore:
			stats.AwayWins++
		default:
			stats.Draws++
		}
	}
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var goalsPerMatch, homeWinRate, matchesPerSecond float64
	if stats.MatchesFinished > 0 {
		goalsPerMatch = float64(stats.Goals) / float64(stats.MatchesFinished)
		homeWinRate = float64(stats.HomeWins) / float64(stats.MatchesFinished) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesFinished) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("teamsCreated", stats.TeamsCreated),
		logger.Int("matchesScheduled", stats.MatchesScheduled),
		logger.Int("matchesFinished", stats.MatchesFinished),
		logger.Int("matchesAborted", stats.MatchesAborted),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("rejected", stats.Rejected),
		logger.Int("goals", stats.Goals),
		logger.Float64("goalsPerMatch", goalsPerMatch),
		logger.Float64("homeWinRate", homeWinRate),
		logger.Int("draws", stats.Draws),
		logger.Duration("duration", stats.Duration),
		logger.Float64("matchesPerSecond", matchesPerSecond),
	)
}
