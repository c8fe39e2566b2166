// Command simulate plays one match offline and prints the commentary and the
// post-match report. Teams come from the roster store; a missing team is
// replaced by a random squad.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/okian/derby/internal/adapters/feed"
	"github.com/okian/derby/internal/adapters/repository"
	"github.com/okian/derby/internal/app"
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/model"
	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/internal/domain/squad"
	"github.com/okian/derby/pkg/logger"
)

type options struct {
	home, away string
	mode       string
	seed       uint64
	interval   time.Duration
	length     int
	lang       string
	driver     string
	store      string
	asJSON     bool
}

func main() {
	var o options
	flag.StringVar(&o.home, "home", "", "Home team name (random squad when empty or unknown)")
	flag.StringVar(&o.away, "away", "", "Away team name (random squad when empty or unknown)")
	flag.StringVar(&o.mode, "mode", match.ModeFast, "Match mode: live or fast")
	flag.Uint64Var(&o.seed, "seed", 0, "Random seed (0 picks one)")
	flag.DurationVar(&o.interval, "interval", 0, "Pause between live minutes")
	flag.IntVar(&o.length, "length", match.DefaultLength, "Minutes to play")
	flag.StringVar(&o.lang, "lang", "pl", "Commentary language")
	flag.StringVar(&o.driver, "store-driver", repository.DriverFile, "Roster store driver: file or sqlite")
	flag.StringVar(&o.store, "store", "teams.json", "Roster store path")
	flag.BoolVar(&o.asJSON, "json", false, "Print the report as JSON")
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")

	os.Exit(start(o))
}

func start(o options) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := simulate(ctx, o, os.Stdout, logger.Get()); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		return 1
	}
	return 0
}

// simulate loads the teams, plays the match and writes everything to w.
func simulate(ctx context.Context, o options, w io.Writer, log logger.Logger) error {
	mode := strings.ToLower(strings.TrimSpace(o.mode))
	if mode != match.ModeLive && mode != match.ModeFast {
		return fmt.Errorf("%w: %q", app.ErrInvalidMode, o.mode)
	}
	if o.seed == 0 {
		o.seed = rand.Uint64() //nolint:gosec // match seed
	}

	home, away, err := loadTeams(ctx, o, log)
	if err != nil {
		return err
	}
	if home.Name == away.Name {
		return fmt.Errorf("%w: %q", app.ErrSameTeam, home.Name)
	}

	runner := app.NewRunner(feed.NewWriterSink(w, false),
		app.WithLiveInterval(o.interval),
		app.WithLanguage(o.lang),
		app.WithRunnerLogger(log),
	)
	report, err := runner.Play(ctx, model.Fixture{
		MatchID: uuid.NewString(),
		Home:    home,
		Away:    away,
		Mode:    mode,
		Seed:    o.seed,
		Length:  o.length,
	})
	if err != nil {
		return err
	}

	if o.asJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printReport(w, report, o.seed)
}

// loadTeams reads both teams from the store, generating random squads for
// names that are empty or unknown. A missing store file is not an error.
func loadTeams(ctx context.Context, o options, log logger.Logger) (roster.Record, roster.Record, error) {
	store, err := repository.Open(ctx, o.driver, o.store, repository.WithLogger(log))
	if err != nil {
		return roster.Record{}, roster.Record{}, err
	}
	defer store.Close()

	rng := rand.New(rand.NewPCG(o.seed, o.seed>>1)) //nolint:gosec // squad generation
	home, err := team(ctx, store, o.home, "Gospodarze", rng)
	if err != nil {
		return roster.Record{}, roster.Record{}, err
	}
	away, err := team(ctx, store, o.away, "Goście", rng)
	if err != nil {
		return roster.Record{}, roster.Record{}, err
	}
	return home, away, nil
}

func team(ctx context.Context, store repository.Store, name, fallback string, rng squad.Rand) (roster.Record, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		rec, err := store.Get(ctx, name)
		switch {
		case err == nil:
			if len(rec.Players) == 0 {
				return roster.Record{}, fmt.Errorf("%w: %q", app.ErrEmptyRoster, name)
			}
			return rec, nil
		case !errors.Is(err, repository.ErrNotFound):
			return roster.Record{}, err
		}
	} else {
		name = fallback
	}
	return roster.Record{
		Name:    name,
		Style:   roster.StyleBalanced,
		Players: squad.Random(rng, squad.DefaultSize),
	}, nil
}

// printReport writes the post-match summary as aligned text.
func printReport(w io.Writer, r *match.Report, seed uint64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	h, a := r.Stats.Home, r.Stats.Away

	fmt.Fprintf(tw, "\n%s %d-%d %s\t(seed %d)\n\n", r.Home, r.HomeScore, r.AwayScore, r.Away, seed)
	fmt.Fprintf(tw, "\t%s\t%s\n", r.Home, r.Away)
	fmt.Fprintf(tw, "shots\t%d\t%d\n", h.Shots, a.Shots)
	fmt.Fprintf(tw, "on target\t%d\t%d\n", h.OnTarget, a.OnTarget)
	fmt.Fprintf(tw, "possession\t%d%%\t%d%%\n", r.HomePossession, r.AwayPossession)
	fmt.Fprintf(tw, "fouls\t%d\t%d\n", h.Fouls, a.Fouls)
	fmt.Fprintf(tw, "yellow cards\t%d\t%d\n", h.Yellows, a.Yellows)
	fmt.Fprintf(tw, "red cards\t%d\t%d\n", h.Reds, a.Reds)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Highlights) > 0 {
		fmt.Fprintln(w, "\nhighlights:")
		for _, hl := range r.Highlights {
			fmt.Fprintf(w, "  %3d' [%s] %s\n", hl.Minute, hl.Score, hl.Text)
		}
	}
	if p := r.ManOfTheMatch; p != nil {
		fmt.Fprintf(w, "\nman of the match: %s (%s, %s) %.1f\n", p.Name, p.Team, p.Position, p.Rating)
	}
	if r.Remark != "" {
		fmt.Fprintf(w, "\n%s\n", r.Remark)
	}
	return nil
}
