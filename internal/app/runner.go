package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/derby/internal/adapters/feed"
	"github.com/okian/derby/internal/domain/commentary"
	"github.com/okian/derby/internal/domain/engine"
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/model"
	"github.com/okian/derby/pkg/logger"
	"github.com/okian/derby/pkg/metrics"
	"github.com/okian/derby/pkg/tracing"
)

// seedStream is the second PCG word; the fixture seed alone picks the match.
const seedStream = 0x9e3779b97f4a7c15

// Tracker follows matches through their lifecycle.
type Tracker interface {
	Started(id string, at time.Time)
	Progress(id string, minute, home, away int)
	Finished(id string, report *match.Report, at time.Time)
	Aborted(id string, reason error, minute, home, away int, at time.Time)
}

type nopTracker struct{}

func (nopTracker) Started(string, time.Time)                       {}
func (nopTracker) Progress(string, int, int, int)                  {}
func (nopTracker) Finished(string, *match.Report, time.Time)       {}
func (nopTracker) Aborted(string, error, int, int, int, time.Time) {}

// Runner plays fixtures from kick-off to the final whistle. Every call
// builds its own engine, renderer and random source, so one Runner can
// serve all workers at once.
type Runner struct {
	sink         feed.Sink
	tracker      Tracker
	logger       logger.Logger
	liveInterval time.Duration
	lang         string
	recent       int
	tuning       engine.Tuning
	tracer       trace.Tracer
}

// NewRunner creates a runner delivering lines to sink.
func NewRunner(sink feed.Sink, opts ...RunnerOption) *Runner {
	r := &Runner{
		sink:         sink,
		tracker:      nopTracker{},
		liveInterval: time.Second,
		recent:       10,
		tuning:       engine.DefaultTuning(),
		tracer:       tracing.Tracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get()
	}
	r.logger = r.logger.Named("runner")
	return r
}

// Run plays the fixture and discards the report.
func (r *Runner) Run(ctx context.Context, f model.Fixture) error { //nolint:gocritic // hugeParam: worker contract
	_, err := r.Play(ctx, f)
	return err
}

// Play simulates the fixture minute by minute, delivering each new line to
// the sink. A cancelled context, an engine error or a panic abort the match
// at the last completed minute and return an ErrMatchAborted error.
func (r *Runner) Play(ctx context.Context, f model.Fixture) (report *match.Report, err error) { //nolint:gocritic // hugeParam: worker contract
	start := time.Now()
	log := r.logger.With(logger.String("match_id", f.MatchID))

	ctx, span := r.tracer.Start(ctx, "derby.match", trace.WithAttributes(
		attribute.String("derby.match.id", f.MatchID),
		attribute.String("derby.match.home", f.Home.Name),
		attribute.String("derby.match.away", f.Away.Name),
		attribute.String("derby.match.mode", f.Mode),
		attribute.Int64("derby.match.seed", int64(f.Seed)), //nolint:gosec // attribute only
	))
	defer span.End()

	rng := rand.New(rand.NewPCG(f.Seed, seedStream)) //nolint:gosec // simulation, not crypto
	renderer := commentary.NewRenderer(rng,
		commentary.WithLanguage(r.lang),
		commentary.WithRecent(r.recent),
	)
	eng := engine.New(rng, renderer,
		engine.WithTuning(r.tuning),
		engine.WithHooks(r.hooks(ctx, log)),
	)
	m := match.New(f.Home.Team(), f.Away.Team(), f.Mode,
		match.WithID(f.MatchID),
		match.WithLength(f.Length),
	)

	metrics.RecordMatchStarted()
	r.tracker.Started(m.ID, start)
	log.Info(ctx, "kick-off",
		logger.String("home", m.Home.Name),
		logger.String("away", m.Away.Name),
		logger.String("mode", m.Mode),
		logger.Int64("seed", int64(f.Seed)), //nolint:gosec // log only
	)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic at minute %d: %v", ErrMatchAborted, m.Minute, p)
		}
		if err == nil {
			return
		}
		report = nil
		r.abort(context.WithoutCancel(ctx), log, span, m, err, start)
	}()

	r.announce(ctx, log, m, renderer.KickOff)

	delivered := len(m.Log)
	for !m.IsFinished() {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("%w at minute %d: %w", ErrMatchAborted, m.Minute, cerr)
		}
		if aerr := eng.Advance(m); aerr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMatchAborted, aerr)
		}
		for _, line := range m.Log[delivered:] {
			r.deliver(ctx, log, m.ID, line)
		}
		delivered = len(m.Log)
		r.tracker.Progress(m.ID, m.Minute, m.Home.Score, m.Away.Score)

		if m.Live() && !m.IsFinished() {
			if werr := r.pause(ctx); werr != nil {
				return nil, fmt.Errorf("%w at minute %d: %w", ErrMatchAborted, m.Minute, werr)
			}
		}
	}

	r.announce(ctx, log, m, renderer.FullTime)

	rep := m.Report()
	if !rep.DominatorWon {
		remark, rerr := renderer.Remark(m)
		if rerr != nil {
			metrics.RecordRenderFallback()
			log.Warn(ctx, "remark template failed", logger.Error(rerr))
		}
		rep.Remark = remark
	}

	elapsed := time.Since(start)
	metrics.RecordMatchFinished(rep.Result, rep.HomeScore+rep.AwayScore, float64(elapsed.Milliseconds()))
	span.SetAttributes(
		attribute.Int("derby.match.home_score", rep.HomeScore),
		attribute.Int("derby.match.away_score", rep.AwayScore),
		attribute.String("derby.match.result", rep.Result),
	)
	r.tracker.Finished(m.ID, &rep, time.Now())
	log.Info(ctx, "full time",
		logger.String("score", m.ScoreLine()),
		logger.String("result", rep.Result),
		logger.Duration("elapsed", elapsed),
	)
	return &rep, nil
}

func (r *Runner) hooks(ctx context.Context, log logger.Logger) engine.Hooks {
	return engine.Hooks{
		OnMinute: func(*match.Match) {
			metrics.RecordMinuteSimulated()
		},
		OnEvent: func(m *match.Match, o match.Outcome) {
			metrics.RecordMatchEvent(o.Type.String())
			if o.Type.Important() {
				fields := []logger.Field{
					logger.Int("minute", m.Minute),
					logger.String("event", o.Type.String()),
					logger.String("score", m.ScoreLine()),
				}
				if o.Player != nil {
					fields = append(fields, logger.String("player", o.Player.Name))
				}
				log.Debug(ctx, "match event", fields...)
			}
		},
		OnRenderError: func(m *match.Match, ev match.EventType, err error) {
			metrics.RecordRenderFallback()
			log.Warn(ctx, "commentary template failed, using raw text",
				logger.Int("minute", m.Minute),
				logger.String("event", ev.String()),
				logger.Error(err),
			)
		},
	}
}

func (r *Runner) announce(ctx context.Context, log logger.Logger, m *match.Match, render func(*match.Match) (string, error)) {
	text, err := render(m)
	if err != nil {
		metrics.RecordRenderFallback()
		log.Warn(ctx, "announcement template failed", logger.Error(err))
	}
	if text != "" {
		r.deliver(ctx, log, m.ID, text)
	}
}

// deliver hands one line to the sink. Failures are logged and counted only.
func (r *Runner) deliver(ctx context.Context, log logger.Logger, matchID, line string) {
	if r.sink == nil {
		return
	}
	if err := r.sink.Deliver(ctx, matchID, line); err != nil {
		metrics.RecordDeliveryError()
		metrics.RecordErrorByComponent("feed", "delivery")
		log.Warn(ctx, "feed delivery failed", logger.Error(err))
	}
}

func (r *Runner) pause(ctx context.Context) error {
	if r.liveInterval <= 0 {
		return nil
	}
	t := time.NewTimer(r.liveInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) abort(ctx context.Context, log logger.Logger, span trace.Span, m *match.Match, reason error, start time.Time) {
	metrics.RecordMatchAborted(float64(time.Since(start).Milliseconds()))
	metrics.RecordErrorByComponent("runner", "aborted")
	span.RecordError(reason)
	span.SetStatus(codes.Error, "match aborted")
	r.deliver(ctx, log, m.ID, fmt.Sprintf("Match abandoned at %d' (%s): %v", m.Minute, m.ScoreLine(), reason))
	r.tracker.Aborted(m.ID, reason, m.Minute, m.Home.Score, m.Away.Score, time.Now())
	log.Error(ctx, "match aborted",
		logger.Int("minute", m.Minute),
		logger.String("score", m.ScoreLine()),
		logger.Error(reason),
	)
}
