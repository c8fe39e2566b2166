package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/derby/internal/adapters/feed"
	"github.com/okian/derby/internal/app"
	"github.com/okian/derby/internal/domain/engine"
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/model"
	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func record(name string, ovr int) roster.Record {
	positions := []string{"GK", "CB", "CB", "LB", "RB", "CM", "CM", "CAM", "LW", "RW", "ST"}
	rec := roster.Record{Name: name, Style: roster.StyleBalanced}
	for i, pos := range positions {
		rec.Players = append(rec.Players, roster.PlayerRecord{
			Name:     name + "_" + string(rune('A'+i)),
			Overall:  ovr,
			Position: pos,
		})
	}
	return rec
}

func fixture(id, mode string, seed uint64) model.Fixture {
	return model.Fixture{
		MatchID: id,
		Home:    record("Lwy", 78),
		Away:    record("Orły", 74),
		Mode:    mode,
		Seed:    seed,
		Length:  match.DefaultLength,
	}
}

type recordingTracker struct {
	mu       sync.Mutex
	started  int
	minutes  []int
	finished *match.Report
	aborted  error
	panicAt  int
	onAbort  func()
}

func (t *recordingTracker) Started(string, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started++
}

func (t *recordingTracker) Progress(_ string, minute, _, _ int) {
	t.mu.Lock()
	t.minutes = append(t.minutes, minute)
	t.mu.Unlock()
	if t.panicAt > 0 && minute == t.panicAt {
		panic("scoreboard offline")
	}
}

func (t *recordingTracker) Finished(_ string, r *match.Report, _ time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished = r
}

func (t *recordingTracker) Aborted(_ string, reason error, _, _, _ int, _ time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aborted = reason
	if t.onAbort != nil {
		t.onAbort()
	}
}

func texts(b *feed.Buffer, id string) []string {
	var out []string
	for _, l := range b.Since(id, 0) {
		out = append(out, l.Text)
	}
	return out
}

func TestRunnerPlay(t *testing.T) {
	Convey("Given a runner feeding a buffer", t, func() {
		ctx := context.Background()
		buf := feed.NewBuffer()
		tracker := &recordingTracker{}
		r := app.NewRunner(buf,
			app.WithRunnerLogger(logger.Discard()),
			app.WithTracker(tracker),
			app.WithLiveInterval(0),
		)

		Convey("When a fast match is played", func() {
			rep, err := r.Play(ctx, fixture("m-fast", match.ModeFast, 42))

			Convey("Then it runs the full length and reports", func() {
				So(err, ShouldBeNil)
				So(rep.Minutes, ShouldEqual, match.DefaultLength)
				So(tracker.started, ShouldEqual, 1)
				So(tracker.minutes, ShouldHaveLength, match.DefaultLength)
				So(tracker.finished, ShouldEqual, rep)
				So(rep.ManOfTheMatch, ShouldNotBeNil)
			})

			Convey("Then the feed is framed by kick-off and full time", func() {
				lines := texts(buf, "m-fast")
				So(len(lines), ShouldBeGreaterThanOrEqualTo, 2)
				So(lines[0], ShouldContainSubstring, "Lwy - Orły")
				So(lines[len(lines)-1], ShouldStartWith, "Koniec meczu!")
			})

			Convey("Then the score matches the goal highlights", func() {
				goals := map[string]int{}
				for _, p := range rep.Scorers {
					goals[p.Team] += p.Goals
				}
				So(goals["Lwy"], ShouldEqual, rep.HomeScore)
				So(goals["Orły"], ShouldEqual, rep.AwayScore)

				highlighted := 0
				for _, h := range rep.Highlights {
					if h.Type == match.Goal {
						highlighted++
					}
				}
				So(highlighted, ShouldEqual, rep.HomeScore+rep.AwayScore)
			})

			Convey("Then a remark appears only when the dominant side did not win", func() {
				So(rep.Remark == "", ShouldEqual, rep.DominatorWon)
			})
		})

		Convey("When the same seed is played twice", func() {
			_, err1 := r.Play(ctx, fixture("a", match.ModeLive, 7))
			_, err2 := r.Play(ctx, fixture("b", match.ModeLive, 7))
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)

			Convey("Then both feeds are identical", func() {
				So(texts(buf, "a"), ShouldResemble, texts(buf, "b"))
				So(len(texts(buf, "a")), ShouldBeGreaterThan, 2)
			})
		})

		Convey("When a live match is cancelled", func() {
			slow := app.NewRunner(buf,
				app.WithRunnerLogger(logger.Discard()),
				app.WithTracker(tracker),
				app.WithLiveInterval(20*time.Millisecond),
			)
			var atAbort []string
			tracker.onAbort = func() { atAbort = texts(buf, "m-live") }
			cctx, cancel := context.WithTimeout(ctx, 70*time.Millisecond)
			defer cancel()
			rep, err := slow.Play(cctx, fixture("m-live", match.ModeLive, 3))

			Convey("Then it stops at a minute boundary as aborted", func() {
				So(rep, ShouldBeNil)
				So(errors.Is(err, app.ErrMatchAborted), ShouldBeTrue)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
				So(tracker.aborted, ShouldNotBeNil)
				So(tracker.finished, ShouldBeNil)
				So(len(tracker.minutes), ShouldBeLessThan, match.DefaultLength)

				lines := texts(buf, "m-live")
				So(lines[len(lines)-1], ShouldStartWith, "Match abandoned")
			})

			Convey("Then the diagnostic is in the feed before the status turns aborted", func() {
				So(atAbort, ShouldNotBeEmpty)
				So(atAbort[len(atAbort)-1], ShouldStartWith, "Match abandoned")
			})
		})

		Convey("When a squad is empty", func() {
			f := fixture("m-empty", match.ModeFast, 1)
			f.Away.Players = nil
			_, err := r.Play(ctx, f)

			Convey("Then the engine error aborts only this match", func() {
				So(errors.Is(err, app.ErrMatchAborted), ShouldBeTrue)
				So(errors.Is(err, engine.ErrEmptySquad), ShouldBeTrue)
			})
		})

		Convey("When something panics mid-match", func() {
			tracker.panicAt = 30
			_, err := r.Play(ctx, fixture("m-panic", match.ModeFast, 9))

			Convey("Then the panic becomes an abort", func() {
				So(errors.Is(err, app.ErrMatchAborted), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "scoreboard offline")
				So(tracker.aborted, ShouldNotBeNil)
			})
		})

		Convey("When the sink keeps failing", func() {
			failing := feed.SinkFunc(func(context.Context, string, string) error {
				return errors.New("client gone")
			})
			stubborn := app.NewRunner(failing, app.WithRunnerLogger(logger.Discard()))
			rep, err := stubborn.Play(ctx, fixture("m-sink", match.ModeFast, 5))

			Convey("Then the match still finishes", func() {
				So(err, ShouldBeNil)
				So(rep.Minutes, ShouldEqual, match.DefaultLength)
			})
		})

		Convey("When English commentary is requested", func() {
			en := app.NewRunner(buf, app.WithRunnerLogger(logger.Discard()), app.WithLanguage("en"))
			_, err := en.Play(ctx, fixture("m-en", match.ModeFast, 11))
			So(err, ShouldBeNil)
			lines := texts(buf, "m-en")
			So(lines[0], ShouldContainSubstring, "under way")
			So(strings.HasPrefix(lines[len(lines)-1], "Full time!"), ShouldBeTrue)
		})
	})
}
