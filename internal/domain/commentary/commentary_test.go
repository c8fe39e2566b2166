package commentary_test

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/okian/derby/internal/domain/commentary"
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func newMatch(mode string) *match.Match {
	home := roster.NewTeam("Lwy", []*roster.Player{roster.NewPlayer("Kowalski", 80, "ST")})
	away := roster.NewTeam("Orły", []*roster.Player{roster.NewPlayer("Nowak", 78, "GK")})
	return match.New(home, away, mode)
}

func TestFormat(t *testing.T) {
	Convey("Given the template formatter", t, func() {
		values := map[string]string{"team": "Lwy", "player": "Kowalski"}

		Convey("When all placeholders are known", func() {
			out, err := commentary.Format("{player} strzela dla {team}!", values)
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "Kowalski strzela dla Lwy!")
		})

		Convey("When braces are escaped", func() {
			out, err := commentary.Format("{{team}} is {team}", values)
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "{team} is Lwy")
		})

		Convey("When a placeholder is unknown", func() {
			_, err := commentary.Format("{coach} shouts", values)
			So(errors.Is(err, commentary.ErrFormat), ShouldBeTrue)
		})

		Convey("When braces are unbalanced", func() {
			_, err := commentary.Format("{team", values)
			So(errors.Is(err, commentary.ErrFormat), ShouldBeTrue)
			_, err = commentary.Format("team}", values)
			So(errors.Is(err, commentary.ErrFormat), ShouldBeTrue)
		})
	})
}

func TestPhaseOf(t *testing.T) {
	Convey("Given match states", t, func() {
		m := newMatch(match.ModeLive)

		m.Minute = 10
		So(commentary.PhaseOf(m), ShouldEqual, commentary.PhaseEarly)
		m.Minute = 30
		So(commentary.PhaseOf(m), ShouldEqual, commentary.PhaseEarly)
		m.Minute = 31
		So(commentary.PhaseOf(m), ShouldEqual, commentary.PhaseMid)
		m.Minute = 71
		So(commentary.PhaseOf(m), ShouldEqual, commentary.PhaseLate)

		m.PossessionStreak = 2
		So(commentary.PhaseOf(m), ShouldEqual, commentary.PhasePressure)
		m.PossessionStreak = 0
		m.Home.Momentum = 75
		So(commentary.PhaseOf(m), ShouldEqual, commentary.PhasePressure)

		m.Chaos = 0.61
		So(commentary.PhaseOf(m), ShouldEqual, commentary.PhaseChaos)
		So(commentary.PhaseChaos.String(), ShouldEqual, "chaos")
	})
}

func TestRenderer(t *testing.T) {
	Convey("Given a renderer with a seeded source", t, func() {
		rng := rand.New(rand.NewPCG(7, 11))
		r := commentary.NewRenderer(rng)
		m := newMatch(match.ModeLive)
		striker := m.Home.Players[0]

		Convey("When a goal is rendered", func() {
			text, err := r.Render(m, match.Goal, match.Subject{Team: m.Home, Player: striker})

			Convey("Then the placeholders are filled", func() {
				So(err, ShouldBeNil)
				So(text, ShouldContainSubstring, "Kowalski")
				So(text, ShouldNotContainSubstring, "{")
			})
		})

		Convey("When the subject is missing", func() {
			r2 := commentary.NewRenderer(rng, commentary.WithCatalog(&commentary.Catalog{
				DefaultTeam:   "Drużyna",
				DefaultPlayer: "Zawodnik",
				Events:        map[match.EventType][]string{match.Shot: {"{player} z {team}"}},
			}))
			text, err := r2.Render(m, match.Shot, match.Subject{})
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "Zawodnik z Drużyna")
		})

		Convey("When the same event is rendered repeatedly", func() {
			seen := map[string]bool{}
			for i := 0; i < 5; i++ {
				text, _ := r.Render(m, match.Goal, match.Subject{Team: m.Home, Player: striker})
				seen[text] = true
			}

			Convey("Then no template repeats while unused ones remain", func() {
				So(len(seen), ShouldEqual, 5)
			})

			Convey("And once exhausted it still returns text", func() {
				text, err := r.Render(m, match.Goal, match.Subject{Team: m.Home, Player: striker})
				So(err, ShouldBeNil)
				So(text, ShouldNotBeEmpty)
			})
		})

		Convey("When the match is in fast mode", func() {
			fast := newMatch(match.ModeFast)

			Convey("Then only goals and red cards are narrated", func() {
				for _, ev := range []match.EventType{match.Nothing, match.Attack, match.Shot, match.Save, match.Foul, match.YellowCard} {
					text, err := r.Render(fast, ev, match.Subject{Team: fast.Home})
					So(err, ShouldBeNil)
					So(text, ShouldBeEmpty)
				}
				goal, _ := r.Render(fast, match.Goal, match.Subject{Team: fast.Home, Player: striker})
				red, _ := r.Render(fast, match.RedCard, match.Subject{Team: fast.Away, Player: fast.Away.Players[0]})
				So(goal, ShouldNotBeEmpty)
				So(red, ShouldContainSubstring, "Nowak")
			})
		})

		Convey("When a pressure minute names the team", func() {
			m.PossessionStreak = 3
			text, err := r.Render(m, match.Nothing, match.Subject{Team: m.Away})
			So(err, ShouldBeNil)
			So(text, ShouldNotContainSubstring, "{team}")
		})

		Convey("When a template is malformed", func() {
			bad := commentary.NewRenderer(rng, commentary.WithCatalog(&commentary.Catalog{
				Events: map[match.EventType][]string{match.Foul: {"{player} fauluje {sędzia}"}},
			}))
			text, err := bad.Render(m, match.Foul, match.Subject{Player: striker})

			Convey("Then the raw template comes back with ErrFormat", func() {
				So(errors.Is(err, commentary.ErrFormat), ShouldBeTrue)
				So(text, ShouldEqual, "{player} fauluje {sędzia}")
			})
		})

		Convey("When a catalog has no templates for an event", func() {
			empty := commentary.NewRenderer(rng, commentary.WithCatalog(&commentary.Catalog{}))
			text, err := empty.Render(m, match.Attack, match.Subject{})
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "...")
		})

		Convey("When the match starts and ends", func() {
			m.Home.Score = 2
			start, err := r.KickOff(m)
			So(err, ShouldBeNil)
			So(start, ShouldContainSubstring, "Lwy - Orły")
			end, err := r.FullTime(m)
			So(err, ShouldBeNil)
			So(end, ShouldEqual, "Koniec meczu! Lwy 2-0 Orły")

			silent := commentary.NewRenderer(rng, commentary.WithCatalog(&commentary.Catalog{}))
			text, err := silent.KickOff(m)
			So(err, ShouldBeNil)
			So(text, ShouldBeEmpty)
		})

		Convey("When a meta remark is requested", func() {
			m.Home.Momentum = 90
			seenDominator := false
			for i := 0; i < 10; i++ {
				text, err := r.Remark(m)
				So(err, ShouldBeNil)
				if strings.Contains(text, "Lwy") {
					seenDominator = true
				}
			}
			So(seenDominator, ShouldBeTrue)
		})
	})
}

func TestCatalogFor(t *testing.T) {
	Convey("Given language preferences", t, func() {
		So(commentary.CatalogFor("en-GB").Tag, ShouldEqual, language.English)
		So(commentary.CatalogFor("pl").Tag, ShouldEqual, language.Polish)
		So(commentary.CatalogFor("fr, en;q=0.5").Tag, ShouldEqual, language.English)
		So(commentary.CatalogFor("").Tag, ShouldEqual, language.Polish)
		So(commentary.CatalogFor("!!").Tag, ShouldEqual, language.Polish)

		r := commentary.NewRenderer(rand.New(rand.NewPCG(1, 1)), commentary.WithLanguage("en"))
		So(r.Catalog().DefaultPlayer, ShouldEqual, "The player")
	})
}
