package roster_test

import (
	"testing"

	"github.com/okian/derby/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayer(t *testing.T) {
	Convey("Given a fresh player", t, func() {
		p := roster.NewPlayer("Nowak", 80, "ST")

		Convey("Then the starting state should be set", func() {
			So(p.Condition, ShouldEqual, roster.FullCondition)
			So(p.Rating, ShouldEqual, roster.StartingRating)
			So(p.Confidence, ShouldEqual, 0)
			So(p.EffectiveRating(), ShouldEqual, 80)
			So(p.Role(), ShouldEqual, roster.RoleForward)
		})

		Convey("When the position is blank", func() {
			q := roster.NewPlayer("Anon", 70, " ")
			So(q.Position, ShouldEqual, roster.DefaultPosition)
			So(q.Role(), ShouldEqual, roster.RoleMidfielder)
		})

		Convey("When the rating is pushed past its bounds", func() {
			for i := 0; i < 20; i++ {
				p.UpdateRating(1.0)
			}
			So(p.Rating, ShouldEqual, roster.MaxRating)
			for i := 0; i < 20; i++ {
				p.UpdateRating(-2.0)
			}
			So(p.Rating, ShouldEqual, roster.MinRating)
		})

		Convey("When confidence is pushed past its bounds", func() {
			p.UpdateConfidence(10)
			So(p.Confidence, ShouldEqual, roster.MaxConfidence)
			So(p.EffectiveRating(), ShouldEqual, 84.5)
			p.UpdateConfidence(-10)
			So(p.Confidence, ShouldEqual, roster.MinConfidence)
		})

		Convey("When the player tires", func() {
			p.Tire(10)
			So(p.Condition, ShouldEqual, 90)
			So(p.EffectiveRating(), ShouldAlmostEqual, 79, 1e-9)
			p.Tire(-5)
			So(p.Condition, ShouldEqual, 90)
			p.Tire(1000)
			So(p.Condition, ShouldEqual, 0)
		})

		Convey("When the player is sent off", func() {
			p.Cards++
			p.SendOff()
			So(p.Overall, ShouldEqual, 0)
			So(p.SentOff(), ShouldBeTrue)
		})
	})

	Convey("Given a goalkeeper", t, func() {
		for _, code := range []string{"GK", "br", "Bramkarz"} {
			gk := roster.NewPlayer("Keeper", 75, code)
			gk.UpdateConfidence(2)
			So(gk.IsGoalkeeper(), ShouldBeTrue)
			So(gk.Confidence, ShouldEqual, 0)
		}
	})
}

func TestTeam(t *testing.T) {
	Convey("Given a team", t, func() {
		team := roster.NewTeam("Lions", []*roster.Player{
			roster.NewPlayer("A", 70, "GK"),
			roster.NewPlayer("B", 80, "CB"),
			roster.NewPlayer("C", 90, "ST"),
		})

		Convey("Then derived values should be computed", func() {
			So(team.Momentum, ShouldEqual, roster.StartingMomentum)
			So(team.Style, ShouldEqual, roster.StyleBalanced)
			So(team.StyleMultiplier(), ShouldEqual, 1.0)
			So(team.AverageOverall(), ShouldEqual, 80)
			So(team.Goalkeeper().Name, ShouldEqual, "A")
			So(len(team.Outfield()), ShouldEqual, 2)
		})

		Convey("When momentum changes by a large amount", func() {
			team.UpdateMomentum(40)
			So(team.Momentum, ShouldEqual, 65)
			for i := 0; i < 10; i++ {
				team.UpdateMomentum(15)
			}
			So(team.Momentum, ShouldEqual, roster.MaxMomentum)
			for i := 0; i < 10; i++ {
				team.UpdateMomentum(-100)
			}
			So(team.Momentum, ShouldEqual, roster.MinMomentum)
		})

		Convey("When there is no goalkeeper", func() {
			team.Players = team.Players[1:]
			So(team.Goalkeeper().Name, ShouldEqual, "B")
		})

		Convey("When an outfield player is sent off", func() {
			team.Players[2].Cards = 1
			team.Players[2].SendOff()
			So(len(team.Available()), ShouldEqual, 1)
			So(team.Available()[0].Name, ShouldEqual, "B")

			team.Players[1].Cards = 1
			team.Players[1].SendOff()
			So(team.Available()[0].Name, ShouldEqual, "A")
		})

		Convey("When the squad has only goalkeepers", func() {
			gks := roster.NewTeam("Keepers", []*roster.Player{roster.NewPlayer("G1", 70, "GK"), roster.NewPlayer("G2", 70, "BR")})
			So(len(gks.Outfield()), ShouldEqual, 2)
		})

		Convey("When the squad is empty", func() {
			empty := roster.NewTeam("Ghosts", nil)
			So(empty.AverageOverall(), ShouldEqual, 0)
			So(empty.Goalkeeper(), ShouldBeNil)
		})
	})
}

func TestRecord(t *testing.T) {
	Convey("Given a persisted team record", t, func() {
		rec := roster.Record{Name: "Eagles", Players: []roster.PlayerRecord{
			{Name: "X", Overall: 70, Position: "GK"},
			{Name: "Y", Overall: 80, Position: "ST"},
		}}

		Convey("When two match teams are built from it", func() {
			a, b := rec.Team(), rec.Team()
			a.Players[1].Goals = 3
			a.Score = 2

			Convey("Then they should not share state", func() {
				So(b.Players[1].Goals, ShouldEqual, 0)
				So(b.Score, ShouldEqual, 0)
				So(a.Style, ShouldEqual, roster.StyleBalanced)
				So(rec.AverageOverall(), ShouldEqual, 75)
			})

			Convey("And converting back should drop match state", func() {
				So(roster.RecordOf(a), ShouldResemble, roster.Record{Name: "Eagles", Style: roster.StyleBalanced, Players: rec.Players})
			})
		})
	})
}
