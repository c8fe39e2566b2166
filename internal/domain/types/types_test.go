package types_test

import (
	"testing"

	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatchStatus(t *testing.T) {
	Convey("Given the match statuses", t, func() {
		So(types.StatusQueued.Terminal(), ShouldBeFalse)
		So(types.StatusRunning.Terminal(), ShouldBeFalse)
		So(types.StatusFinished.Terminal(), ShouldBeTrue)
		So(types.StatusAborted.Terminal(), ShouldBeTrue)
	})
}

func TestNewTeamSummary(t *testing.T) {
	Convey("Given a stored team", t, func() {
		rec := &roster.Record{
			Name:  "Lwy",
			Style: roster.StyleBalanced,
			Players: []roster.PlayerRecord{
				{Name: "Kowalski", Overall: 80, Position: "ST"},
				{Name: "Nowak", Overall: 70, Position: "GK"},
			},
		}

		Convey("When it is summarised", func() {
			s := types.NewTeamSummary(rec)

			Convey("Then the counts and average are filled", func() {
				So(s.Name, ShouldEqual, "Lwy")
				So(s.Players, ShouldEqual, 2)
				So(s.AverageOverall, ShouldEqual, 75.0)
			})
		})

		Convey("When the team has no players", func() {
			s := types.NewTeamSummary(&roster.Record{Name: "Pusta"})
			So(s.Players, ShouldEqual, 0)
			So(s.AverageOverall, ShouldEqual, 0.0)
		})
	})
}
