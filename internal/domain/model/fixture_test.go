package model_test

import (
	"testing"
	"time"

	"github.com/okian/derby/internal/domain/model"
	"github.com/okian/derby/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFixture(t *testing.T) {
	Convey("Given a queued fixture", t, func() {
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		f := model.Fixture{
			MatchID:    "m-1",
			Home:       roster.Record{Name: "Lwy"},
			Away:       roster.Record{Name: "Orły"},
			EnqueuedAt: at,
		}

		So(f.Label(), ShouldEqual, "Lwy vs Orły")
		So(f.Wait(at.Add(3*time.Second)), ShouldEqual, 3*time.Second)

		Convey("When it was never stamped", func() {
			f.EnqueuedAt = time.Time{}
			So(f.Wait(at), ShouldEqual, time.Duration(0))
		})
	})
}
