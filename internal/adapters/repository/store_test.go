package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/derby/internal/adapters/repository"
	"github.com/okian/derby/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func lions() roster.Record {
	return roster.Record{
		Name:  "Lwy",
		Style: roster.StyleBalanced,
		Players: []roster.PlayerRecord{
			{Name: "Szczęsny", Overall: 85, Position: "GK"},
			{Name: "Glik", Overall: 78, Position: "CB"},
		},
	}
}

func TestStores(t *testing.T) {
	for _, driver := range []string{repository.DriverFile, repository.DriverSQLite} {
		Convey("Given an empty "+driver+" store", t, func() {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "teams."+driver)
			s, err := repository.Open(ctx, driver, path)
			So(err, ShouldBeNil)
			defer s.Close()

			So(s.Count(ctx), ShouldEqual, 0)
			list, err := s.List(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldBeEmpty)

			Convey("When a team is created", func() {
				So(s.Create(ctx, lions()), ShouldBeNil)

				Convey("Then it can be read back in squad order", func() {
					got, err := s.Get(ctx, "Lwy")
					So(err, ShouldBeNil)
					So(got, ShouldResemble, lions())
					So(s.Count(ctx), ShouldEqual, 1)
				})

				Convey("Then creating it again fails", func() {
					err := s.Create(ctx, lions())
					So(errors.Is(err, repository.ErrExists), ShouldBeTrue)
				})

				Convey("Then Put replaces the squad", func() {
					rec := lions()
					rec.Players = rec.Players[:1]
					So(s.Put(ctx, rec), ShouldBeNil)
					got, _ := s.Get(ctx, "Lwy")
					So(got.Players, ShouldHaveLength, 1)
				})

				Convey("Then it can be deleted once", func() {
					So(s.Delete(ctx, "Lwy"), ShouldBeNil)
					So(errors.Is(s.Delete(ctx, "Lwy"), repository.ErrNotFound), ShouldBeTrue)
					So(s.Count(ctx), ShouldEqual, 0)
				})

				Convey("Then it survives a reopen", func() {
					So(s.Close(), ShouldBeNil)
					again, err := repository.Open(ctx, driver, path)
					So(err, ShouldBeNil)
					defer again.Close()
					got, err := again.Get(ctx, "Lwy")
					So(err, ShouldBeNil)
					So(got.Players[0].Name, ShouldEqual, "Szczęsny")
				})
			})

			Convey("When several teams exist", func() {
				So(s.Put(ctx, roster.Record{Name: "Orły", Players: []roster.PlayerRecord{}}), ShouldBeNil)
				So(s.Put(ctx, lions()), ShouldBeNil)

				Convey("Then List orders them by name", func() {
					list, err := s.List(ctx)
					So(err, ShouldBeNil)
					So(list, ShouldHaveLength, 2)
					So(list[0].Name, ShouldEqual, "Lwy")
					So(list[1].Name, ShouldEqual, "Orły")
					So(list[0].Players, ShouldHaveLength, 2)
				})
			})

			Convey("When records are invalid or missing", func() {
				So(errors.Is(s.Put(ctx, roster.Record{Name: "  "}), repository.ErrInvalidRecord), ShouldBeTrue)
				bad := lions()
				bad.Players[0].Name = ""
				So(errors.Is(s.Create(ctx, bad), repository.ErrInvalidRecord), ShouldBeTrue)
				_, err := s.Get(ctx, "Nikt")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	}
}

func TestFileStore(t *testing.T) {
	Convey("Given roster files on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When the file uses the original layout", func() {
			path := filepath.Join(dir, "teams.json")
			raw := `{"Lwy": {"name": "Lwy", "style": "Balanced", "players": [{"name": "Glik", "ovr": 78, "position": "CB"}]}}`
			So(os.WriteFile(path, []byte(raw), 0o600), ShouldBeNil)

			s, err := repository.OpenFile(ctx, path)
			So(err, ShouldBeNil)

			Convey("Then teams are loaded by name", func() {
				got, err := s.Get(ctx, "Lwy")
				So(err, ShouldBeNil)
				So(got.Players[0], ShouldResemble, roster.PlayerRecord{Name: "Glik", Overall: 78, Position: "CB"})
			})

			Convey("Then writes keep non-ASCII names readable", func() {
				So(s.Put(ctx, roster.Record{Name: "Orły"}), ShouldBeNil)
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"Orły"`)
			})
		})

		Convey("When the file is corrupt", func() {
			path := filepath.Join(dir, "broken.json")
			So(os.WriteFile(path, []byte("{not json"), 0o600), ShouldBeNil)
			_, err := repository.OpenFile(ctx, path)
			So(err, ShouldNotBeNil)
		})

		Convey("When the driver is unknown", func() {
			_, err := repository.Open(ctx, "postgres", filepath.Join(dir, "x"))
			So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}
