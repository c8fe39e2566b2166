package squad_test

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/internal/domain/squad"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given pasted squad text", t, func() {
		Convey("When each line holds one player", func() {
			players, err := squad.Parse("GK Nowak 80\nCB Kowalski (75)\n<b>ST</b> Lewandowski 91 https://example.com/p/9\nZieliński 82")

			Convey("Then positions ratings and names are read", func() {
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 4)
				So(players[0], ShouldResemble, roster.PlayerRecord{Name: "Nowak", Overall: 80, Position: "GK"})
				So(players[1].Overall, ShouldEqual, 75)
				So(players[2].Name, ShouldEqual, "Lewandowski")
				So(players[2].Position, ShouldEqual, "ST")
				So(players[3].Position, ShouldEqual, roster.DefaultPosition)
			})
		})

		Convey("When Polish position codes are used", func() {
			players, err := squad.Parse("BR Szczęsny 85\nśo Jan Bednarek 76\nŚPO Zieliński 83\nN Piątek 74\nLO Reca 70 ")
			So(err, ShouldBeNil)
			So(players, ShouldHaveLength, 5)
			So(players[0].Position, ShouldEqual, "GK")
			So(players[1].Position, ShouldEqual, "CB")
			So(players[1].Name, ShouldEqual, "Jan Bednarek")
			So(players[2].Position, ShouldEqual, "CAM")
			So(players[3].Position, ShouldEqual, "ST")
			So(players[4].Position, ShouldEqual, "LB")
		})

		Convey("When one line lists several players", func() {
			players, err := squad.Parse("BR Szczęsny 85 - SO Glik 80 | ST Milik 78")
			So(err, ShouldBeNil)
			So(players, ShouldHaveLength, 3)
			So(players[1], ShouldResemble, roster.PlayerRecord{Name: "Glik", Overall: 80, Position: "CB"})
		})

		Convey("When the rating comes first", func() {
			players, err := squad.Parse("88 Messi CAM")
			So(err, ShouldBeNil)
			So(players[0], ShouldResemble, roster.PlayerRecord{Name: "Messi", Overall: 88, Position: "CAM"})
		})

		Convey("When a name contains a position code", func() {
			players, err := squad.Parse("Giovani Lo Celso 80\nKowalski ST 72\nLO 70")
			So(err, ShouldBeNil)
			So(players, ShouldHaveLength, 3)
			So(players[0], ShouldResemble, roster.PlayerRecord{Name: "Giovani Lo Celso", Overall: 80, Position: roster.DefaultPosition})
			So(players[1], ShouldResemble, roster.PlayerRecord{Name: "Kowalski", Overall: 72, Position: "ST"})
			So(players[2].Name, ShouldEqual, "LO")
		})

		Convey("When a name is too short", func() {
			players, err := squad.Parse("ST X 70")
			So(err, ShouldBeNil)
			So(players[0].Name, ShouldEqual, "Unknown Player")
		})

		Convey("When nothing looks like a player", func() {
			_, err := squad.Parse("just some chatter\n<p>no ratings here</p> 123")
			So(errors.Is(err, squad.ErrNoPlayers), ShouldBeTrue)

			_, err = squad.Parse("")
			So(errors.Is(err, squad.ErrNoPlayers), ShouldBeTrue)
		})
	})
}

func TestRandom(t *testing.T) {
	Convey("Given a seeded source", t, func() {
		rng := rand.New(rand.NewPCG(3, 5))
		name := regexp.MustCompile(`^[A-Za-z]+_([1-9]|[1-9][0-9])$`)

		Convey("When a default squad is drawn", func() {
			players := squad.Random(rng, 0)

			Convey("Then it has eleven valid players", func() {
				So(players, ShouldHaveLength, squad.DefaultSize)
				for _, p := range players {
					So(name.MatchString(p.Name), ShouldBeTrue)
					So(p.Overall, ShouldBeBetweenOrEqual, 65, 85)
					So(p.Position, ShouldBeIn, []string{"GK", "CB", "MD", "ST"})
				}
			})
		})

		Convey("When the same seed is reused", func() {
			a := squad.Random(rand.New(rand.NewPCG(9, 9)), 5)
			b := squad.Random(rand.New(rand.NewPCG(9, 9)), 5)
			So(a, ShouldResemble, b)
		})
	})
}
