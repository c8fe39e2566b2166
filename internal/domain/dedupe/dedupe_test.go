package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/derby/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryIndex(t *testing.T) {
	Convey("Given a new index", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryIndex()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a key is claimed", func() {
			got, claimed := d.Claim(ctx, "req-1", "match-a")

			Convey("Then the first claim wins", func() {
				So(claimed, ShouldBeTrue)
				So(got, ShouldEqual, "match-a")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then a repeated claim returns the original value", func() {
				got, claimed := d.Claim(ctx, "req-1", "match-b")
				So(claimed, ShouldBeFalse)
				So(got, ShouldEqual, "match-a")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then a released key can be claimed again", func() {
				d.Release(ctx, "req-1", "match-a")
				So(d.Size(), ShouldEqual, 0)
				got, claimed := d.Claim(ctx, "req-1", "match-b")
				So(claimed, ShouldBeTrue)
				So(got, ShouldEqual, "match-b")
			})

			Convey("Then releasing an unknown key is a no-op", func() {
				d.Release(ctx, "req-2", "match-a")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then a release for another value keeps the key", func() {
				d.Release(ctx, "req-1", "match-b")
				got, claimed := d.Claim(ctx, "req-1", "match-c")
				So(claimed, ShouldBeFalse)
				So(got, ShouldEqual, "match-a")
			})
		})
	})

	Convey("Given a bounded index", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryIndex(dedupe.WithMaxSize(3))
		for i := 1; i <= 4; i++ {
			d.Claim(ctx, fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
		}

		Convey("Then the oldest key is evicted", func() {
			So(d.Size(), ShouldEqual, 3)
			_, claimed := d.Claim(ctx, "k1", "again")
			So(claimed, ShouldBeTrue)
			got, claimed := d.Claim(ctx, "k4", "again")
			So(claimed, ShouldBeFalse)
			So(got, ShouldEqual, "v4")
		})
	})

	Convey("Given an unbounded index", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryIndex(dedupe.WithMaxSize(0))
		for i := 0; i < 100; i++ {
			d.Claim(ctx, fmt.Sprintf("k%d", i), "v")
		}
		So(d.Size(), ShouldEqual, 100)
	})

	Convey("Given concurrent claims of one key", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryIndex()
		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, claimed := d.Claim(ctx, "same", fmt.Sprint(i)); claimed {
					wins.Add(1)
				}
			}(i)
		}
		wg.Wait()
		So(wins.Load(), ShouldEqual, 1)
		So(d.Size(), ShouldEqual, 1)
	})
}
