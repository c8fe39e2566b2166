package feed_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/derby/internal/adapters/feed"
	"github.com/okian/derby/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuffer(t *testing.T) {
	Convey("Given a buffer", t, func() {
		ctx := context.Background()
		b := feed.NewBuffer(feed.WithMaxLines(3))

		Convey("When lines are delivered for two matches", func() {
			for _, l := range []string{"kick-off", "1' shot", "2' goal"} {
				So(b.Deliver(ctx, "a", l), ShouldBeNil)
			}
			So(b.Deliver(ctx, "b", "kick-off"), ShouldBeNil)

			Convey("Then each match has its own sequence", func() {
				So(b.Len("a"), ShouldEqual, 3)
				So(b.Len("b"), ShouldEqual, 1)
				lines := b.Since("a", 1)
				So(lines, ShouldHaveLength, 2)
				So(lines[0].Seq, ShouldEqual, 2)
				So(lines[1].Text, ShouldEqual, "2' goal")
			})

			Convey("Then the oldest lines fall out past the cap", func() {
				So(b.Deliver(ctx, "a", "3' save"), ShouldBeNil)
				lines := b.Since("a", 0)
				So(lines, ShouldHaveLength, 3)
				So(lines[0].Seq, ShouldEqual, 2)
				So(b.Len("a"), ShouldEqual, 4)
			})

			Convey("Then a forgotten match is empty", func() {
				b.Forget("a")
				So(b.Since("a", 0), ShouldBeEmpty)
				So(b.Len("a"), ShouldEqual, 0)
			})
		})
	})
}

func TestSinks(t *testing.T) {
	Convey("Given writer and fan-out sinks", t, func() {
		ctx := context.Background()
		var out bytes.Buffer
		w := feed.NewWriterSink(&out, true)
		boom := errors.New("socket closed")
		failing := feed.SinkFunc(func(context.Context, string, string) error { return boom })
		buf := feed.NewBuffer()

		Convey("When one sink fails", func() {
			err := feed.Fanout{failing, w, buf, feed.NewLogSink(logger.Discard())}.Deliver(ctx, "m-1", "gol!")

			Convey("Then the others still receive the line", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(out.String(), ShouldEqual, "[m-1] gol!\n")
				So(buf.Len("m-1"), ShouldEqual, 1)
			})
		})

		Convey("When the writer is unprefixed", func() {
			plain := feed.NewWriterSink(&out, false)
			So(plain.Deliver(ctx, "m-1", "gol!"), ShouldBeNil)
			So(out.String(), ShouldEqual, "gol!\n")
		})
	})
}
