package queue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/derby/internal/adapters/mq/queue"
	"github.com/okian/derby/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture(id string) model.Fixture {
	return model.Fixture{MatchID: id, Mode: "fast"}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity 2", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		So(q.Len(ctx), ShouldEqual, 0)
		So(q.Capacity(), ShouldEqual, 2)

		Convey("When a fixture is enqueued and dequeued", func() {
			So(q.Enqueue(ctx, fixture("m-1")), ShouldBeNil)
			So(q.Len(ctx), ShouldEqual, 1)

			f := <-q.Dequeue(ctx)

			Convey("Then it comes back stamped", func() {
				So(f.MatchID, ShouldEqual, "m-1")
				So(f.EnqueuedAt.IsZero(), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, fixture("m-1")), ShouldBeNil)
			So(q.Enqueue(ctx, fixture("m-2")), ShouldBeNil)
			err := q.Enqueue(ctx, fixture("m-3"))

			Convey("Then the next enqueue is rejected", func() {
				So(errors.Is(err, queue.ErrFull), ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			err := q.Enqueue(cctx, fixture("m-1"))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, fixture("m-1")), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue fails and the backlog drains", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, fixture("m-2")), queue.ErrClosed), ShouldBeTrue)

				var got []string
				for f := range q.Dequeue(ctx) {
					got = append(got, f.MatchID)
				}
				So(got, ShouldResemble, []string{"m-1"})
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}

func TestInMemoryQueueConcurrent(t *testing.T) {
	Convey("Given producers and consumers sharing a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		const producers, perProducer = 4, 25
		var seen sync.Map
		var consumed sync.WaitGroup
		consumed.Add(producers * perProducer)
		for range 3 {
			go func() {
				for f := range q.Dequeue(ctx) {
					seen.Store(f.MatchID, true)
					consumed.Done()
				}
			}()
		}

		var produced sync.WaitGroup
		for p := range producers {
			produced.Add(1)
			go func() {
				defer produced.Done()
				for i := range perProducer {
					for q.Enqueue(ctx, fixture(fmt.Sprintf("m-%d-%d", p, i))) != nil {
						time.Sleep(time.Millisecond)
					}
				}
			}()
		}
		produced.Wait()
		consumed.Wait()

		Convey("Then every fixture is delivered exactly once", func() {
			count := 0
			seen.Range(func(_, _ any) bool { count++; return true })
			So(count, ShouldEqual, producers*perProducer)
			So(q.Len(ctx), ShouldEqual, 0)
		})
	})
}
