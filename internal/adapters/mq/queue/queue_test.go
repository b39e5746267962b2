package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/genemap/genemap/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a small queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(ctx, queue.Job{Seq: 0, Symbol: "TP53"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{Seq: 1, Symbol: "BRCA1"}), ShouldBeTrue)
			So(q.Len(), ShouldEqual, 2)

			Convey("Then a further enqueue is rejected without blocking", func() {
				So(q.Enqueue(ctx, queue.Job{Seq: 2, Symbol: "EGFR"}), ShouldBeFalse)
			})
		})

		Convey("When jobs are dequeued", func() {
			q.Enqueue(ctx, queue.Job{Seq: 0, Symbol: "TP53"})
			q.Enqueue(ctx, queue.Job{Seq: 1, Symbol: "BRCA1"})
			So(q.Close(), ShouldBeNil)

			var symbols []string
			for job := range q.Dequeue(ctx) {
				symbols = append(symbols, job.Symbol)
			}

			Convey("Then enqueue order is preserved and the channel closes", func() {
				So(symbols, ShouldResemble, []string{"TP53", "BRCA1"})
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			So(q.IsClosed(), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{Symbol: "TP53"}), ShouldBeFalse)

			Convey("And closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is cancelled", func() {
			q.Enqueue(ctx, queue.Job{Symbol: "TP53"})
			cctx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(cctx)
			cancel()

			Convey("Then the dequeue channel closes soon after", func() {
				select {
				case _, ok := <-out:
					// Either the buffered job or the close is acceptable;
					// a closed channel ends the stream.
					if ok {
						_, ok2 := <-out
						So(ok2, ShouldBeFalse)
					}
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not settle")
				}
			})
		})
	})
}
