package worker_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/genemap/genemap/internal/adapters/mq/queue"
	"github.com/genemap/genemap/internal/adapters/mq/worker"
	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

type stubResolver struct {
	fail map[string]error
}

func (s *stubResolver) Resolve(_ context.Context, symbol string) (model.Resolution, error) {
	if err, ok := s.fail[symbol]; ok {
		return model.Resolution{}, err
	}
	return model.Resolution{Symbol: symbol, GeneID: "id-" + symbol, Match: model.MatchOfficial}, nil
}

type collectingRecorder struct {
	mu      sync.Mutex
	results []model.Resolution
	seqs    []int
}

func (c *collectingRecorder) Record(_ context.Context, job worker.Job, res model.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
	c.seqs = append(c.seqs, job.Seq)
}

func (c *collectingRecorder) snapshot() []model.Resolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Resolution(nil), c.results...)
}

func TestPool(t *testing.T) {
	Convey("Given a pool over a queue of symbols", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		rec := &collectingRecorder{}

		Convey("When every symbol resolves", func() {
			pool := worker.NewPool(1, q, &stubResolver{}, rec)
			for i, s := range []string{"TP53", "BRCA1", "EGFR"} {
				So(q.Enqueue(ctx, worker.Job{Seq: i, Symbol: s}), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)

			pool.Start(ctx)
			waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			So(pool.Wait(waitCtx), ShouldBeNil)

			Convey("Then one result per job arrives, in order with one worker", func() {
				results := rec.snapshot()
				So(results, ShouldHaveLength, 3)
				So(results[0].Symbol, ShouldEqual, "TP53")
				So(results[0].GeneID, ShouldEqual, "id-TP53")
				So(rec.seqs, ShouldResemble, []int{0, 1, 2})
			})
		})

		Convey("When one symbol's lookup fails", func() {
			resolver := &stubResolver{fail: map[string]error{"BAD": errors.New("exhausted retries")}}
			pool := worker.NewPool(1, q, resolver, rec)
			for i, s := range []string{"TP53", "BAD", "EGFR"} {
				q.Enqueue(ctx, worker.Job{Seq: i, Symbol: s})
			}
			So(q.Close(), ShouldBeNil)

			pool.Start(ctx)
			waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			So(pool.Wait(waitCtx), ShouldBeNil)

			Convey("Then the failure becomes an unresolved entry and the batch completes", func() {
				results := rec.snapshot()
				So(results, ShouldHaveLength, 3)

				var bad model.Resolution
				for _, r := range results {
					if r.Symbol == "BAD" {
						bad = r
					}
				}
				So(bad.Resolved(), ShouldBeFalse)
				So(bad.Reason, ShouldContainSubstring, "exhausted retries")
			})
		})

		Convey("When several workers share the queue", func() {
			pool := worker.NewPool(4, q, &stubResolver{}, rec)
			want := []string{"A", "B", "C", "D", "E", "F"}
			for i, s := range want {
				q.Enqueue(ctx, worker.Job{Seq: i, Symbol: s})
			}
			So(q.Close(), ShouldBeNil)

			pool.Start(ctx)
			waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			So(pool.Wait(waitCtx), ShouldBeNil)

			Convey("Then every job is processed exactly once", func() {
				results := rec.snapshot()
				var got []string
				for _, r := range results {
					got = append(got, r.Symbol)
				}
				sort.Strings(got)
				So(got, ShouldResemble, want)
			})
		})
	})
}
