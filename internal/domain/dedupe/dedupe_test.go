package dedupe_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/genemap/genemap/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given an unbounded tracker", t, func() {
		tr := dedupe.NewInMemoryTracker()

		Convey("When a sample is recorded twice", func() {
			first := tr.SeenAndRecord("TCGA-A7-A0CE-01A")
			second := tr.SeenAndRecord("TCGA-A7-A0CE-01A")

			Convey("Then only the first observation is new", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(tr.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a sample is unrecorded", func() {
			tr.SeenAndRecord("TCGA-A7-A0CE-01A")
			tr.Unrecord("TCGA-A7-A0CE-01A")

			Convey("Then it can be recorded again", func() {
				So(tr.SeenAndRecord("TCGA-A7-A0CE-01A"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			tr.Unrecord("never-seen")
			So(tr.Size(), ShouldEqual, 0)
		})

		Convey("When recorded concurrently", func() {
			var wg sync.WaitGroup
			var newCount sync.Map
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					if !tr.SeenAndRecord("shared") {
						newCount.Store(n, true)
					}
				}(i)
			}
			wg.Wait()

			Convey("Then exactly one goroutine records it", func() {
				var winners int
				newCount.Range(func(_, _ any) bool {
					winners++
					return true
				})
				So(winners, ShouldEqual, 1)
				So(tr.Size(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a bounded tracker", t, func() {
		tr := dedupe.NewInMemoryTracker(dedupe.WithMaxSize(3))

		Convey("When more IDs are recorded than it holds", func() {
			for i := 0; i < 4; i++ {
				tr.SeenAndRecord(fmt.Sprintf("sample-%d", i))
			}

			Convey("Then the oldest entry is evicted first", func() {
				So(tr.Size(), ShouldEqual, 3)
				So(tr.SeenAndRecord("sample-0"), ShouldBeFalse)
				So(tr.SeenAndRecord("sample-3"), ShouldBeTrue)
			})
		})
	})
}
