package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/universus/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryIndex(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new index", t, func() {
		d := dedupe.NewMemoryIndex()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a request ID is claimed for the first time", func() {
			job, seen := d.Claim(ctx, "req-1", "job-1")

			Convey("Then the new job should be recorded", func() {
				So(seen, ShouldBeFalse)
				So(job, ShouldEqual, "job-1")
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same request ID is claimed again", func() {
			d.Claim(ctx, "req-1", "job-1")
			job, seen := d.Claim(ctx, "req-1", "job-2")

			Convey("Then the first job should be returned", func() {
				So(seen, ShouldBeTrue)
				So(job, ShouldEqual, "job-1")
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a claim is released", func() {
			d.Claim(ctx, "req-1", "job-1")
			d.Release(ctx, "req-1")
			d.Release(ctx, "unknown")

			Convey("Then the request ID should be claimable again", func() {
				So(d.Size(), ShouldEqual, 0)
				job, seen := d.Claim(ctx, "req-1", "job-3")
				So(seen, ShouldBeFalse)
				So(job, ShouldEqual, "job-3")
			})
		})
	})

	Convey("Given a bounded index", t, func() {
		d := dedupe.NewMemoryIndex(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			d.Claim(ctx, fmt.Sprintf("req-%d", i), fmt.Sprintf("job-%d", i))
		}

		Convey("When it is full and a new request arrives", func() {
			d.Claim(ctx, "req-4", "job-4")

			Convey("Then the oldest claim should be evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				_, seen := d.Claim(ctx, "req-1", "job-5")
				So(seen, ShouldBeFalse)
				job, seen := d.Claim(ctx, "req-4", "job-6")
				So(seen, ShouldBeTrue)
				So(job, ShouldEqual, "job-4")
			})
		})
	})

	Convey("Given an unbounded index", t, func() {
		d := dedupe.NewMemoryIndex(dedupe.WithMaxSize(0))

		Convey("Then nothing should be evicted", func() {
			for i := 0; i < 1000; i++ {
				d.Claim(ctx, fmt.Sprintf("req-%d", i), "job")
			}
			So(d.Size(), ShouldEqual, 1000)
		})
	})
}

func TestMemoryIndexConcurrent(t *testing.T) {
	Convey("Given many goroutines claiming the same request ID", t, func() {
		d := dedupe.NewMemoryIndex()
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
			jobs  = map[string]bool{}
		)
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				job, seen := d.Claim(context.Background(), "same", fmt.Sprintf("job-%d", i))
				mu.Lock()
				defer mu.Unlock()
				if !seen {
					fresh++
				}
				jobs[job] = true
			}(i)
		}
		wg.Wait()

		Convey("Then exactly one claim should win", func() {
			So(fresh, ShouldEqual, 1)
			So(jobs, ShouldHaveLength, 1)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
