package random_test

import (
	"testing"

	"github.com/okian/universus/internal/domain/random"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeededSource(t *testing.T) {
	Convey("Given two sources with the same seed", t, func() {
		a := random.New(42)
		b := random.New(42)

		Convey("Then they should produce the same stream", func() {
			for i := 0; i < 50; i++ {
				So(a.Float64(), ShouldEqual, b.Float64())
				So(a.IntN(10), ShouldEqual, b.IntN(10))
			}
		})

		Convey("And children derived from them should match too", func() {
			ca := random.Child(a)
			cb := random.Child(b)
			So(ca.Uint64(), ShouldEqual, cb.Uint64())
		})
	})
}

func TestHelpers(t *testing.T) {
	Convey("Given a seeded source", t, func() {
		src := random.New(7)

		Convey("IntBetween should stay inside the inclusive range", func() {
			seen := map[int]bool{}
			for i := 0; i < 500; i++ {
				v := random.IntBetween(src, 5, 7)
				So(v, ShouldBeBetweenOrEqual, 5, 7)
				seen[v] = true
			}
			So(len(seen), ShouldEqual, 3)
		})

		Convey("IntBetween with a degenerate range returns the lower bound", func() {
			So(random.IntBetween(src, 9, 9), ShouldEqual, 9)
		})

		Convey("Uniform should stay in [lo, hi)", func() {
			for i := 0; i < 500; i++ {
				v := random.Uniform(src, -10, 10)
				So(v, ShouldBeGreaterThanOrEqualTo, -10)
				So(v, ShouldBeLessThan, 10)
			}
		})
	})

	Convey("Given a constant source at one half", t, func() {
		src := random.Constant(0.5)

		Convey("Symmetric noise should be exactly zero", func() {
			So(random.Uniform(src, -12, 12), ShouldEqual, 0)
		})

		Convey("IntN should pick the middle and clamp to n-1", func() {
			So(src.IntN(4), ShouldEqual, 2)
			So(random.Constant(0.999999).IntN(3), ShouldEqual, 2)
			So(random.Constant(0).IntN(3), ShouldEqual, 0)
		})
	})

	Convey("Given a sequence source", t, func() {
		seq := random.NewSequence(0.1, 0.9)

		Convey("It should replay and cycle its values", func() {
			So(seq.Float64(), ShouldEqual, 0.1)
			So(seq.Float64(), ShouldEqual, 0.9)
			So(seq.Float64(), ShouldEqual, 0.1)
			So(seq.Draws(), ShouldEqual, 3)
		})
	})

	Convey("Given a locked source", t, func() {
		locked := random.NewLocked(random.New(1))

		Convey("It should be safe to use from many goroutines", func() {
			done := make(chan struct{})
			for g := 0; g < 8; g++ {
				go func() {
					for i := 0; i < 100; i++ {
						_ = locked.IntN(10)
						_ = locked.Float64()
					}
					done <- struct{}{}
				}()
			}
			for g := 0; g < 8; g++ {
				<-done
			}
			So(locked.IntN(5), ShouldBeBetweenOrEqual, 0, 4)
		})
	})

	Convey("NewSeed should read entropy", t, func() {
		_, err := random.NewSeed()
		So(err, ShouldBeNil)
	})
}
