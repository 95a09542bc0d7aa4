package progression_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/progression"
	"github.com/okian/universus/internal/domain/random"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeRoster keeps records in a map and counts commits.
type fakeRoster struct {
	mu      sync.Mutex
	records map[string]model.Participant
	saves   int
	saveErr error
}

func newFakeRoster(ps ...model.Participant) *fakeRoster {
	r := &fakeRoster{records: map[string]model.Participant{}}
	for _, p := range ps {
		r.records[p.Name] = p
	}
	return r
}

func (r *fakeRoster) Mutate(ctx context.Context, fn func(func(string) (model.Participant, bool)) ([]model.Participant, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	updated, err := fn(func(name string) (model.Participant, bool) {
		p, ok := r.records[name]
		return p, ok
	})
	if err != nil {
		return err
	}
	if len(updated) == 0 {
		return nil
	}
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, p := range updated {
		r.records[p.Name] = p
	}
	r.saves++
	return nil
}

func TestEngineApply(t *testing.T) {
	Convey("Given a roster with official and community participants", t, func() {
		off := official("Michael Jordan")
		roster := newFakeRoster(off, community("Ada", model.TierB), community("Bo", model.TierB))
		engine := progression.New(roster)
		ctx := context.Background()

		Convey("When progression is applied after a match", func() {
			report, err := engine.Apply(ctx, progression.Request{
				Winners:   []string{"Ada", "Michael Jordan"},
				Losers:    []string{"Bo"},
				Context:   "Multisport",
				Standouts: []string{"Ada", "Michael Jordan", "extra"},
			}, random.Constant(0))

			Convey("Then community participants should be committed once", func() {
				So(err, ShouldBeNil)
				So(roster.saves, ShouldEqual, 1)
				So(report.Updated, ShouldResemble, []string{"Ada", "Bo"})
				So(roster.records["Ada"].Tiers, ShouldResemble, model.Uniform(model.TierA))
			})

			Convey("Then the official participant should be untouched", func() {
				So(roster.records["Michael Jordan"], ShouldResemble, off)
			})
		})

		Convey("When only official participants played", func() {
			report, err := engine.Apply(ctx, progression.Request{
				Winners: []string{"Michael Jordan"},
				Losers:  []string{"unknown"},
			}, random.Constant(0))

			Convey("Then nothing should be saved", func() {
				So(err, ShouldBeNil)
				So(report.Updated, ShouldBeEmpty)
				So(roster.saves, ShouldEqual, 0)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			before := roster.records["Ada"]
			_, err := engine.Apply(cctx, progression.Request{Winners: []string{"Ada"}}, random.Constant(0))

			Convey("Then nothing should be committed", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(roster.saves, ShouldEqual, 0)
				So(roster.records["Ada"], ShouldResemble, before)
			})
		})

		Convey("When the save fails", func() {
			roster.saveErr = errors.New("disk full")
			before := roster.records["Ada"]
			_, err := engine.Apply(ctx, progression.Request{Winners: []string{"Ada"}}, random.Constant(0))

			Convey("Then the error should surface and state stay unchanged", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, roster.saveErr), ShouldBeTrue)
				So(roster.records["Ada"], ShouldResemble, before)
			})
		})
	})
}
