package simulation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/universus/internal/adapters/repository"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/narrative"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/internal/domain/simulation"
	"github.com/okian/universus/internal/roster"
	. "github.com/smartystreets/goconvey/convey"
)

// countingStore counts community saves.
type countingStore struct {
	*repository.MemoryStore
	saves int
}

func (c *countingStore) SaveCommunity(ctx context.Context, r map[string]model.Participant) error {
	c.saves++
	return c.MemoryStore.SaveCommunity(ctx, r)
}

func setup(seed uint64, opts ...simulation.Option) (*simulation.Simulator, *roster.Service, *countingStore) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: repository.NewMemoryStore(nil, repository.WithSource(random.New(seed)))}
	svc := roster.New(store, catalog.Default(), roster.WithSource(random.New(seed+1)))
	if err := svc.Load(ctx); err != nil {
		panic(err)
	}
	for i := 0; i < 7; i++ {
		if _, err := svc.Upsert(ctx, roster.UpsertRequest{Name: fmt.Sprintf("c%d", i)}); err != nil {
			panic(err)
		}
	}
	store.saves = 0
	opts = append([]simulation.Option{simulation.WithSource(random.New(seed + 2))}, opts...)
	return simulation.New(catalog.Default(), svc, opts...), svc, store
}

func officials(svc *roster.Service) map[string]model.Participant {
	out := map[string]model.Participant{}
	for _, p := range svc.List() {
		if p.IsOfficial() {
			out[p.Name] = p
		}
	}
	return out
}

var (
	officialSide  = []string{"LeBron James", "Michael Jordan", "Kobe Bryant", "Muhammad Ali", "Mike Tyson", "Roger Federer", "Shaq"}
	communitySide = []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6"}
)

func TestValidation(t *testing.T) {
	Convey("Given a simulator", t, func() {
		sim, _, store := setup(1)
		ctx := context.Background()

		Convey("When a side names an unknown participant", func() {
			_, err := sim.SimulateSingle(ctx, "Boxing", []string{"c0"}, []string{"Nobody"})

			Convey("Then a validation error should list the name", func() {
				var verr *simulation.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(errors.Is(err, simulation.ErrUnknownParticipant), ShouldBeTrue)
				So(verr.Field, ShouldEqual, "side2")
				So(verr.Names, ShouldResemble, []string{"Nobody"})
				So(store.saves, ShouldEqual, 0)
			})
		})

		Convey("When the sport is unknown", func() {
			_, err := sim.SimulateSingle(ctx, "Curling", []string{"c0"}, []string{"c1"})
			So(errors.Is(err, simulation.ErrUnknownSport), ShouldBeTrue)
		})

		Convey("When a duel gets two names on one side", func() {
			_, err := sim.SimulateSingle(ctx, "Tennis", []string{"c0", "c1"}, []string{"c2"})
			So(errors.Is(err, simulation.ErrLineupSize), ShouldBeTrue)
		})

		Convey("When a team side exceeds the team size", func() {
			_, err := sim.SimulateSingle(ctx, "Basketball", communitySide, []string{"Shaq"})
			So(errors.Is(err, simulation.ErrLineupSize), ShouldBeTrue)
		})

		Convey("When a roster repeats a name", func() {
			_, err := sim.SimulateMultisport(ctx, []string{"c0", "c0"}, []string{"c1"})
			So(errors.Is(err, simulation.ErrDuplicateParticipant), ShouldBeTrue)
		})

		Convey("When a roster is empty", func() {
			_, err := sim.SimulateMultisport(ctx, nil, []string{"c1"})
			So(errors.Is(err, simulation.ErrEmptySide), ShouldBeTrue)
		})
	})
}

func TestSimulateSingle(t *testing.T) {
	Convey("Given community duelists", t, func() {
		sim, svc, store := setup(2)
		ctx := context.Background()

		Convey("When a duel is resolved", func() {
			res, err := sim.SimulateSingle(ctx, "Boxing", []string{"c0"}, []string{"c1"})
			So(err, ShouldBeNil)

			Convey("Then drift should be committed under the sport name", func() {
				So(res.Winner, ShouldBeIn, model.Side1, model.Side2)
				So(res.Progression, ShouldNotBeNil)
				So(res.Progression.Context, ShouldEqual, "Boxing")
				So(res.Progression.Updated, ShouldHaveLength, 2)
				So(store.saves, ShouldEqual, 1)
				for _, n := range []string{"c0", "c1"} {
					p, _ := svc.Lookup(n)
					So(p.Consistent(), ShouldBeTrue)
				}
			})
		})

		Convey("When only officials take part", func() {
			before := officials(svc)
			res, err := sim.SimulateSingle(ctx, "Soccer", officialSide, []string{"Novak Djokovic", "Stephen Curry"})
			So(err, ShouldBeNil)

			Convey("Then nothing should be written", func() {
				So(res.Progression.Updated, ShouldBeEmpty)
				So(store.saves, ShouldEqual, 0)
				So(officials(svc), ShouldResemble, before)
			})
		})
	})
}

func TestSimulateMultisport(t *testing.T) {
	Convey("Given official and community rosters", t, func() {
		sim, svc, _ := setup(3, simulation.WithCommentary(2))
		ctx := context.Background()
		before := officials(svc)

		Convey("When many contests are played", func() {
			for i := 0; i < 30; i++ {
				res, err := sim.SimulateMultisport(ctx, officialSide, communitySide)
				So(err, ShouldBeNil)
				So(len(res.Matches), ShouldBeLessThanOrEqualTo, 5)
				So(max(res.Score1, res.Score2), ShouldEqual, 3)
				for _, m := range res.Matches {
					So(m.Commentary, ShouldHaveLength, 2)
					So(m.Techniques, ShouldResemble, narrative.Techniques(m.Decisive))
				}
			}

			Convey("Then official records should be untouched", func() {
				So(officials(svc), ShouldResemble, before)
			})

			Convey("Then community records should stay consistent", func() {
				for _, n := range communitySide {
					p, ok := svc.Lookup(n)
					So(ok, ShouldBeTrue)
					So(p.Consistent(), ShouldBeTrue)
				}
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := sim.SimulateMultisport(cctx, officialSide, communitySide)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestDeterminism(t *testing.T) {
	Convey("Given two simulators with the same seed and no drift", t, func() {
		a, _, _ := setup(9, simulation.WithoutProgression(), simulation.WithCommentary(1))
		b, _, _ := setup(9, simulation.WithoutProgression())
		ctx := context.Background()

		Convey("Then they should produce the same contests", func() {
			for i := 0; i < 5; i++ {
				ra, err := a.SimulateMultisport(ctx, officialSide, communitySide)
				So(err, ShouldBeNil)
				rb, err := b.SimulateMultisport(ctx, officialSide, communitySide)
				So(err, ShouldBeNil)
				So(ra.Sports, ShouldResemble, rb.Sports)
				So(ra.Score1, ShouldEqual, rb.Score1)
				So(ra.Score2, ShouldEqual, rb.Score2)
				So(len(ra.Matches), ShouldEqual, len(rb.Matches))
				for j := range ra.Matches {
					So(ra.Matches[j].Rating1, ShouldEqual, rb.Matches[j].Rating1)
					So(ra.Matches[j].Side1, ShouldResemble, rb.Matches[j].Side1)
					So(ra.Matches[j].Techniques, ShouldNotBeEmpty)
					So(rb.Matches[j].Techniques, ShouldBeNil)
				}
				So(ra.Progression, ShouldBeNil)
			}
		})
	})
}

func TestRatings(t *testing.T) {
	Convey("Given a simulator and a participant", t, func() {
		sim, svc, _ := setup(5)
		p, ok := svc.Lookup("Mike Tyson")
		So(ok, ShouldBeTrue)

		Convey("Then every catalog sport should have a positive rating", func() {
			got := sim.Ratings(p)
			So(len(got), ShouldEqual, len(sim.Catalog().Sports()))
			for _, sport := range sim.Catalog().Sports() {
				So(got[sport.Name], ShouldBeGreaterThan, 0)
			}
		})
	})
}
