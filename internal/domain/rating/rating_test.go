package rating_test

import (
	"math"
	"testing"

	"github.com/okian/universus/internal/domain/attributes"
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
	"github.com/okian/universus/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

var powerDuel = model.Sport{Name: "Arm Wrestling", Type: model.Duel, Weights: model.Weights{1}}

func newEngine(opts ...rating.Option) *rating.Engine {
	c, err := catalog.New(catalog.WithSports([]model.Sport{
		powerDuel,
		{Name: "Tug of War", Type: model.Team, TeamSize: 3, Weights: model.Weights{0.5, 0, 0.5}},
	}))
	if err != nil {
		panic(err)
	}
	return rating.New(attributes.New(c), opts...)
}

func balanced(name string, stats model.StatVector, wc model.WeightClass) model.Participant {
	return model.Participant{
		Name:           name,
		Stats:          stats,
		Tiers:          model.Uniform(model.TierB),
		WeightClass:    wc,
		Specialization: model.Balanced,
		Origin:         model.OriginCommunity,
	}
}

func TestSoloAndTeam(t *testing.T) {
	Convey("Given a rating engine", t, func() {
		e := newEngine()

		Convey("Then solo rating should scale by weight class", func() {
			mid := balanced("mid", model.StatVector{8, 5, 5, 5, 5, 5, 5}, model.Middleweight)
			heavy := balanced("heavy", model.StatVector{8, 5, 5, 5, 5, 5, 5}, model.Heavyweight)
			So(e.Solo(mid, powerDuel), ShouldAlmostEqual, 8.0)
			So(e.Solo(heavy, powerDuel), ShouldAlmostEqual, 8.0*1.06)
		})

		Convey("Then team rating should sum member contributions", func() {
			tug := model.Sport{Name: "Tug of War", Type: model.Team, TeamSize: 3, Weights: model.Weights{0.5, 0, 0.5}}
			a := balanced("a", model.StatVector{6, 1, 4, 1, 1, 1, 1}, model.Middleweight)
			b := balanced("b", model.StatVector{2, 1, 8, 1, 1, 1, 1}, model.Flyweight)
			So(e.Team([]model.Participant{a, b}, tug), ShouldAlmostEqual, 5.0+5.0*0.95)
			So(e.Team(nil, tug), ShouldEqual, 0)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given zero noise from a constant source", t, func() {
		e := newEngine()
		zero := random.Constant(0.5)

		Convey("When an S-power participant meets a D-power participant", func() {
			strong := balanced("A", model.StatVector{9, 5, 5, 5, 5, 5, 5}, model.Middleweight)
			weak := balanced("B", model.StatVector{2, 5, 5, 5, 5, 5, 5}, model.Middleweight)

			Convey("Then the strong side should win from either seat", func() {
				So(e.ResolveDuel(strong, weak, powerDuel, zero).Winner, ShouldEqual, model.Side1)
				So(e.ResolveDuel(weak, strong, powerDuel, zero).Winner, ShouldEqual, model.Side2)
			})
		})

		Convey("When ratings are exactly equal", func() {
			p1 := balanced("one", model.StatVector{6, 5, 5, 5, 5, 5, 5}, model.Middleweight)
			p2 := balanced("two", model.StatVector{6, 5, 5, 5, 5, 5, 5}, model.Middleweight)

			Convey("Then side 2 should win the duel", func() {
				out := e.ResolveDuel(p1, p2, powerDuel, zero)
				So(out.Rating1, ShouldEqual, out.Rating2)
				So(out.Winner, ShouldEqual, model.Side2)
			})

			Convey("Then side 2 should win the team contest", func() {
				tug := model.Sport{Name: "Tug of War", Type: model.Team, TeamSize: 3, Weights: model.Weights{0.5, 0, 0.5}}
				out := e.ResolveTeam([]model.Participant{p1}, []model.Participant{p2}, tug, zero)
				So(out.Winner, ShouldEqual, model.Side2)
			})
		})

		Convey("When both lineups are empty", func() {
			Convey("Then the tie rule should still apply", func() {
				out := e.ResolveTeam(nil, nil, powerDuel, zero)
				So(out.Winner, ShouldEqual, model.Side2)
			})
		})
	})

	Convey("Given a seeded source", t, func() {
		src := random.New(3)
		p := balanced("p", model.StatVector{5, 5, 5, 5, 5, 5, 5}, model.Middleweight)

		Convey("Then duel noise should stay within 12 rating units", func() {
			e := newEngine()
			for i := 0; i < 500; i++ {
				out := e.ResolveDuel(p, p, powerDuel, src)
				So(math.Abs(out.Rating1-out.Base1), ShouldBeLessThanOrEqualTo, 12)
				So(math.Abs(out.Rating2-out.Base2), ShouldBeLessThanOrEqualTo, 12)
			}
		})

		Convey("Then team noise should stay within 10 rating units", func() {
			e := newEngine()
			for i := 0; i < 500; i++ {
				out := e.ResolveTeam([]model.Participant{p}, []model.Participant{p}, powerDuel, src)
				So(math.Abs(out.Rating1-out.Base1), ShouldBeLessThanOrEqualTo, 10)
			}
		})

		Convey("Then configured noise should be honoured", func() {
			e := newEngine(rating.WithDuelNoise(0), rating.WithTeamNoise(1))
			out := e.ResolveDuel(p, p, powerDuel, src)
			So(out.Rating1, ShouldEqual, out.Base1)
			So(out.Winner, ShouldEqual, model.Side2)
		})
	})
}

func TestDecisiveStats(t *testing.T) {
	Convey("Given winners and losers", t, func() {
		e := newEngine()
		w := balanced("w", model.StatVector{9, 8, 5, 7, 1, 5, 5}, model.Middleweight)
		l := balanced("l", model.StatVector{2, 5, 5, 5, 5, 5, 5}, model.Middleweight)

		Convey("Then the largest positive gaps should be listed first", func() {
			got := e.DecisiveStats([]model.Participant{w}, []model.Participant{l}, powerDuel)
			So(got, ShouldResemble, []model.Stat{model.Power, model.Speed, model.Accuracy})
		})

		Convey("Then equal sides should yield no decisive stat", func() {
			got := e.DecisiveStats([]model.Participant{l}, []model.Participant{l}, powerDuel)
			So(got, ShouldBeEmpty)
		})

		Convey("Then ties between gaps should keep canonical order", func() {
			a := balanced("a", model.StatVector{3, 6, 5, 5, 5, 5, 5}, model.Middleweight)
			got := e.DecisiveStats([]model.Participant{a}, []model.Participant{l}, powerDuel)
			So(got, ShouldResemble, []model.Stat{model.Power, model.Speed})
		})
	})
}
