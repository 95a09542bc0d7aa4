package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
	. "github.com/smartystreets/goconvey/convey"
)

func tiers(power, speed, stamina, accuracy, defense, clutch, teamwork model.Tier) model.TierVector {
	return model.TierVector{power, speed, stamina, accuracy, defense, clutch, teamwork}
}

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := catalog.Default()

		Convey("Then it should list the five sports in order", func() {
			var names []string
			for _, s := range c.Sports() {
				names = append(names, s.Name)
			}
			So(names, ShouldResemble, []string{"Basketball", "Boxing", "Tennis", "Wrestling", "Soccer"})
		})

		Convey("Then every sport's weights should sum to one", func() {
			for _, s := range c.Sports() {
				So(s.Weights.Sum(), ShouldAlmostEqual, 1.0, 1e-9)
			}
		})

		Convey("Then team sizes should match the contest type", func() {
			bb, ok := c.Sport("Basketball")
			So(ok, ShouldBeTrue)
			So(bb.LineupSize(), ShouldEqual, 5)
			soccer, _ := c.Sport("Soccer")
			So(soccer.LineupSize(), ShouldEqual, 7)
			boxing, _ := c.Sport("Boxing")
			So(boxing.LineupSize(), ShouldEqual, 1)
		})

		Convey("Then unknown sports should not resolve", func() {
			_, ok := c.Sport("Curling")
			So(ok, ShouldBeFalse)
		})

		Convey("Then unknown keys should fall back to explicit defaults", func() {
			So(c.WeightModifier("Cruiserweight"), ShouldEqual, 1.0)
			So(c.WeightModifier(model.Heavyweight), ShouldEqual, 1.06)
			So(c.Profile("Wizard").Boosts, ShouldResemble, model.Weights{})
		})

		Convey("Then boosts should shrink outside favored sports", func() {
			p := c.Profile(model.Powerhouse)
			So(p.Boost(model.Power, "Boxing"), ShouldAlmostEqual, 0.18)
			So(p.Boost(model.Power, "Tennis"), ShouldAlmostEqual, 0.18*0.45)
			So(p.Boost(model.Speed, "Boxing"), ShouldEqual, 0)
		})

		Convey("Then weight classes should be listed lightest first", func() {
			So(c.WeightClasses(), ShouldResemble, []model.WeightClass{
				model.Flyweight, model.Lightweight, model.Middleweight, model.LightHeavy, model.Heavyweight,
			})
		})
	})
}

func TestNewValidation(t *testing.T) {
	Convey("Given custom sport tables", t, func() {
		Convey("When the table is empty", func() {
			_, err := catalog.New(catalog.WithSports(nil))
			So(errors.Is(err, catalog.ErrEmptyCatalog), ShouldBeTrue)
		})

		Convey("When two sports share a name", func() {
			s := model.Sport{Name: "Judo", Type: model.Duel, Weights: model.Weights{1}}
			_, err := catalog.New(catalog.WithSports([]model.Sport{s, s}))
			So(errors.Is(err, catalog.ErrDuplicateSport), ShouldBeTrue)
		})

		Convey("When a sport is invalid", func() {
			s := model.Sport{Name: "Relay", Type: model.Team, Weights: model.Weights{1}}
			_, err := catalog.New(catalog.WithSports([]model.Sport{s}))
			So(errors.Is(err, model.ErrInvalidSport), ShouldBeTrue)
		})
	})
}

func TestDeriveSpecialization(t *testing.T) {
	D, B, A, S := model.TierD, model.TierB, model.TierA, model.TierS

	Convey("Given tier vectors", t, func() {
		cases := []struct {
			name  string
			tiers model.TierVector
			want  model.Specialization
		}{
			{"teamwork at the top", tiers(S, S, S, S, S, S, S), model.Playmaker},
			{"accuracy and clutch", tiers(A, B, B, S, B, S, B), model.Sniper},
			{"accuracy alone", tiers(A, B, B, S, B, A, B), model.Balanced},
			{"stamina wins over power", tiers(S, B, S, B, B, B, B), model.Defender},
			{"power", tiers(S, A, A, A, A, A, A), model.Powerhouse},
			{"speed", tiers(A, S, B, B, B, B, B), model.Speedster},
			{"clutch alone", tiers(B, B, B, B, B, S, D), model.Balanced},
			{"all B", model.Uniform(B), model.Playmaker},
			{"LeBron James", tiers(A, A, S, A, A, S, S), model.Playmaker},
			{"Mike Tyson", tiers(S, A, B, A, B, B, D), model.Powerhouse},
			{"Stephen Curry", tiers(D, A, A, S, B, A, B), model.Balanced},
		}

		for _, tc := range cases {
			Convey("Then "+tc.name+" should derive "+string(tc.want), func() {
				So(catalog.DeriveSpecialization(tc.tiers), ShouldEqual, tc.want)
			})
		}

		Convey("Then unset tiers should count as B", func() {
			var v model.TierVector
			v[model.Power] = A
			So(catalog.DeriveSpecialization(v), ShouldEqual, model.Powerhouse)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a YAML catalog file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "sports.yaml")
		content := `
sports:
  - name: Judo
    type: duel
    icon: "🥋"
    weights:
      power: 0.5
      defense: 0.5
    format:
      unit: minutes
      default: 4
    commentary:
      - "{p1} throws {p2} with a clean ippon."
  - name: Relay
    type: team
    team_size: 4
    weights:
      speed: 1
weight_classes:
  Super-Heavy: 1.09
`
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("When loaded into a catalog", func() {
			opts, err := catalog.Load(path)
			So(err, ShouldBeNil)
			c, err := catalog.New(opts...)
			So(err, ShouldBeNil)

			Convey("Then the sports should replace the defaults", func() {
				So(len(c.Sports()), ShouldEqual, 2)
				judo, ok := c.Sport("Judo")
				So(ok, ShouldBeTrue)
				So(judo.Weights[model.Power], ShouldEqual, 0.5)
				So(judo.Format.Default, ShouldEqual, 4)
				So(judo.Commentary, ShouldHaveLength, 1)
				relay, _ := c.Sport("Relay")
				So(relay.LineupSize(), ShouldEqual, 4)
			})

			Convey("Then the extra weight class should be known", func() {
				So(c.WeightModifier("Super-Heavy"), ShouldEqual, 1.09)
				So(c.WeightClasses(), ShouldContain, model.WeightClass("Super-Heavy"))
			})
		})

		Convey("When a weight names an unknown stat", func() {
			bad := filepath.Join(dir, "bad.yaml")
			So(os.WriteFile(bad, []byte("sports:\n  - name: X\n    type: duel\n    weights:\n      luck: 1\n"), 0o600), ShouldBeNil)
			_, err := catalog.Load(bad)
			So(errors.Is(err, model.ErrUnknownStat), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			_, err := catalog.Load(filepath.Join(dir, "missing.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRollAndRepair(t *testing.T) {
	Convey("Given a seeded source", t, func() {
		src := random.New(11)

		Convey("Then rolled stats should fall inside their tier", func() {
			for _, tr := range []model.Tier{model.TierD, model.TierB, model.TierA, model.TierS} {
				for i := 0; i < 200; i++ {
					So(tr.Contains(catalog.RollStat(tr, src)), ShouldBeTrue)
				}
			}
		})

		Convey("Then an invalid tier should roll as B", func() {
			for i := 0; i < 50; i++ {
				So(model.TierB.Contains(catalog.RollStat(0, src)), ShouldBeTrue)
			}
		})

		Convey("When a stored record is missing fields", func() {
			var p model.Participant
			p.Name = "Legacy"
			p.Tiers[model.Power] = model.TierS
			p.Stats[model.Power] = 14
			p.Origin = model.OriginCommunity
			got := catalog.Repair(p, model.OriginOfficial, src)

			Convey("Then gaps should be filled and origin forced", func() {
				So(got.Tiers[model.Speed], ShouldEqual, model.TierB)
				So(got.Stats[model.Power], ShouldEqual, 10)
				So(got.Consistent(), ShouldBeTrue)
				So(got.WeightClass, ShouldEqual, model.Middleweight)
				So(got.Specialization, ShouldEqual, model.Powerhouse)
				So(got.Origin, ShouldEqual, model.OriginOfficial)
			})
		})

		Convey("When a stored record is complete", func() {
			p := model.Participant{
				Name:           "Done",
				Stats:          model.StatVector{5, 5, 5, 5, 5, 5, 5},
				Tiers:          model.Uniform(model.TierB),
				WeightClass:    model.Flyweight,
				Specialization: model.Sniper,
			}

			Convey("Then it should be kept as is", func() {
				got := catalog.Repair(p, model.OriginCommunity, src)
				p.Origin = model.OriginCommunity
				So(got, ShouldResemble, p)
			})
		})
	})
}
