// Package catalog holds the fixed configuration tables of the simulator:
// sports, specializations and weight classes. Tables are resolved once at
// startup; lookups of unknown keys return an explicit default variant.
package catalog

import (
	"fmt"
	"slices"

	"github.com/okian/universus/internal/domain/model"
)

// OutOfSpecialtyFactor scales a specialization boost in sports the
// specialization does not favor.
const OutOfSpecialtyFactor = 0.45

// DefaultWeightModifier applies to unknown weight classes.
const DefaultWeightModifier = 1.0

// Profile describes one specialization.
type Profile struct {
	Boosts  model.Weights
	Favored map[string]bool
}

// Boost returns the fraction applied to stat s in sport.
func (p Profile) Boost(s model.Stat, sport string) float64 {
	b := p.Boosts[s]
	if b == 0 {
		return 0
	}
	if p.Favored[sport] {
		return b
	}
	return b * OutOfSpecialtyFactor
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSports replaces the sport table.
func WithSports(sports []model.Sport) Option {
	return func(c *Catalog) {
		c.sports = append([]model.Sport(nil), sports...)
	}
}

// WithWeightClass adds or overrides one weight class modifier.
func WithWeightClass(wc model.WeightClass, modifier float64) Option {
	return func(c *Catalog) {
		if modifier > 0 {
			c.weightClasses[wc] = modifier
		}
	}
}

// Catalog is an immutable set of configuration tables.
type Catalog struct {
	sports          []model.Sport
	byName          map[string]int
	profiles        map[model.Specialization]Profile
	weightClasses   map[model.WeightClass]float64
	weightClassList []model.WeightClass
}

// New builds a catalog from the default tables and applies opts. The sport
// table is validated; names must be unique.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		sports:        DefaultSports(),
		profiles:      defaultProfiles(),
		weightClasses: defaultWeightClasses(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(c.sports) == 0 {
		return nil, ErrEmptyCatalog
	}
	c.byName = make(map[string]int, len(c.sports))
	for i, s := range c.sports {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSport, s.Name)
		}
		c.byName[s.Name] = i
	}

	var extra []model.WeightClass
	for wc := range c.weightClasses {
		if !slices.Contains(defaultWeightClassOrder, wc) {
			extra = append(extra, wc)
		}
	}
	slices.Sort(extra)
	c.weightClassList = append(slices.Clone(defaultWeightClassOrder), extra...)
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New()
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid default tables: %v", err))
	}
	return c
}

// Sports returns the sport table in catalog order.
func (c *Catalog) Sports() []model.Sport {
	return append([]model.Sport(nil), c.sports...)
}

// Sport looks up a sport by name.
func (c *Catalog) Sport(name string) (model.Sport, bool) {
	i, ok := c.byName[name]
	if !ok {
		return model.Sport{}, false
	}
	return c.sports[i], true
}

// Profile returns the specialization profile, or Balanced when spec is
// unknown.
func (c *Catalog) Profile(spec model.Specialization) Profile {
	if p, ok := c.profiles[spec]; ok {
		return p
	}
	return c.profiles[model.Balanced]
}

// WeightModifier returns the rating scalar for wc, or 1.0 when unknown.
func (c *Catalog) WeightModifier(wc model.WeightClass) float64 {
	if m, ok := c.weightClasses[wc]; ok {
		return m
	}
	return DefaultWeightModifier
}

// KnownWeightClass reports whether wc has a configured modifier.
func (c *Catalog) KnownWeightClass(wc model.WeightClass) bool {
	_, ok := c.weightClasses[wc]
	return ok
}

// WeightClasses lists the configured weight classes, lightest first.
func (c *Catalog) WeightClasses() []model.WeightClass {
	return append([]model.WeightClass(nil), c.weightClassList...)
}

// DeriveSpecialization picks a specialization from the stats holding the
// highest tier, in fixed priority order.
func DeriveSpecialization(tiers model.TierVector) model.Specialization {
	var rank [model.NumStats]model.Tier
	for i, t := range tiers {
		if !t.Valid() {
			t = model.TierB
		}
		rank[i] = t
	}
	top := model.TierVector(rank).Max()
	at := func(s model.Stat) bool { return rank[s] == top }

	switch {
	case at(model.Teamwork):
		return model.Playmaker
	case at(model.Accuracy) && at(model.Clutch):
		return model.Sniper
	case at(model.Defense) || at(model.Stamina):
		return model.Defender
	case at(model.Power):
		return model.Powerhouse
	case at(model.Speed):
		return model.Speedster
	default:
		return model.Balanced
	}
}
