// Package attributes derives a participant's sport-specific effective stats.
package attributes

import (
	"math"

	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
)

// Engine computes effective stats from a catalog. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
}

// New returns an Engine backed by c.
func New(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Effective applies the participant's specialization boost for sport to
// every base stat, rounding half to even and clamping to [1,10]. The weight
// class is not folded in.
func (e *Engine) Effective(p model.Participant, sport string) model.StatVector {
	profile := e.catalog.Profile(p.Specialization)
	var out model.StatVector
	for _, s := range model.Stats {
		v := float64(p.Stats[s]) * (1 + profile.Boost(s, sport))
		out[s] = model.ClampStat(int(math.RoundToEven(v)))
	}
	return out
}

// WeightModifier returns the rating scalar of the participant's weight class.
func (e *Engine) WeightModifier(p model.Participant) float64 {
	return e.catalog.WeightModifier(p.WeightClass)
}
