package catalog

import (
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
)

// DefaultWeightClass is assigned to records that carry none.
const DefaultWeightClass = model.Middleweight

// RollStat draws a value uniformly from t's range. Invalid tiers roll as B.
func RollStat(t model.Tier, src random.Source) int {
	lo, hi := t.Range()
	return model.ClampStat(random.IntBetween(src, lo, hi))
}

// RollStats draws one value per stat in stat order.
func RollStats(tiers model.TierVector, src random.Source) model.StatVector {
	var v model.StatVector
	for _, s := range model.Stats {
		v[s] = RollStat(tiers[s], src)
	}
	return v
}

// Repair fills the gaps of a stored record: unset tiers become B, missing
// stats are rolled within their tier, an empty weight class becomes
// Middleweight and an empty specialization is derived. Present values are
// clamped into their tier's range. origin always overrides the record.
func Repair(p model.Participant, origin model.Origin, src random.Source) model.Participant {
	for _, s := range model.Stats {
		if !p.Tiers[s].Valid() {
			p.Tiers[s] = model.TierB
		}
		if p.Stats[s] == 0 {
			p.Stats[s] = RollStat(p.Tiers[s], src)
		} else {
			lo, hi := p.Tiers[s].Range()
			p.Stats[s] = min(max(p.Stats[s], lo), hi)
		}
	}
	if p.WeightClass == "" {
		p.WeightClass = DefaultWeightClass
	}
	if p.Specialization == "" {
		p.Specialization = DeriveSpecialization(p.Tiers)
	}
	p.Origin = origin
	return p
}
