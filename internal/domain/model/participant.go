// Package model contains domain models passed between layers.
package model

// Origin tells official records apart from community records.
type Origin string

// Participant origins.
const (
	OriginOfficial  Origin = "official"
	OriginCommunity Origin = "community"
)

// WeightClass labels a participant's size bracket.
type WeightClass string

// Known weight classes.
const (
	Flyweight    WeightClass = "Flyweight"
	Lightweight  WeightClass = "Lightweight"
	Middleweight WeightClass = "Middleweight"
	LightHeavy   WeightClass = "Light-Heavy"
	Heavyweight  WeightClass = "Heavyweight"
)

// Specialization labels a participant's play style.
type Specialization string

// Known specializations.
const (
	Playmaker  Specialization = "Playmaker"
	Sniper     Specialization = "Sniper"
	Defender   Specialization = "Defender"
	Powerhouse Specialization = "Powerhouse"
	Speedster  Specialization = "Speedster"
	Balanced   Specialization = "Balanced"
)

// Participant is one roster entity.
type Participant struct {
	Name           string         `json:"name"`
	Stats          StatVector     `json:"stats"`
	Tiers          TierVector     `json:"tiers"`
	WeightClass    WeightClass    `json:"weight_class"`
	Specialization Specialization `json:"specialization"`
	Origin         Origin         `json:"origin"`
}

// IsOfficial reports whether p is a protected official record.
func (p Participant) IsOfficial() bool { return p.Origin == OriginOfficial }

// Consistent reports whether every tier is valid and every stat value lies
// within its tier's range.
func (p Participant) Consistent() bool {
	for _, s := range Stats {
		if !p.Tiers[s].Valid() || !p.Tiers[s].Contains(p.Stats[s]) {
			return false
		}
	}
	return true
}
