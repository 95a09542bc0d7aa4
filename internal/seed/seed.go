// Package seed provides the built-in official roster.
package seed

import (
	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
)

// Profile is the tier layout of one official participant.
type Profile struct {
	Name        string
	Tiers       model.TierVector
	WeightClass model.WeightClass
}

const (
	d = model.TierD
	b = model.TierB
	a = model.TierA
	s = model.TierS
)

// Profiles lists the official roster. Tiers are in stat order: power, speed,
// stamina, accuracy, defense, clutch, teamwork.
func Profiles() []Profile {
	return []Profile{
		{"LeBron James", model.TierVector{a, a, s, a, a, s, s}, model.Heavyweight},
		{"Michael Jordan", model.TierVector{s, s, a, s, a, s, a}, model.Lightweight},
		{"Kobe Bryant", model.TierVector{a, a, a, s, a, s, b}, model.Lightweight},
		{"Muhammad Ali", model.TierVector{a, s, s, a, a, a, b}, model.Middleweight},
		{"Mike Tyson", model.TierVector{s, a, b, a, b, b, d}, model.LightHeavy},
		{"Roger Federer", model.TierVector{b, a, s, s, a, a, b}, model.Lightweight},
		{"Rafael Nadal", model.TierVector{a, a, s, a, a, s, b}, model.Lightweight},
		{"Novak Djokovic", model.TierVector{a, a, s, s, s, a, b}, model.Lightweight},
		{"Shaq", model.TierVector{s, d, d, d, a, b, a}, model.Heavyweight},
		{"Stephen Curry", model.TierVector{d, a, a, s, b, a, b}, model.Lightweight},
		{"Generic Star", model.Uniform(b), model.Middleweight},
	}
}

// Official rolls stat values for every profile and returns the roster keyed
// by name. Callers persist the result so the roll happens once.
func Official(src random.Source) map[string]model.Participant {
	out := make(map[string]model.Participant)
	for _, p := range Profiles() {
		out[p.Name] = model.Participant{
			Name:           p.Name,
			Stats:          catalog.RollStats(p.Tiers, src),
			Tiers:          p.Tiers,
			WeightClass:    p.WeightClass,
			Specialization: catalog.DeriveSpecialization(p.Tiers),
			Origin:         model.OriginOfficial,
		}
	}
	return out
}
