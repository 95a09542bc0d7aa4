// Package narrative produces cosmetic commentary. Nothing here affects
// outcomes; callers may skip it entirely.
package narrative

import (
	"strings"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
)

const fallbackTemplate = "{p1} and {p2} trade blows in {sport}."

var techniques = map[model.Stat]string{ //nolint:gochecknoglobals // fixed table
	model.Power:    "powerful finishing and heavy shots",
	model.Speed:    "speed and transitions opened space",
	model.Stamina:  "endurance paid off late",
	model.Accuracy: "precision and placement created chances",
	model.Defense:  "tight defense and effective counters",
	model.Clutch:   "composed clutch plays at key moments",
	model.Teamwork: "excellent team coordination and build-up",
}

// BalancedTechnique describes a win with no decisive stat.
const BalancedTechnique = "balanced skills and tactical execution"

// Line picks one of the sport's templates uniformly and substitutes the
// names positionally. Sports without templates get a generic line.
func Line(sport model.Sport, p1, p2 string, src random.Source) string {
	tpl := fallbackTemplate
	if n := len(sport.Commentary); n > 0 {
		tpl = sport.Commentary[src.IntN(n)]
	}
	return strings.NewReplacer("{p1}", p1, "{p2}", p2, "{sport}", sport.Name).Replace(tpl)
}

// Lines returns n lines, each with names drawn from the two lineups.
func Lines(sport model.Sport, side1, side2 []string, n int, src random.Source) []string {
	if n <= 0 || len(side1) == 0 || len(side2) == 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		p1 := side1[src.IntN(len(side1))]
		p2 := side2[src.IntN(len(side2))]
		out[i] = Line(sport, p1, p2, src)
	}
	return out
}

// Technique names the play style a decisive stat stands for.
func Technique(s model.Stat) string {
	if t, ok := techniques[s]; ok {
		return t
	}
	return BalancedTechnique
}

// Techniques maps decisive stats to their descriptions, falling back to the
// balanced description when none is given.
func Techniques(stats []model.Stat) []string {
	if len(stats) == 0 {
		return []string{BalancedTechnique}
	}
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = Technique(s)
	}
	return out
}
