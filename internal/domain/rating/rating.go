// Package rating aggregates effective stats into side ratings and resolves
// two-sided outcomes.
package rating

import (
	"sort"

	"github.com/okian/universus/internal/domain/attributes"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
)

// maxDecisiveStats caps the technique summary.
const maxDecisiveStats = 3

// Outcome is the result of one resolution.
type Outcome struct {
	Winner model.Side
	// Base ratings before noise.
	Base1, Base2 float64
	// Perturbed ratings that were compared.
	Rating1, Rating2 float64
}

// Engine rates sides and resolves contests. It holds no mutable state.
type Engine struct {
	attrs     *attributes.Engine
	teamNoise float64
	duelNoise float64
}

// New returns an Engine using attrs for effective stats.
func New(attrs *attributes.Engine, opts ...Option) *Engine {
	e := &Engine{
		attrs:     attrs,
		teamNoise: DefaultTeamNoise,
		duelNoise: DefaultDuelNoise,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Solo is the duel aggregation for one participant: weight-class-scaled
// effective stats dotted with the sport weights.
func (e *Engine) Solo(p model.Participant, sport model.Sport) float64 {
	eff := e.attrs.Effective(p, sport.Name)
	return sport.Weights.Dot(eff, e.attrs.WeightModifier(p))
}

// Team sums the solo ratings of every member.
func (e *Engine) Team(members []model.Participant, sport model.Sport) float64 {
	var sum float64
	for _, p := range members {
		sum += e.Solo(p, sport)
	}
	return sum
}

// ResolveTeam rates both lineups, adds team noise and picks the winner.
func (e *Engine) ResolveTeam(side1, side2 []model.Participant, sport model.Sport, src random.Source) Outcome {
	return e.resolve(e.Team(side1, sport), e.Team(side2, sport), e.teamNoise, src)
}

// ResolveDuel rates both participants, adds duel noise and picks the winner.
func (e *Engine) ResolveDuel(p1, p2 model.Participant, sport model.Sport, src random.Source) Outcome {
	return e.resolve(e.Solo(p1, sport), e.Solo(p2, sport), e.duelNoise, src)
}

// Side 1 wins only on a strictly greater perturbed rating; ties go to side 2.
func (e *Engine) resolve(base1, base2, noise float64, src random.Source) Outcome {
	r1 := base1 + random.Uniform(src, -noise, noise)
	r2 := base2 + random.Uniform(src, -noise, noise)
	out := Outcome{Base1: base1, Base2: base2, Rating1: r1, Rating2: r2, Winner: model.Side2}
	if r1 > r2 {
		out.Winner = model.Side1
	}
	return out
}

// DecisiveStats returns up to three stats on which the winners' aggregated
// weight-scaled effective stats exceed the losers', largest gap first.
func (e *Engine) DecisiveStats(winners, losers []model.Participant, sport model.Sport) []model.Stat {
	w := e.aggregate(winners, sport)
	l := e.aggregate(losers, sport)

	type gap struct {
		stat model.Stat
		diff float64
	}
	gaps := make([]gap, 0, model.NumStats)
	for _, s := range model.Stats {
		if d := w[s] - l[s]; d > 0 {
			gaps = append(gaps, gap{stat: s, diff: d})
		}
	}
	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].diff > gaps[j].diff })

	n := min(len(gaps), maxDecisiveStats)
	out := make([]model.Stat, n)
	for i := range out {
		out[i] = gaps[i].stat
	}
	return out
}

func (e *Engine) aggregate(members []model.Participant, sport model.Sport) [model.NumStats]float64 {
	var agg [model.NumStats]float64
	for _, p := range members {
		eff := e.attrs.Effective(p, sport.Name)
		mod := e.attrs.WeightModifier(p)
		for _, s := range model.Stats {
			agg[s] += float64(eff[s]) * mod
		}
	}
	return agg
}

// Match resolves sport between two lineups. Team sports use every member;
// duels use the first member of each lineup, which must exist.
func (e *Engine) Match(sport model.Sport, side1, side2 []model.Participant, src random.Source) model.MatchResult {
	var out Outcome
	if sport.IsTeam() {
		out = e.ResolveTeam(side1, side2, sport, src)
	} else {
		side1, side2 = side1[:1], side2[:1]
		out = e.ResolveDuel(side1[0], side2[0], sport, src)
	}

	res := model.MatchResult{
		Sport:   sport.Name,
		Side1:   names(side1),
		Side2:   names(side2),
		Winner:  out.Winner,
		Rating1: out.Rating1,
		Rating2: out.Rating2,
	}
	if out.Winner == model.Side1 {
		res.Decisive = e.DecisiveStats(side1, side2, sport)
	} else {
		res.Decisive = e.DecisiveStats(side2, side1, sport)
	}
	return res
}

func names(ps []model.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
