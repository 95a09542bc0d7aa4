// Package progression implements post-match tier drift for community
// participants.
package progression

import (
	"slices"

	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
)

// Drift probabilities.
const (
	PromoteOnWin   = 0.12
	PromoteOnLoss  = 0.05
	DemoteOnWin    = 0.05
	DemoteOnLoss   = 0.18
	StandoutBonus  = 0.18
	StandoutRelief = 0.06
	Respecialize   = 0.06

	// MaxStandouts bounds the standout set.
	MaxStandouts = 2
)

// Input is the state a drift decision is made from.
type Input struct {
	Winners   []model.Participant
	Losers    []model.Participant
	Context   string
	Standouts []string
}

// Outcome is the decided new state. Updated holds the final record of every
// community participant touched, in first-seen order.
type Outcome struct {
	Updated []model.Participant
	Report  model.ProgressionReport
}

// Decide runs one drift pass. Official records are skipped without drawing.
// A participant listed on both sides drifts twice, as a winner first. The
// function is pure given src.
func Decide(in Input, src random.Source) Outcome {
	out := Outcome{Report: model.ProgressionReport{Context: in.Context}}
	current := make(map[string]model.Participant)
	var order []string

	pass := func(group []model.Participant, won bool) {
		for _, p := range group {
			if p.IsOfficial() {
				continue
			}
			if cur, seen := current[p.Name]; seen {
				p = cur
			} else {
				order = append(order, p.Name)
			}
			standout := slices.Contains(in.Standouts, p.Name)
			next, changes, respec := drift(p, won, standout, src)
			out.Report.Changes = append(out.Report.Changes, changes...)
			if respec && !slices.Contains(out.Report.Respecialized, next.Name) {
				out.Report.Respecialized = append(out.Report.Respecialized, next.Name)
			}
			current[next.Name] = next
		}
	}
	pass(in.Winners, true)
	pass(in.Losers, false)

	for _, name := range order {
		out.Updated = append(out.Updated, current[name])
	}
	out.Report.Updated = order
	return out
}

func drift(p model.Participant, won, standout bool, src random.Source) (model.Participant, []model.TierChange, bool) {
	promote, demote := PromoteOnLoss, DemoteOnLoss
	if won {
		promote, demote = PromoteOnWin, DemoteOnWin
	}
	if standout {
		promote += StandoutBonus
		// May go negative; a [0,1) draw then never demotes.
		demote -= StandoutRelief
	}

	var changes []model.TierChange
	for _, s := range model.Stats {
		cur := p.Tiers[s]
		if !cur.Valid() {
			cur = model.TierB
		}
		p.Tiers[s] = cur
		p.Stats[s] = catalog.RollStat(cur, src)

		next := cur
		if src.Float64() < promote {
			next = cur.Up()
		} else if src.Float64() < demote {
			next = cur.Down()
		} else {
			continue
		}
		p.Tiers[s] = next
		p.Stats[s] = catalog.RollStat(next, src)
		if next != cur {
			changes = append(changes, model.TierChange{Participant: p.Name, Stat: s, From: cur, To: next})
		}
	}

	respecialized := false
	if src.Float64() < Respecialize {
		spec := catalog.DeriveSpecialization(p.Tiers)
		respecialized = spec != p.Specialization
		p.Specialization = spec
	}
	return p, changes, respecialized
}
