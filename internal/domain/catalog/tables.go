package catalog

import "github.com/okian/universus/internal/domain/model"

var defaultWeightClassOrder = []model.WeightClass{ //nolint:gochecknoglobals // fixed table
	model.Flyweight,
	model.Lightweight,
	model.Middleweight,
	model.LightHeavy,
	model.Heavyweight,
}

func defaultWeightClasses() map[model.WeightClass]float64 {
	return map[model.WeightClass]float64{
		model.Flyweight:    0.95,
		model.Lightweight:  0.98,
		model.Middleweight: 1.00,
		model.LightHeavy:   1.03,
		model.Heavyweight:  1.06,
	}
}

func favored(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func boosts(pairs map[model.Stat]float64) model.Weights {
	var w model.Weights
	for s, v := range pairs {
		w[s] = v
	}
	return w
}

func defaultProfiles() map[model.Specialization]Profile {
	return map[model.Specialization]Profile{
		model.Playmaker: {
			Boosts:  boosts(map[model.Stat]float64{model.Teamwork: 0.12, model.Accuracy: 0.06}),
			Favored: favored("Basketball", "Soccer", "Tennis"),
		},
		model.Sniper: {
			Boosts:  boosts(map[model.Stat]float64{model.Accuracy: 0.15, model.Clutch: 0.06}),
			Favored: favored("Basketball", "Tennis", "Soccer"),
		},
		model.Defender: {
			Boosts:  boosts(map[model.Stat]float64{model.Defense: 0.15, model.Stamina: 0.06}),
			Favored: favored("Wrestling", "Boxing", "Soccer"),
		},
		model.Powerhouse: {
			Boosts:  boosts(map[model.Stat]float64{model.Power: 0.18, model.Stamina: 0.05}),
			Favored: favored("Boxing", "Wrestling", "Basketball"),
		},
		model.Speedster: {
			Boosts:  boosts(map[model.Stat]float64{model.Speed: 0.18, model.Clutch: 0.04}),
			Favored: favored("Tennis", "Soccer", "Basketball"),
		},
		model.Balanced: {
			Favored: favored("Basketball", "Boxing", "Tennis", "Wrestling", "Soccer"),
		},
	}
}

// DefaultSports returns the built-in sport table.
func DefaultSports() []model.Sport {
	return []model.Sport{
		{
			Name:     "Basketball",
			Type:     model.Team,
			TeamSize: 5,
			Icon:     "🏀",
			Weights: boosts(map[model.Stat]float64{
				model.Power: 0.30, model.Defense: 0.25, model.Accuracy: 0.15,
				model.Stamina: 0.15, model.Clutch: 0.10, model.Teamwork: 0.05,
			}),
			Commentary: []string{
				"{p1} isolates, sizes up the defender and knocks down a mid-range jumper: pure footwork.",
				"{p2} drives baseline and finishes with a tomahawk dunk off the glass!",
				"{p1} calls for the pick-and-roll: the roller slips to the rim for an easy layup.",
			},
		},
		{
			Name:   "Boxing",
			Type:   model.Duel,
			Icon:   "🥊",
			Format: &model.Format{Unit: "rounds", Default: 12, Options: []int{4, 8, 10, 12}},
			Weights: boosts(map[model.Stat]float64{
				model.Power: 0.40, model.Defense: 0.25, model.Stamina: 0.25, model.Accuracy: 0.10,
			}),
			Commentary: []string{
				"{p1} opens with a probing jab, testing range and timing.",
				"{p2} feints low then lands a sharp counter right hand.",
			},
		},
		{
			Name:   "Tennis",
			Type:   model.Duel,
			Icon:   "🎾",
			Format: &model.Format{Unit: "sets", Default: 3, Options: []int{3, 5}},
			Weights: boosts(map[model.Stat]float64{
				model.Speed: 0.35, model.Accuracy: 0.30, model.Stamina: 0.25, model.Clutch: 0.10,
			}),
			Commentary: []string{
				"{p1} serves an ace down the T with pinpoint placement.",
				"{p2} returns with heavy topspin that pushes {p1} wide.",
			},
		},
		{
			Name:   "Wrestling",
			Type:   model.Duel,
			Icon:   "🤼",
			Format: &model.Format{Unit: "rounds", Default: 5, Options: []int{1, 3, 5}},
			Weights: boosts(map[model.Stat]float64{
				model.Power: 0.35, model.Speed: 0.25, model.Stamina: 0.25,
				model.Defense: 0.10, model.Clutch: 0.05,
			}),
			Commentary: []string{
				"{p1} shoots for a single-leg takedown and drives through for 2 points!",
				"{p2} counters with a slick reversal and control switches!",
			},
		},
		{
			Name:     "Soccer",
			Type:     model.Team,
			TeamSize: 7,
			Icon:     "⚽",
			Format:   &model.Format{Unit: "minutes", Default: 90},
			Weights: boosts(map[model.Stat]float64{
				model.Teamwork: 0.30, model.Stamina: 0.25, model.Accuracy: 0.20,
				model.Speed: 0.15, model.Power: 0.06, model.Defense: 0.04,
			}),
			Commentary: []string{
				"{p1} threads a perfect through ball and the attack is on!",
				"{p2} makes a last-ditch sliding tackle to deny the chance.",
			},
		},
	}
}
