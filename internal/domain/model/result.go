package model

// Side identifies one of the two contestants. NoSide marks a tie.
type Side int

// Sides.
const (
	NoSide Side = iota
	Side1
	Side2
)

// MatchResult is the outcome of one single-sport resolution.
type MatchResult struct {
	Sport      string   `json:"sport"`
	Side1      []string `json:"side1"`
	Side2      []string `json:"side2"`
	Winner     Side     `json:"winner"`
	Rating1    float64  `json:"rating1"`
	Rating2    float64  `json:"rating2"`
	Decisive   []Stat   `json:"decisive_stats,omitempty"`
	Techniques []string `json:"techniques,omitempty"`
	Commentary []string `json:"commentary,omitempty"`

	// Progression is set on single-sport results only.
	Progression *ProgressionReport `json:"progression,omitempty"`
}

// WinnerNames returns the lineup of the winning side.
func (r MatchResult) WinnerNames() []string {
	if r.Winner == Side1 {
		return r.Side1
	}
	return r.Side2
}

// LoserNames returns the lineup of the losing side.
func (r MatchResult) LoserNames() []string {
	if r.Winner == Side1 {
		return r.Side2
	}
	return r.Side1
}

// MultisportResult is the outcome of a best-of-5 contest. Sports lists the
// drawn sequence, which may be longer than Matches when a side clinched
// early.
type MultisportResult struct {
	Sports      []string           `json:"sports"`
	Matches     []MatchResult      `json:"matches"`
	Score1      int                `json:"score1"`
	Score2      int                `json:"score2"`
	Winner      Side               `json:"winner"`
	Standouts   []string           `json:"standouts,omitempty"`
	Progression *ProgressionReport `json:"progression,omitempty"`
}

// TierChange records one stat's tier moving during drift.
type TierChange struct {
	Participant string `json:"participant"`
	Stat        Stat   `json:"stat"`
	From        Tier   `json:"from"`
	To          Tier   `json:"to"`
}

// ProgressionReport summarizes one committed progression pass.
type ProgressionReport struct {
	Context       string       `json:"context"`
	Updated       []string     `json:"updated"`
	Changes       []TierChange `json:"changes,omitempty"`
	Respecialized []string     `json:"respecialized,omitempty"`
}

// Promotions counts upward tier changes.
func (r *ProgressionReport) Promotions() int {
	n := 0
	for _, c := range r.Changes {
		if c.To > c.From {
			n++
		}
	}
	return n
}

// Demotions counts downward tier changes.
func (r *ProgressionReport) Demotions() int {
	n := 0
	for _, c := range r.Changes {
		if c.To < c.From {
			n++
		}
	}
	return n
}
