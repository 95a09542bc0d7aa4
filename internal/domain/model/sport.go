package model

import "fmt"

// ContestType distinguishes team sports from one-on-one duels.
type ContestType string

// Contest types.
const (
	Team ContestType = "team"
	Duel ContestType = "duel"
)

// Format describes cosmetic length parameters (rounds, sets, minutes).
// It never affects rating math.
type Format struct {
	Unit    string `json:"unit"`
	Default int    `json:"default"`
	Options []int  `json:"options,omitempty"`
}

// Sport is one entry of the sport catalog.
type Sport struct {
	Name       string      `json:"name"`
	Type       ContestType `json:"type"`
	Weights    Weights     `json:"weights"`
	TeamSize   int         `json:"team_size,omitempty"`
	Icon       string      `json:"icon,omitempty"`
	Format     *Format     `json:"format,omitempty"`
	Commentary []string    `json:"-"`
}

// IsTeam reports whether the sport is team-type.
func (s Sport) IsTeam() bool { return s.Type == Team }

// LineupSize is the team size for team sports and 1 for duels.
func (s Sport) LineupSize() int {
	if s.IsTeam() {
		return s.TeamSize
	}
	return 1
}

// Validate checks the structural rules of a sport definition.
func (s Sport) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSport)
	}
	switch s.Type {
	case Team:
		if s.TeamSize < 1 {
			return fmt.Errorf("%w: %s: team size must be positive", ErrInvalidSport, s.Name)
		}
	case Duel:
	default:
		return fmt.Errorf("%w: %s: unknown contest type %q", ErrInvalidSport, s.Name, s.Type)
	}
	for _, w := range s.Weights {
		if w < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeWeight, s.Name)
		}
	}
	if s.Weights.Sum() <= 0 {
		return fmt.Errorf("%w: %s: weights sum to zero", ErrInvalidSport, s.Name)
	}
	return nil
}
