package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Stat names one of the seven base attributes.
type Stat int

// The seven stats, in canonical order.
const (
	Power Stat = iota
	Speed
	Stamina
	Accuracy
	Defense
	Clutch
	Teamwork

	NumStats = 7
)

// Stat value bounds.
const (
	MinStatValue = 1
	MaxStatValue = 10
)

var statNames = [NumStats]string{"power", "speed", "stamina", "accuracy", "defense", "clutch", "teamwork"}

// Stats lists every stat in canonical order.
var Stats = [NumStats]Stat{Power, Speed, Stamina, Accuracy, Defense, Clutch, Teamwork} //nolint:gochecknoglobals // fixed table

func (s Stat) String() string {
	if s < 0 || int(s) >= NumStats {
		return fmt.Sprintf("stat(%d)", int(s))
	}
	return statNames[s]
}

// MarshalText encodes the stat as its lowercase name.
func (s Stat) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= NumStats {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStat, int(s))
	}
	return []byte(statNames[s]), nil
}

// UnmarshalText parses a stat name.
func (s *Stat) UnmarshalText(b []byte) error {
	v, err := ParseStat(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStat resolves a stat by name, case-insensitively.
func ParseStat(name string) (Stat, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range statNames {
		if sn == n {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

// ClampStat bounds v to [MinStatValue, MaxStatValue].
func ClampStat(v int) int {
	if v < MinStatValue {
		return MinStatValue
	}
	if v > MaxStatValue {
		return MaxStatValue
	}
	return v
}

// StatVector holds one integer value per stat. A zero entry means "unset".
type StatVector [NumStats]int

// Get returns the value of s.
func (v StatVector) Get(s Stat) int { return v[s] }

// MarshalJSON encodes the vector as an object keyed by stat name.
func (v StatVector) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, NumStats)
	for _, s := range Stats {
		m[s.String()] = v[s]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by stat name. Missing stats stay zero
// and unknown keys are rejected.
func (v *StatVector) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out StatVector
	for k, val := range m {
		s, err := ParseStat(k)
		if err != nil {
			return err
		}
		out[s] = val
	}
	*v = out
	return nil
}

// Weights holds one non-negative fraction per stat.
type Weights [NumStats]float64

// Dot returns the weighted sum of v scaled by scale.
func (w Weights) Dot(v StatVector, scale float64) float64 {
	var sum float64
	for i := range w {
		sum += float64(v[i]) * scale * w[i]
	}
	return sum
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, x := range w {
		sum += x
	}
	return sum
}

// MarshalJSON encodes only the non-zero weights, keyed by stat name.
func (w Weights) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumStats)
	for _, s := range Stats {
		if w[s] != 0 {
			m[s.String()] = w[s]
		}
	}
	return json.Marshal(m)
}

// WeightsFromMap builds a Weights from a name-keyed map.
func WeightsFromMap(m map[string]float64) (Weights, error) {
	var w Weights
	for k, val := range m {
		s, err := ParseStat(k)
		if err != nil {
			return Weights{}, err
		}
		if val < 0 {
			return Weights{}, fmt.Errorf("%w: %s=%v", ErrNegativeWeight, k, val)
		}
		w[s] = val
	}
	return w, nil
}
