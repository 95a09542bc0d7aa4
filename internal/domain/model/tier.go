package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tier is an ordered label bounding a stat's numeric range. The zero value
// is not a valid tier and marks a missing entry.
type Tier int

// Tiers in ascending order.
const (
	TierD Tier = iota + 1
	TierB
	TierA
	TierS
)

type tierRange struct{ lo, hi int }

var tierRanges = map[Tier]tierRange{ //nolint:gochecknoglobals // fixed table
	TierD: {1, 4},
	TierB: {5, 7},
	TierA: {7, 9},
	TierS: {9, 10},
}

// Valid reports whether t is one of D, B, A or S.
func (t Tier) Valid() bool { return t >= TierD && t <= TierS }

// Range returns the inclusive value range of t.
func (t Tier) Range() (lo, hi int) {
	r, ok := tierRanges[t]
	if !ok {
		r = tierRanges[TierB]
	}
	return r.lo, r.hi
}

// Contains reports whether v lies inside t's range.
func (t Tier) Contains(v int) bool {
	lo, hi := t.Range()
	return v >= lo && v <= hi
}

// Up returns the next tier, clamped at S.
func (t Tier) Up() Tier {
	if t >= TierS {
		return TierS
	}
	return t + 1
}

// Down returns the previous tier, clamped at D.
func (t Tier) Down() Tier {
	if t <= TierD {
		return TierD
	}
	return t - 1
}

// Cap returns the lower of t and limit.
func (t Tier) Cap(limit Tier) Tier {
	if t > limit {
		return limit
	}
	return t
}

func (t Tier) String() string {
	switch t {
	case TierD:
		return "D"
	case TierB:
		return "B"
	case TierA:
		return "A"
	case TierS:
		return "S"
	default:
		return ""
	}
}

// ParseTier parses a tier label, case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "D":
		return TierD, nil
	case "B":
		return TierB, nil
	case "A":
		return TierA, nil
	case "S":
		return TierS, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTier, s)
}

// MarshalText encodes the tier label.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTier, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier label.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TierVector holds one tier per stat.
type TierVector [NumStats]Tier

// Uniform returns a TierVector with every stat at t.
func Uniform(t Tier) TierVector {
	var v TierVector
	for i := range v {
		v[i] = t
	}
	return v
}

// Max returns the highest tier present.
func (v TierVector) Max() Tier {
	var m Tier
	for _, t := range v {
		if t > m {
			m = t
		}
	}
	return m
}

// MarshalJSON encodes the vector as an object keyed by stat name, skipping
// unset entries.
func (v TierVector) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, NumStats)
	for _, s := range Stats {
		if v[s].Valid() {
			m[s.String()] = v[s].String()
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by stat name. Missing stats stay
// unset.
func (v *TierVector) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out TierVector
	for k, label := range m {
		s, err := ParseStat(k)
		if err != nil {
			return err
		}
		t, err := ParseTier(label)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		out[s] = t
	}
	*v = out
	return nil
}
