package simload

import (
	"errors"
	"fmt"
	"slices"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/types"
)

// ErrInvariant reports a result or roster state that should be impossible.
var ErrInvariant = errors.New("invariant violated")

// CheckResult verifies a multisport result against its pairing.
func CheckResult(c Contest, res model.MultisportResult) error {
	n := len(res.Matches)
	switch {
	case n == 0 || n > maxSports:
		return fmt.Errorf("%w: %d sports played", ErrInvariant, n)
	case res.Score1 > winsNeeded || res.Score2 > winsNeeded:
		return fmt.Errorf("%w: score %d-%d exceeds %d", ErrInvariant, res.Score1, res.Score2, winsNeeded)
	case res.Score1+res.Score2 != n:
		return fmt.Errorf("%w: score %d-%d over %d sports", ErrInvariant, res.Score1, res.Score2, n)
	}

	want := model.NoSide
	if res.Score1 > res.Score2 {
		want = model.Side1
	} else if res.Score2 > res.Score1 {
		want = model.Side2
	}
	if res.Winner != want {
		return fmt.Errorf("%w: winner %d with score %d-%d", ErrInvariant, res.Winner, res.Score1, res.Score2)
	}

	seen := make(map[string]bool, n)
	for _, m := range res.Matches {
		if seen[m.Sport] {
			return fmt.Errorf("%w: %s played twice", ErrInvariant, m.Sport)
		}
		seen[m.Sport] = true
		for _, name := range m.Side1 {
			if !slices.Contains(c.Side1, name) {
				return fmt.Errorf("%w: %s fielded for side1 in %s", ErrInvariant, name, m.Sport)
			}
		}
		for _, name := range m.Side2 {
			if !slices.Contains(c.Side2, name) {
				return fmt.Errorf("%w: %s fielded for side2 in %s", ErrInvariant, name, m.Sport)
			}
		}
	}
	return nil
}

// CheckOfficials verifies that no official record changed between two
// roster snapshots.
func CheckOfficials(before, after []types.Player) error {
	now := make(map[string]model.Participant, len(after))
	for _, p := range after {
		now[p.Name] = p.Participant
	}
	for _, p := range before {
		if !p.IsOfficial() {
			continue
		}
		q, ok := now[p.Name]
		switch {
		case !ok:
			return fmt.Errorf("%w: official %s disappeared", ErrInvariant, p.Name)
		case !q.IsOfficial():
			return fmt.Errorf("%w: official %s lost its origin", ErrInvariant, p.Name)
		case q.Tiers != p.Tiers || q.Stats != p.Stats:
			return fmt.Errorf("%w: official %s changed", ErrInvariant, p.Name)
		case q.WeightClass != p.WeightClass || q.Specialization != p.Specialization:
			return fmt.Errorf("%w: official %s changed profile", ErrInvariant, p.Name)
		}
	}
	return nil
}

// CheckRoster verifies that every stat lies inside its tier's range.
func CheckRoster(players []types.Player) error {
	for _, p := range players {
		if !p.Consistent() {
			return fmt.Errorf("%w: %s has stats outside its tiers", ErrInvariant, p.Name)
		}
	}
	return nil
}
