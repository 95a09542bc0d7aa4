package simload

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
)

// PlayerSpec is one community player to register.
type PlayerSpec struct {
	Name        string
	Tiers       model.TierVector
	WeightClass model.WeightClass
}

// Contest is one generated multisport pairing.
type Contest struct {
	Side1 []string
	Side2 []string
	Async bool
	Key   string
}

// creationTiers are the tiers a community player may be registered with.
var creationTiers = []model.Tier{model.TierD, model.TierB} //nolint:gochecknoglobals // fixed table

// Generator draws players and pairings from a seeded source. It is not safe
// for concurrent use; runs generate everything before fanning out.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator. A zero seed draws one from the OS.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		if s, err := random.NewSeed(); err == nil {
			seed = s
		}
	}
	return &Generator{rng: random.New(seed)}
}

// Players returns n uniquely named players with random creation tiers.
func (g *Generator) Players(n int, classes []model.WeightClass) []PlayerSpec {
	out := make([]PlayerSpec, n)
	for i := range out {
		var tiers model.TierVector
		for _, s := range model.Stats {
			tiers[s] = creationTiers[g.rng.IntN(len(creationTiers))]
		}
		spec := PlayerSpec{Name: newName(), Tiers: tiers}
		if len(classes) > 0 {
			spec.WeightClass = classes[g.rng.IntN(len(classes))]
		}
		out[i] = spec
	}
	return out
}

// Contests pairs disjoint random sides of size k drawn from pool. A share
// of jobRatio is marked for asynchronous submission under a fresh key.
func (g *Generator) Contests(n, k int, pool []string, jobRatio float64) []Contest {
	if k < 1 {
		k = 1
	}
	if 2*k > len(pool) {
		k = len(pool) / 2
	}
	out := make([]Contest, 0, n)
	if k == 0 {
		return out
	}
	names := append([]string(nil), pool...)
	for range n {
		g.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
		c := Contest{
			Side1: append([]string(nil), names[:k]...),
			Side2: append([]string(nil), names[k:2*k]...),
		}
		if g.rng.Float64() < jobRatio {
			c.Async = true
			c.Key = uuid.NewString()
		}
		out = append(out, c)
	}
	return out
}

func newName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return namePrefix + id[:nameIDChars]
}
