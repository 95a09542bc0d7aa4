// Package random provides the injectable randomness used by every
// simulation step (stat rolls, outcome noise, sport sampling, fallbacks).
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source is the randomness contract consumed by the engines. *rand.Rand
// from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// IntN returns a value in [0,n). It panics if n <= 0.
	IntN(n int) int
	// Uint64 returns a uniformly distributed 64-bit value.
	Uint64() uint64
	// Shuffle pseudo-randomizes the order of n elements.
	Shuffle(n int, swap func(i, j int))
}

// New returns a deterministic source for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // simulation randomness, not crypto
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Child derives an independent deterministic source from parent.
func Child(parent Source) *rand.Rand {
	return New(parent.Uint64())
}

// Uniform returns a value in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// IntBetween returns a value in the inclusive range [lo, hi].
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Locked wraps a Source for concurrent use.
type Locked struct {
	mu  sync.Mutex
	src Source
}

// NewLocked wraps src behind a mutex.
func NewLocked(src Source) *Locked {
	return &Locked{src: src}
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint64()
}

func (l *Locked) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.Shuffle(n, swap)
}

// Constant is a Source that always draws the same fraction. A value of 0.5
// makes every symmetric noise draw exactly zero; IntN picks floor(v*n) and
// Shuffle keeps the original order.
type Constant float64

func (c Constant) Float64() float64 { return float64(c) }

func (c Constant) IntN(n int) int {
	if n <= 0 {
		panic("random: invalid argument to IntN")
	}
	i := int(float64(c) * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (c Constant) Uint64() uint64 { return uint64(float64(c) * (1 << 63)) }

func (Constant) Shuffle(int, func(i, j int)) {}

// Sequence replays a fixed list of Float64 draws, cycling when exhausted.
// IntN derives from the next draw the same way Constant does.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence returns a Sequence over values. It panics if values is empty.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("random: empty sequence")
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *Sequence) IntN(n int) int { return Constant(s.Float64()).IntN(n) }

func (s *Sequence) Uint64() uint64 { return Constant(s.Float64()).Uint64() }

func (*Sequence) Shuffle(int, func(i, j int)) {}

// Draws reports how many values have been consumed.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
