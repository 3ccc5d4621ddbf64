// Package rng supplies the randomness used by dice rolls, scoring noise,
// weighted selection, and event-pool draws. Every stochastic path in the
// engine takes a Source so a test harness can force determinism; nothing
// reads a global generator.
package rng

import (
	"math/rand"
	"sync"
)

// Source produces the two primitives the engine needs.
type Source interface {
	// Intn returns a uniform int in [0, n). n must be > 0.
	Intn(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
}

// locked wraps math/rand with a mutex so one Source can be shared across
// agents ticked in parallel.
type locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a seeded Source safe for concurrent use.
func New(seed int64) Source {
	return &locked{r: rand.New(rand.NewSource(seed))}
}

func (l *locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Sequence is a deterministic Source for tests. Intn cycles through Ints
// (mod n) and Float64 cycles through Floats; both repeat when exhausted
// and fall back to midpoint values when empty.
type Sequence struct {
	Ints   []int
	Floats []float64
	i, f   int
}

func (s *Sequence) Intn(n int) int {
	if len(s.Ints) == 0 {
		return n / 2
	}
	v := s.Ints[s.i%len(s.Ints)]
	s.i++
	if v < 0 {
		v = -v
	}
	return v % n
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.5
	}
	v := s.Floats[s.f%len(s.Floats)]
	s.f++
	return v
}
