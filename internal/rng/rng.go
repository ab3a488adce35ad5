package rng

import (
	"math/rand/v2"
	"sync"
)

// Source yields floats in [0, 1).
type Source interface {
	Next() float64
}

// Default returns a process-wide unseeded source.
func Default() Source {
	return defaultSource{}
}

type defaultSource struct{}

func (defaultSource) Next() float64 {
	return rand.Float64()
}

// Sequence replays a fixed list of values, wrapping around at the end.
// It is meant for tests that need reproducible picks.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence creates a Sequence. An empty sequence always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Pick returns an index in [0, n) drawn from src, or -1 when n is 0.
func Pick(src Source, n int) int {
	if n <= 0 {
		return -1
	}
	i := int(src.Next() * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
