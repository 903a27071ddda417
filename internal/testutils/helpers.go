package testutils

import (
	"sync"
	"testing"
)

// SequenceSource replays a fixed list of draws, cycling when exhausted.
// It satisfies ports.RandomSource.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
	Draws  int
}

// NewSequenceSource creates a source that returns values in order.
func NewSequenceSource(values ...float64) *SequenceSource {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &SequenceSource{values: values}
}

// Float64 returns the next scripted draw.
func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	s.Draws++
	return v
}

// ConstantSource always returns the same draw.
type ConstantSource float64

// Float64 returns the constant.
func (c ConstantSource) Float64() float64 {
	return float64(c)
}

// StrictSequence is like NewSequenceSource but fails the test if more draws are
// consumed than scripted.
func StrictSequence(t *testing.T, values ...float64) *StrictSource {
	t.Helper()
	return &StrictSource{t: t, values: values}
}

// StrictSource fails the owning test on over-consumption.
type StrictSource struct {
	t      *testing.T
	values []float64
	next   int
}

// Float64 returns the next scripted draw.
func (s *StrictSource) Float64() float64 {
	if s.next >= len(s.values) {
		s.t.Fatalf("random source exhausted after %d draws", len(s.values))
		return 0
	}
	v := s.values[s.next]
	s.next++
	return v
}

// Remaining reports how many scripted draws were not consumed.
func (s *StrictSource) Remaining() int {
	return len(s.values) - s.next
}
