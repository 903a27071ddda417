package runtime

import (
	"math/rand/v2"
	"time"

	"github.com/aretw0/sirsim/pkg/ports"
)

// Trial is one probabilistic yes/no decision. It draws a single uniform
// sample r in [0, 1) and succeeds when r < probability.
// Probabilities outside [0, 1] are the caller's responsibility.
type Trial func(probability float64) bool

// NewTrial binds a trial to a random source. Each call consumes exactly one draw.
func NewTrial(src ports.RandomSource) Trial {
	return func(probability float64) bool {
		return src.Float64() < probability
	}
}

// NewSource returns a PCG-backed source seeded with seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomSeed derives a seed from the wall clock.
func RandomSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
