package ports

// RandomSource supplies uniform samples in [0, 1).
// *math/rand.Rand and *math/rand/v2.Rand both satisfy it.
type RandomSource interface {
	Float64() float64
}
