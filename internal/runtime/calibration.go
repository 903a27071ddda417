package runtime

import "github.com/aretw0/sirsim/pkg/domain"

// TrialRate runs n independent trials at probability p and tallies the outcomes.
func (e *Engine) TrialRate(p float64, n int) (successes, failures int) {
	for range n {
		if e.trial(p) {
			successes++
		} else {
			failures++
		}
	}
	return successes, failures
}

// MeanRecoveries applies a single recovery pass to a fully infected population
// of the given size, n times, and returns the mean number recovered per pass.
// The expectation is size * p.
func (e *Engine) MeanRecoveries(size int, p float64, n int) float64 {
	if n <= 0 || size <= 0 {
		return 0
	}
	statuses := make([]domain.Status, size)
	for i := range statuses {
		statuses[i] = domain.Infected
	}
	base, err := domain.PopulationFrom(statuses)
	if err != nil {
		return 0
	}

	total := 0
	for range n {
		total += e.ApplyRecoveries(base.Clone(), p)
	}
	return float64(total) / float64(n)
}
