package domain

import "fmt"

// Population is the mutable per-individual status line of one simulation run.
// Its length is fixed at creation; individuals only move S->I or I->R.
type Population struct {
	statuses []Status
}

// NewPopulation creates a population of size n with individual 0 infected
// and everyone else susceptible. n must be within [1, MaxPopulationSize];
// Params.Validate enforces this for runs.
func NewPopulation(n int) *Population {
	p := &Population{statuses: make([]Status, n)}
	p.statuses[0] = Infected
	return p
}

// PopulationFrom builds a population from an explicit status line.
// The slice is copied. An unknown status is rejected with an error matching
// ErrInvalidArgument.
func PopulationFrom(statuses []Status) (*Population, error) {
	for i, s := range statuses {
		if !s.Valid() {
			return nil, &ValidationError{Field: fmt.Sprintf("statuses[%d]", i), Reason: "unknown status", Value: uint8(s)}
		}
	}
	cp := make([]Status, len(statuses))
	copy(cp, statuses)
	return &Population{statuses: cp}, nil
}

// Clone returns an independent copy of the population.
func (p *Population) Clone() *Population {
	return &Population{statuses: p.Statuses()}
}

// Len returns the number of individuals.
func (p *Population) Len() int {
	return len(p.statuses)
}

// Status returns the status of individual i.
func (p *Population) Status(i int) Status {
	return p.statuses[i]
}

// Infect moves individual i from Susceptible to Infected.
// It reports whether the transition happened.
func (p *Population) Infect(i int) bool {
	if p.statuses[i] != Susceptible {
		return false
	}
	p.statuses[i] = Infected
	return true
}

// Recover moves individual i from Infected to Recovered.
// It reports whether the transition happened.
func (p *Population) Recover(i int) bool {
	if p.statuses[i] != Infected {
		return false
	}
	p.statuses[i] = Recovered
	return true
}

// InfectedIndices returns the ascending indices of every infected individual.
func (p *Population) InfectedIndices() []int {
	var out []int
	for i, s := range p.statuses {
		if s == Infected {
			out = append(out, i)
		}
	}
	return out
}

// Counts snapshots the compartment totals.
func (p *Population) Counts() DayCounts {
	var c DayCounts
	for _, s := range p.statuses {
		switch s {
		case Susceptible:
			c.Susceptible++
		case Infected:
			c.Infected++
		case Recovered:
			c.Recovered++
		}
	}
	return c
}

// Statuses returns a copy of the status line.
func (p *Population) Statuses() []Status {
	cp := make([]Status, len(p.statuses))
	copy(cp, p.statuses)
	return cp
}
