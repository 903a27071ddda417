package domain

// DayCounts is the aggregate compartment snapshot for one simulated day.
type DayCounts struct {
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Recovered   int `json:"recovered"`
}

// Total returns the population size the snapshot accounts for.
func (c DayCounts) Total() int {
	return c.Susceptible + c.Infected + c.Recovered
}

// Trace is the ordered history of day counts of one run.
// Entry 0 is the initial state; the last entry is the first day with no infections.
type Trace []DayCounts

// PeakInfections returns the highest infected count observed, or 0 for an empty trace.
func (t Trace) PeakInfections() int {
	peak := 0
	for _, c := range t {
		if c.Infected > peak {
			peak = c.Infected
		}
	}
	return peak
}

// PeakDay returns the first day on which PeakInfections was reached.
func (t Trace) PeakDay() int {
	peak, day := 0, 0
	for i, c := range t {
		if c.Infected > peak {
			peak, day = c.Infected, i
		}
	}
	return day
}

// Days returns the number of simulated day-steps (entries after day 0).
func (t Trace) Days() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

// Final returns the last recorded counts.
func (t Trace) Final() DayCounts {
	if len(t) == 0 {
		return DayCounts{}
	}
	return t[len(t)-1]
}

// AttackSize is the number of individuals that were ever infected and recovered
// by the end of the trace.
func (t Trace) AttackSize() int {
	return t.Final().Recovered
}
