package runtime

import "github.com/aretw0/sirsim/pkg/domain"

// DayDelta counts the transitions applied by one day-step.
type DayDelta struct {
	Recovered int
	Infected  int
}

// Step applies one simulated day to pop: recoveries first, then contacts.
// An individual who recovers during the recovery pass does not spread that day.
func (e *Engine) Step(pop *domain.Population, params domain.Params) DayDelta {
	return DayDelta{
		Recovered: e.ApplyRecoveries(pop, params.RecoverProbability),
		Infected:  e.ApplyContacts(pop, params.ContactRange, params.InfectProbability),
	}
}

// ApplyRecoveries runs one recovery trial for every infected individual and
// returns how many recovered.
func (e *Engine) ApplyRecoveries(pop *domain.Population, recoverProbability float64) int {
	recovered := 0
	for i := 0; i < pop.Len(); i++ {
		if pop.Status(i) != domain.Infected {
			continue
		}
		if e.trial(recoverProbability) && pop.Recover(i) {
			recovered++
		}
	}
	return recovered
}

// ApplyContacts lets every currently infected individual try to infect each
// susceptible neighbour once. Sources are fixed before the pass starts, so
// individuals infected during the pass do not spread until the next day.
func (e *Engine) ApplyContacts(pop *domain.Population, contactRange int, infectProbability float64) int {
	infected := 0
	for _, source := range pop.InfectedIndices() {
		for _, j := range Neighbors(pop.Len(), source, contactRange) {
			if pop.Status(j) != domain.Susceptible {
				continue
			}
			if e.trial(infectProbability) && pop.Infect(j) {
				infected++
			}
		}
	}
	return infected
}
