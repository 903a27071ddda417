package domain

import "time"

// Run is the persisted record of one completed (or capped) simulation.
type Run struct {
	ID         string    `json:"id"`
	Params     Params    `json:"params"`
	Seed       uint64    `json:"seed,omitempty"`
	Trace      Trace     `json:"trace"`
	Converged  bool      `json:"converged"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Summary is the headline view of a run.
type Summary struct {
	ID             string `json:"id"`
	Days           int    `json:"days"`
	PeakInfections int    `json:"peak_infections"`
	PeakDay        int    `json:"peak_day"`
	AttackSize     int    `json:"attack_size"`
	Converged      bool   `json:"converged"`
}

// Summarize derives the headline figures from the trace.
func (r *Run) Summarize() Summary {
	return Summary{
		ID:             r.ID,
		Days:           r.Trace.Days(),
		PeakInfections: r.Trace.PeakInfections(),
		PeakDay:        r.Trace.PeakDay(),
		AttackSize:     r.Trace.AttackSize(),
		Converged:      r.Converged,
	}
}

// Clone returns a deep copy so stores can hand out records callers may mutate.
func (r *Run) Clone() *Run {
	cp := *r
	if r.Trace != nil {
		cp.Trace = make(Trace, len(r.Trace))
		copy(cp.Trace, r.Trace)
	}
	return &cp
}
