package domain

import "fmt"

// Params are the inputs of one simulation run.
type Params struct {
	// PopulationSize is the number of individuals on the index line (N >= 1).
	PopulationSize int `json:"population_size" yaml:"population_size" mapstructure:"population_size"`

	// ContactRange is how many neighbours on each side an infected individual reaches.
	ContactRange int `json:"contact_range" yaml:"contact_range" mapstructure:"contact_range"`

	// InfectProbability is the chance a single contact infects a susceptible neighbour.
	InfectProbability float64 `json:"infect_probability" yaml:"infect_probability" mapstructure:"infect_probability"`

	// RecoverProbability is the daily chance an infected individual recovers.
	RecoverProbability float64 `json:"recover_probability" yaml:"recover_probability" mapstructure:"recover_probability"`

	// MaxDays caps the number of day-steps. Zero means no cap.
	MaxDays int `json:"max_days,omitempty" yaml:"max_days,omitempty" mapstructure:"max_days"`
}

// MaxPopulationSize bounds PopulationSize so a run's status line stays
// allocatable.
const MaxPopulationSize = 10_000_000

// DefaultParams returns the parameters of the stock command-line run.
func DefaultParams() Params {
	return Params{
		PopulationSize:     100,
		ContactRange:       2,
		InfectProbability:  0.2,
		RecoverProbability: 0.05,
	}
}

// Validate checks every parameter and reports all failures at once.
// Each failure matches ErrInvalidArgument.
func (p Params) Validate() error {
	var errs []error
	switch {
	case p.PopulationSize < 1:
		errs = append(errs, &ValidationError{Field: "population_size", Reason: "must be at least 1", Value: p.PopulationSize})
	case p.PopulationSize > MaxPopulationSize:
		errs = append(errs, &ValidationError{Field: "population_size", Reason: fmt.Sprintf("must be at most %d", MaxPopulationSize), Value: p.PopulationSize})
	}
	if p.ContactRange < 0 {
		errs = append(errs, &ValidationError{Field: "contact_range", Reason: "must not be negative", Value: p.ContactRange})
	}
	if !isProbability(p.InfectProbability) {
		errs = append(errs, &ValidationError{Field: "infect_probability", Reason: "must be within [0, 1]", Value: p.InfectProbability})
	}
	if !isProbability(p.RecoverProbability) {
		errs = append(errs, &ValidationError{Field: "recover_probability", Reason: "must be within [0, 1]", Value: p.RecoverProbability})
	}
	if p.MaxDays < 0 {
		errs = append(errs, &ValidationError{Field: "max_days", Reason: "must not be negative", Value: p.MaxDays})
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// NaN fails both comparisons.
func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}
