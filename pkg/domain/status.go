package domain

import "fmt"

// Status is the health compartment of a single individual.
// Transitions are strictly Susceptible -> Infected -> Recovered.
type Status uint8

const (
	Susceptible Status = iota
	Infected
	Recovered
)

// String returns the single-letter compartment tag ("S", "I" or "R").
func (s Status) String() string {
	switch s {
	case Susceptible:
		return "S"
	case Infected:
		return "I"
	case Recovered:
		return "R"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the three compartments.
func (s Status) Valid() bool {
	return s <= Recovered
}

// MarshalText encodes the status as its compartment tag.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a compartment tag.
func (s *Status) UnmarshalText(text []byte) error {
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseStatus maps a compartment tag back to a Status.
func ParseStatus(tag string) (Status, error) {
	switch tag {
	case "S":
		return Susceptible, nil
	case "I":
		return Infected, nil
	case "R":
		return Recovered, nil
	default:
		return 0, fmt.Errorf("unknown status tag %q", tag)
	}
}
