// Package report renders simulation traces for people: a fixed-width table
// compatible with the classic console output, and a Markdown variant for
// terminals that can style it.
package report

import (
	"fmt"
	"io"

	"github.com/aretw0/sirsim/pkg/domain"
)

const columnWidth = 12

// WriteTable writes one right-aligned row per day followed by the peak
// infections line.
func WriteTable(w io.Writer, trace domain.Trace) error {
	if err := WriteRows(w, trace); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", PeakLine(trace))
	return err
}

// WriteRows writes the header and day rows without the summary line.
func WriteRows(w io.Writer, trace domain.Trace) error {
	if _, err := fmt.Fprintf(w, "%*s%*s%*s%*s\n",
		columnWidth, "Day",
		columnWidth, "Susceptible",
		columnWidth, "Infected",
		columnWidth, "Recovered",
	); err != nil {
		return err
	}
	for day, c := range trace {
		if _, err := fmt.Fprintf(w, "%*d%*d%*d%*d\n",
			columnWidth, day,
			columnWidth, c.Susceptible,
			columnWidth, c.Infected,
			columnWidth, c.Recovered,
		); err != nil {
			return err
		}
	}
	return nil
}

// PeakLine formats the summary line.
func PeakLine(trace domain.Trace) string {
	return fmt.Sprintf("Peak Infections: %d", trace.PeakInfections())
}
