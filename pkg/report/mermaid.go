package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/sirsim/pkg/domain"
)

// ChartOptions tune the Mermaid chart.
type ChartOptions struct {
	// Title overrides the default "Epidemic curve" heading.
	Title string
	// InfectedOnly drops the susceptible and recovered series.
	InfectedOnly bool
}

// Mermaid renders the trace as a Mermaid xychart with one line per compartment.
// Series are drawn in susceptible, infected, recovered order, so the infected
// curve is the second line unless InfectedOnly is set.
func Mermaid(trace domain.Trace, opts *ChartOptions) string {
	title := "Epidemic curve"
	infectedOnly := false
	if opts != nil {
		if opts.Title != "" {
			title = opts.Title
		}
		infectedOnly = opts.InfectedOnly
	}

	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title \"%s\"\n", strings.ReplaceAll(title, "\"", "'"))
	fmt.Fprintf(&sb, "    x-axis \"day\" 0 --> %d\n", trace.Days())

	top := trace.PeakInfections()
	if !infectedOnly && len(trace) > 0 {
		top = trace[0].Total()
	}
	fmt.Fprintf(&sb, "    y-axis \"people\" 0 --> %d\n", top)

	if !infectedOnly {
		writeSeries(&sb, trace, func(c domain.DayCounts) int { return c.Susceptible })
	}
	writeSeries(&sb, trace, func(c domain.DayCounts) int { return c.Infected })
	if !infectedOnly {
		writeSeries(&sb, trace, func(c domain.DayCounts) int { return c.Recovered })
	}
	return sb.String()
}

func writeSeries(sb *strings.Builder, trace domain.Trace, pick func(domain.DayCounts) int) {
	values := make([]string, len(trace))
	for i, c := range trace {
		values[i] = strconv.Itoa(pick(c))
	}
	fmt.Fprintf(sb, "    line [%s]\n", strings.Join(values, ", "))
}
