package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// Markdown renders the trace as a Markdown document with a summary list and a table.
func Markdown(run *domain.Run) string {
	var b strings.Builder
	s := run.Summarize()

	b.WriteString("# SIR Simulation\n\n")
	fmt.Fprintf(&b, "- **Population:** %d\n", run.Params.PopulationSize)
	fmt.Fprintf(&b, "- **Contact range:** %d\n", run.Params.ContactRange)
	fmt.Fprintf(&b, "- **Infect / recover probability:** %g / %g\n", run.Params.InfectProbability, run.Params.RecoverProbability)
	fmt.Fprintf(&b, "- **Days:** %d\n", s.Days)
	fmt.Fprintf(&b, "- **Peak infections:** %d (day %d)\n", s.PeakInfections, s.PeakDay)
	fmt.Fprintf(&b, "- **Attack size:** %d\n", s.AttackSize)
	if !s.Converged {
		b.WriteString("- **Note:** stopped before the outbreak burned out\n")
	}

	b.WriteString("\n| Day | Susceptible | Infected | Recovered |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	for day, c := range run.Trace {
		fmt.Fprintf(&b, "| %d | %d | %d | %d |\n", day, c.Susceptible, c.Infected, c.Recovered)
	}
	return b.String()
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// RenderMarkdown renders the run for an ANSI terminal.
func RenderMarkdown(run *domain.Run) (string, error) {
	render, err := NewRenderer()
	if err != nil {
		return "", err
	}
	return render(Markdown(run))
}
