package report

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// WriteStyledTable is WriteTable with a coloured peak line for the given profile.
// termenv.Ascii disables styling.
func WriteStyledTable(w io.Writer, trace domain.Trace, profile termenv.Profile) error {
	if err := WriteRows(w, trace); err != nil {
		return err
	}
	peak := profile.String(PeakLine(trace)).Foreground(profile.Color("#f472b6")).Bold()
	_, err := fmt.Fprintf(w, "\n%s\n", peak)
	return err
}

// PrintBanner outputs the tool name and version on stdout.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	title := termenv.String(" sirsim ").Foreground(p.Color("#818cf8")).Bold()
	sub := termenv.String("S -> I -> R on a line").Foreground(p.Color("#c084fc"))
	fmt.Println()
	fmt.Printf("%s %s  %s\n", title, version, sub)
	fmt.Println()
}
