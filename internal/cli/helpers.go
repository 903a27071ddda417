package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/sirsim/internal/logging"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/report"
	"github.com/muesli/termenv"
)

// Output formats shared by the commands.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatPretty   = "pretty"
	FormatMermaid  = "mermaid"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	once   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it remembers which signal arrived.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
			// Context cancelled elsewhere
		}
		sc.once.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on Stderr.
// Debug overrides the configured level.
func createLogger(level string, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable colours the peak line when w is a terminal.
func writeTable(w io.Writer, trace domain.Trace) error {
	if f, ok := w.(*os.File); ok && report.IsTerminal(f) {
		return report.WriteStyledTable(w, trace, termenv.EnvColorProfile())
	}
	return report.WriteTable(w, trace)
}

func writeRun(w io.Writer, run *domain.Run, format string) error {
	switch format {
	case "", FormatTable:
		return writeTable(w, run.Trace)
	case FormatJSON:
		return writeJSON(w, struct {
			Run     *domain.Run    `json:"run"`
			Summary domain.Summary `json:"summary"`
		}{run, run.Summarize()})
	case FormatMarkdown:
		_, err := io.WriteString(w, report.Markdown(run))
		return err
	case FormatMermaid:
		_, err := io.WriteString(w, report.Mermaid(run.Trace, nil))
		return err
	case FormatPretty:
		out, err := report.RenderMarkdown(run)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return &domain.ValidationError{Field: "format", Reason: "unknown output format", Value: format}
	}
}
