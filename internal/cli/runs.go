package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/ports"
)

// ListRuns prints one summary line per saved run.
func ListRuns(ctx context.Context, store ports.RunStore, w io.Writer, format string) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	summaries := make([]domain.Summary, 0, len(ids))
	for _, id := range ids {
		run, err := store.Load(ctx, id)
		if errors.Is(err, domain.ErrRunNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load run %s: %w", id, err)
		}
		summaries = append(summaries, run.Summarize())
	}

	if format == FormatJSON {
		return writeJSON(w, summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No saved runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s %6s %6s %8s %s\n", "ID", "DAYS", "PEAK", "ATTACK", "STATUS")
	for _, s := range summaries {
		status := "converged"
		if !s.Converged {
			status = "stopped"
		}
		fmt.Fprintf(w, "%-36s %6d %6d %8d %s\n", s.ID, s.Days, s.PeakInfections, s.AttackSize, status)
	}
	return nil
}

// ShowRun prints a saved run in the requested format.
func ShowRun(ctx context.Context, store ports.RunStore, id string, w io.Writer, format string) error {
	run, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load run '%s': %w", id, err)
	}
	return writeRun(w, run, format)
}

// DeleteRuns removes every listed run and reports each outcome.
// Missing runs are reported and make the call fail after the others are processed.
func DeleteRuns(ctx context.Context, store ports.RunStore, ids []string, w io.Writer) error {
	var errs []error
	for _, id := range ids {
		if _, err := store.Load(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			errs = append(errs, err)
			continue
		}
		if err := store.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed run '%s'\n", id)
	}
	return errors.Join(errs...)
}
