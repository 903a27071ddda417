package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/sirsim/internal/config"
	"github.com/aretw0/sirsim/internal/ensemble"
	"github.com/aretw0/sirsim/internal/runtime"
)

// EnsembleOptions configures a batch of replicates.
type EnsembleOptions struct {
	Config config.Config
	Format string
	Debug  bool
	Out    io.Writer
}

// EnsembleReport is the printed outcome of an ensemble.
type EnsembleReport struct {
	BaseSeed uint64           `json:"base_seed"`
	Summary  ensemble.Summary `json:"summary"`
}

// RunEnsemble runs the configured replicates and prints their aggregate.
// Without a configured seed a fresh base seed is drawn and reported.
func RunEnsemble(ctx context.Context, opts EnsembleOptions) error {
	logger := createLogger(opts.Config.Logging.Level, opts.Debug)

	seed := opts.Config.Simulation.Seed
	if seed == 0 {
		seed = runtime.RandomSeed()
	}

	res, err := ensemble.Run(ctx, ensemble.Config{
		Params:      opts.Config.Simulation.Params,
		Replicates:  opts.Config.Ensemble.Replicates,
		Concurrency: opts.Config.Ensemble.Concurrency,
		BaseSeed:    seed,
	}, ensemble.WithLogger(logger))
	if err != nil {
		return err
	}

	rep := EnsembleReport{BaseSeed: seed, Summary: res.Summary}
	if opts.Format == FormatJSON {
		return writeJSON(opts.Out, rep)
	}
	return writeEnsembleTable(opts.Out, rep)
}

func writeEnsembleTable(w io.Writer, rep EnsembleReport) error {
	s := rep.Summary
	_, err := fmt.Fprintf(w,
		"%-18s%12d\n%-18s%12.2f\n%-18s%12d\n%-18s%12.2f\n%-18s%12.2f\n%-18s%12d\n%-18s%12d\n",
		"Replicates", s.Replicates,
		"Mean Peak", s.MeanPeak,
		"Max Peak", s.MaxPeak,
		"Mean Days", s.MeanDays,
		"Mean Attack Size", s.MeanAttackSize,
		"Capped", s.Capped,
		"Base Seed", rep.BaseSeed,
	)
	return err
}
