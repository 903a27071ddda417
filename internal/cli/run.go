package cli

import (
	"context"
	"errors"
	"io"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/internal/config"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/observability"
)

// RunOptions configures a single simulation from the command line.
type RunOptions struct {
	Config config.Config
	// Save persists the run to the configured store.
	Save   bool
	Format string
	Debug  bool
	Out    io.Writer
}

// RunSimulation executes one run and writes it to opts.Out.
// A run stopped by max_days is still printed before its error is returned.
func RunSimulation(ctx context.Context, opts RunOptions) error {
	logger := createLogger(opts.Config.Logging.Level, opts.Debug)

	simOpts := []sirsim.Option{sirsim.WithLogger(logger)}
	if opts.Debug {
		simOpts = append(simOpts, sirsim.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	if seed := opts.Config.Simulation.Seed; seed != 0 {
		simOpts = append(simOpts, sirsim.WithSeed(seed))
	}
	if opts.Save {
		store, closeStore, err := OpenStore(opts.Config.Store)
		if err != nil {
			return err
		}
		defer closeStore()
		simOpts = append(simOpts, sirsim.WithStore(store))
	}

	sim := sirsim.New(simOpts...)
	run, runErr := sim.Simulate(ctx, opts.Config.Simulation.Params)
	if run == nil {
		return runErr
	}

	if err := writeRun(opts.Out, run, opts.Format); err != nil {
		return err
	}
	// Capped runs are saved too; any other error means the save never happened.
	saved := runErr == nil || errors.Is(runErr, domain.ErrDidNotConverge)
	if opts.Save && saved && opts.Format != FormatJSON {
		printSystemMessage(opts.Out, "Saved run %s (seed %d)", run.ID, run.Seed)
	}
	return runErr
}
