// Package ensemble runs many independent replicates of the same outbreak
// and aggregates their headline figures.
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/sirsim/internal/logging"
	"github.com/aretw0/sirsim/internal/runtime"
	"github.com/aretw0/sirsim/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Config describes an ensemble.
type Config struct {
	Params      domain.Params
	Replicates  int
	Concurrency int
	// BaseSeed seeds replicate i with BaseSeed+i, so an ensemble is reproducible.
	BaseSeed uint64
}

// Result holds the traces in replicate order plus their aggregate.
type Result struct {
	Traces  []domain.Trace `json:"-"`
	Summary Summary        `json:"summary"`
}

// Summary aggregates replicate outcomes.
type Summary struct {
	Replicates     int     `json:"replicates"`
	MeanPeak       float64 `json:"mean_peak"`
	MaxPeak        int     `json:"max_peak"`
	MeanDays       float64 `json:"mean_days"`
	MeanAttackSize float64 `json:"mean_attack_size"`
	// Capped counts replicates stopped by MaxDays before the outbreak ended.
	Capped int `json:"capped"`
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// WithLogger sets the logger passed to every replicate engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers hooks on every replicate engine.
// Hooks are invoked concurrently and must be safe for that.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// Run executes cfg.Replicates simulations with at most cfg.Concurrency in flight.
// Each replicate owns its engine and random stream. Replicates capped by
// MaxDays are kept and counted; any other failure aborts the ensemble.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if cfg.Replicates < 1 {
		return nil, &domain.ValidationError{Field: "replicates", Reason: "must be at least 1", Value: cfg.Replicates}
	}

	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	traces := make([]domain.Trace, cfg.Replicates)
	capped := make([]bool, cfg.Replicates)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range cfg.Replicates {
		g.Go(func() error {
			engine := runtime.NewEngine(
				runtime.NewSource(cfg.BaseSeed+uint64(i)),
				runtime.WithLogger(o.logger.With("replicate", i)),
				runtime.WithLifecycleHooks(o.hooks),
			)
			trace, err := engine.Run(gctx, cfg.Params)
			if errors.Is(err, domain.ErrDidNotConverge) {
				capped[i] = true
				err = nil
			}
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			traces[i] = trace
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := Summarize(traces)
	for _, c := range capped {
		if c {
			sum.Capped++
		}
	}

	o.logger.Info("Ensemble Finished",
		"replicates", sum.Replicates,
		"mean_peak", sum.MeanPeak,
		"max_peak", sum.MaxPeak,
		"capped", sum.Capped,
	)

	return &Result{Traces: traces, Summary: sum}, nil
}

// Summarize aggregates a set of traces.
func Summarize(traces []domain.Trace) Summary {
	sum := Summary{Replicates: len(traces)}
	if len(traces) == 0 {
		return sum
	}

	var peaks, days, attack int
	for _, t := range traces {
		p := t.PeakInfections()
		peaks += p
		if p > sum.MaxPeak {
			sum.MaxPeak = p
		}
		days += t.Days()
		attack += t.AttackSize()
	}

	n := float64(len(traces))
	sum.MeanPeak = float64(peaks) / n
	sum.MeanDays = float64(days) / n
	sum.MeanAttackSize = float64(attack) / n
	return sum
}
