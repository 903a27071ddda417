package sirsim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/sirsim/internal/logging"
	"github.com/aretw0/sirsim/internal/runtime"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/ports"
	"github.com/google/uuid"
)

// Simulator is the high-level entry point for the library.
// It wraps the internal runtime and is safe for concurrent use: every run
// gets its own engine and random stream.
type Simulator struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	store  ports.RunStore
	seed   *uint64
	source ports.RandomSource
	srcMu  sync.Mutex
}

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithStore persists every finished run.
func WithStore(store ports.RunStore) Option {
	return func(s *Simulator) {
		s.store = store
	}
}

// WithSeed makes every run replay the same random stream.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.seed = &seed
	}
}

// WithRandomSource shares one injected source across all runs.
// Draws are serialized; runs stay independent only in the sense that each
// consumes the next part of the stream.
func WithRandomSource(src ports.RandomSource) Option {
	return func(s *Simulator) {
		s.source = src
	}
}

// New initializes a Simulator.
func New(opts ...Option) *Simulator {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

var _ ports.Simulator = (*Simulator)(nil)

// Run executes one simulation and returns its trace.
func (s *Simulator) Run(ctx context.Context, populationSize, contactRange int, infectProbability, recoverProbability float64) (domain.Trace, error) {
	run, err := s.Simulate(ctx, domain.Params{
		PopulationSize:     populationSize,
		ContactRange:       contactRange,
		InfectProbability:  infectProbability,
		RecoverProbability: recoverProbability,
	})
	if run == nil {
		return nil, err
	}
	return run.Trace, err
}

// Simulate executes one simulation and returns the full run record.
// When a store is configured the run is saved even if it did not converge.
func (s *Simulator) Simulate(ctx context.Context, params domain.Params) (*domain.Run, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	run := &domain.Run{
		ID:        uuid.New().String(),
		Params:    params,
		StartedAt: time.Now().UTC(),
	}

	var src ports.RandomSource
	switch {
	case s.source != nil:
		src = &lockedSource{mu: &s.srcMu, src: s.source}
	case s.seed != nil:
		run.Seed = *s.seed
		src = runtime.NewSource(run.Seed)
	default:
		run.Seed = runtime.RandomSeed()
		src = runtime.NewSource(run.Seed)
	}

	engine := runtime.NewEngine(src,
		runtime.WithLogger(s.logger),
		runtime.WithLifecycleHooks(s.hooks),
	)

	trace, runErr := engine.Run(runtime.WithRunID(ctx, run.ID), params)
	run.Trace = trace
	run.Converged = runErr == nil
	run.FinishedAt = time.Now().UTC()

	if s.store != nil {
		if err := s.store.Save(ctx, run); err != nil {
			return run, fmt.Errorf("failed to save run %s: %w", run.ID, err)
		}
	}

	return run, runErr
}

// Store returns the configured run store, or nil.
func (s *Simulator) Store() ports.RunStore {
	return s.store
}

type lockedSource struct {
	mu  *sync.Mutex
	src ports.RandomSource
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
