package runtime

import (
	"log/slog"

	"github.com/aretw0/sirsim/internal/logging"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/ports"
)

// Engine applies day-steps to a population and drives whole runs.
// It owns its random stream and is not safe for concurrent use;
// give each goroutine its own Engine.
type Engine struct {
	trial  Trial
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithTrial replaces the random trial entirely (e.g. a scripted decision list in tests).
func WithTrial(trial Trial) EngineOption {
	return func(e *Engine) {
		if trial != nil {
			e.trial = trial
		}
	}
}

// NewEngine creates an engine drawing from src.
// A nil src falls back to a clock-seeded PCG source.
func NewEngine(src ports.RandomSource, opts ...EngineOption) *Engine {
	if src == nil {
		src = NewSource(RandomSeed())
	}
	e := &Engine{
		trial:  NewTrial(src),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
