package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sirsim/pkg/domain"
)

type runIDKey struct{}

// WithRunID attaches a correlation ID that is stamped on emitted events and logs.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func runIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// Run simulates an outbreak seeded at individual 0 until nobody is infected.
//
// The returned trace starts with the initial counts and ends with the first
// day on which the infected count is zero. If params.MaxDays is set and
// infections remain after that many day-steps, the partial trace is returned
// with an error matching domain.ErrDidNotConverge. Cancelling ctx stops the
// loop between day-steps and returns ctx.Err() with the partial trace.
func (e *Engine) Run(ctx context.Context, params domain.Params) (domain.Trace, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	runID := runIDFrom(ctx)
	logger := e.logger
	if runID != "" {
		logger = logger.With("run_id", runID)
	}

	pop := domain.NewPopulation(params.PopulationSize)
	counts := pop.Counts()
	trace := domain.Trace{counts}

	logger.Info("Run Started",
		"population", params.PopulationSize,
		"contact_range", params.ContactRange,
		"infect_probability", params.InfectProbability,
		"recover_probability", params.RecoverProbability,
	)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunStart, RunID: runID},
			Params:    params,
		})
	}

	var runErr error
	for day := 1; counts.Infected > 0; day++ {
		if params.MaxDays > 0 && day > params.MaxDays {
			runErr = fmt.Errorf("%w: %d still infected after %d days", domain.ErrDidNotConverge, counts.Infected, params.MaxDays)
			break
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		delta := e.Step(pop, params)
		counts = pop.Counts()
		trace = append(trace, counts)

		logger.Debug("Day Simulated", "day", day,
			"susceptible", counts.Susceptible, "infected", counts.Infected, "recovered", counts.Recovered)
		if e.hooks.OnDay != nil {
			e.hooks.OnDay(ctx, &domain.DayEvent{
				EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventDay, RunID: runID},
				Day:        day,
				Counts:     counts,
				Recoveries: delta.Recovered,
				Infections: delta.Infected,
			})
		}
	}

	if runErr != nil {
		logger.Warn("Run Stopped", "days", trace.Days(), "infected", counts.Infected, "error", runErr)
	} else {
		logger.Info("Run Finished", "days", trace.Days(), "peak", trace.PeakInfections(), "recovered", counts.Recovered)
	}
	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunEnd, RunID: runID},
			Params:    params,
			Days:      trace.Days(),
			Peak:      trace.PeakInfections(),
			Converged: runErr == nil,
			Err:       runErr,
		})
	}

	return trace, runErr
}
