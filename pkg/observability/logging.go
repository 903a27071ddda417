package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/sirsim/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "run_id", e.RunID, "population", e.Params.PopulationSize)
		},
		OnDay: func(ctx context.Context, e *domain.DayEvent) {
			logger.Debug("Day", "run_id", e.RunID, "day", e.Day,
				"infections", e.Infections, "recoveries", e.Recoveries, "infected", e.Counts.Infected)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.Debug("Run End (Error)", "run_id", e.RunID, "days", e.Days, "err", e.Err)
				return
			}
			logger.Debug("Run End", "run_id", e.RunID, "days", e.Days, "peak", e.Peak)
		},
	}
}
