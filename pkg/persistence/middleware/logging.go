package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.RunStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation with its duration.
// Missing runs are logged at debug level; other failures as errors.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(op, id string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if id != "" {
		attrs = append(attrs, "run_id", id)
	}
	switch {
	case err == nil:
		m.logger.Debug("Store Operation", attrs...)
	case errors.Is(err, domain.ErrRunNotFound):
		m.logger.Debug("Store Miss", attrs...)
	default:
		m.logger.Error("Store Operation Failed", append(attrs, "error", err)...)
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, run *domain.Run) error {
	start := time.Now()
	err := m.next.Save(ctx, run)
	m.log("save", run.ID, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (*domain.Run, error) {
	start := time.Now()
	run, err := m.next.Load(ctx, id)
	m.log("load", id, start, err)
	return run, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.log("delete", id, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log("list", "", start, err)
	return ids, err
}
