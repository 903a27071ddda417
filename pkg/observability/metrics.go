package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for sirsim_runs_total.
const (
	OutcomeConverged      = "converged"
	OutcomeDidNotConverge = "did_not_converge"
	OutcomeCancelled      = "cancelled"
	OutcomeFailed         = "failed"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	ActiveRuns     prometheus.Gauge
	DaysSimulated  prometheus.Counter
	Infections     prometheus.Counter
	Recoveries     prometheus.Counter
	RunDays        prometheus.Histogram
	PeakInfections prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sirsim_runs_total",
				Help: "Total number of finished simulation runs by outcome",
			},
			[]string{"outcome"},
		),
		ActiveRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sirsim_active_runs",
			Help: "Number of simulation runs in progress",
		}),
		DaysSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sirsim_days_simulated_total",
			Help: "Total number of day-steps applied",
		}),
		Infections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sirsim_infections_total",
			Help: "Total number of S->I transitions",
		}),
		Recoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sirsim_recoveries_total",
			Help: "Total number of I->R transitions",
		}),
		RunDays: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sirsim_run_days",
			Help:    "Length of finished runs in days",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		PeakInfections: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sirsim_peak_infections",
			Help:    "Peak simultaneous infections per run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.RunsTotal, m.ActiveRuns, m.DaysSimulated, m.Infections, m.Recoveries, m.RunDays, m.PeakInfections,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.ActiveRuns.Inc()
		},
		OnDay: func(ctx context.Context, e *domain.DayEvent) {
			m.DaysSimulated.Inc()
			m.Infections.Add(float64(e.Infections))
			m.Recoveries.Add(float64(e.Recoveries))
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			m.ActiveRuns.Dec()
			m.RunsTotal.WithLabelValues(Outcome(e.Err)).Inc()
			m.RunDays.Observe(float64(e.Days))
			m.PeakInfections.Observe(float64(e.Peak))
		},
	}
}

// Outcome classifies a run error into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeConverged
	case errors.Is(err, domain.ErrDidNotConverge):
		return OutcomeDidNotConverge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
