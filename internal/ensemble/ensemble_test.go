package ensemble_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aretw0/sirsim/internal/ensemble"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRun_Reproducible(t *testing.T) {
	cfg := ensemble.Config{
		Params:      domain.Params{PopulationSize: 50, ContactRange: 2, InfectProbability: 0.3, RecoverProbability: 0.2},
		Replicates:  16,
		Concurrency: 4,
		BaseSeed:    1234,
	}

	first, err := ensemble.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := ensemble.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Traces, second.Traces)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, 16, first.Summary.Replicates)

	for i, trace := range first.Traces {
		require.NotEmpty(t, trace, "replicate %d", i)
		assert.Equal(t, 0, trace.Final().Infected, "replicate %d", i)
		for _, c := range trace {
			assert.Equal(t, 50, c.Total())
		}
	}
}

func TestRun_ConcurrencyDoesNotChangeResults(t *testing.T) {
	params := domain.Params{PopulationSize: 30, ContactRange: 1, InfectProbability: 0.5, RecoverProbability: 0.3}

	serial, err := ensemble.Run(context.Background(), ensemble.Config{Params: params, Replicates: 8, Concurrency: 1, BaseSeed: 9})
	require.NoError(t, err)
	parallel, err := ensemble.Run(context.Background(), ensemble.Config{Params: params, Replicates: 8, Concurrency: 8, BaseSeed: 9})
	require.NoError(t, err)

	assert.Equal(t, serial.Traces, parallel.Traces)
}

func TestRun_Deterministic(t *testing.T) {
	// Nobody gets infected and the index case recovers on day 1.
	res, err := ensemble.Run(context.Background(), ensemble.Config{
		Params:     domain.Params{PopulationSize: 5, ContactRange: 2, InfectProbability: 0, RecoverProbability: 1},
		Replicates: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, ensemble.Summary{
		Replicates:     3,
		MeanPeak:       1,
		MaxPeak:        1,
		MeanDays:       1,
		MeanAttackSize: 1,
	}, res.Summary)
}

func TestRun_CappedReplicatesAreCounted(t *testing.T) {
	res, err := ensemble.Run(context.Background(), ensemble.Config{
		Params:     domain.Params{PopulationSize: 5, ContactRange: 1, InfectProbability: 0, RecoverProbability: 0, MaxDays: 3},
		Replicates: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Summary.Capped)
	assert.Equal(t, float64(3), res.Summary.MeanDays)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := ensemble.Run(context.Background(), ensemble.Config{Params: domain.Params{}, Replicates: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = ensemble.Run(context.Background(), ensemble.Config{Params: domain.DefaultParams(), Replicates: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ensemble.Run(ctx, ensemble.Config{Params: domain.DefaultParams(), Replicates: 10, Concurrency: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_HooksSeeEveryReplicate(t *testing.T) {
	var ends atomic.Int32
	hooks := domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, _ *domain.RunEvent) { ends.Add(1) },
	}

	_, err := ensemble.Run(context.Background(), ensemble.Config{
		Params:      domain.Params{PopulationSize: 10, ContactRange: 1, InfectProbability: 0.2, RecoverProbability: 0.5},
		Replicates:  6,
		Concurrency: 3,
	}, ensemble.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	assert.Equal(t, int32(6), ends.Load())
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, ensemble.Summary{}, ensemble.Summarize(nil))
}
