package sirsim_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/internal/testutils"
	"github.com/aretw0/sirsim/pkg/adapters/memory"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Run_Properties(t *testing.T) {
	sim := sirsim.New()

	trace, err := sim.Run(context.Background(), 100, 2, 0.2, 0.05)
	require.NoError(t, err)
	require.NotEmpty(t, trace)

	assert.Equal(t, domain.DayCounts{Susceptible: 99, Infected: 1}, trace[0])
	assert.Equal(t, 0, trace.Final().Infected)
	for i, c := range trace {
		assert.Equal(t, 100, c.Total(), "day %d", i)
		if i > 0 {
			assert.LessOrEqual(t, c.Susceptible, trace[i-1].Susceptible, "day %d", i)
			assert.GreaterOrEqual(t, c.Recovered, trace[i-1].Recovered, "day %d", i)
		}
		if i < len(trace)-1 {
			assert.Positive(t, c.Infected, "day %d", i)
		}
	}
}

func TestSimulator_Run_SinglePerson(t *testing.T) {
	// One draw per day decides the lone recovery.
	src := testutils.NewSequenceSource(0.9, 0.9, 0.01)
	sim := sirsim.New(sirsim.WithRandomSource(src))

	trace, err := sim.Run(context.Background(), 1, 0, 0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, domain.Trace{
		{Infected: 1},
		{Infected: 1},
		{Infected: 1},
		{Recovered: 1},
	}, trace)
	assert.Equal(t, 3, src.Draws)
}

func TestSimulator_Run_InvalidArguments(t *testing.T) {
	sim := sirsim.New()
	ctx := context.Background()

	tests := []struct {
		name                string
		size, contact       int
		infect, recoverProb float64
	}{
		{"empty population", 0, 1, 0.5, 0.5},
		{"negative range", 10, -1, 0.5, 0.5},
		{"infect above one", 10, 1, 1.1, 0.5},
		{"negative recover", 10, 1, 0.5, -0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, err := sim.Run(ctx, tt.size, tt.contact, tt.infect, tt.recoverProb)
			assert.Nil(t, trace)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestSimulator_Simulate_SeedReplays(t *testing.T) {
	ctx := context.Background()
	params := domain.Params{PopulationSize: 200, ContactRange: 3, InfectProbability: 0.15, RecoverProbability: 0.1}

	a, err := sirsim.New(sirsim.WithSeed(2024)).Simulate(ctx, params)
	require.NoError(t, err)
	b, err := sirsim.New(sirsim.WithSeed(2024)).Simulate(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, a.Trace, b.Trace)
	assert.Equal(t, uint64(2024), a.Seed)
	assert.NotEqual(t, a.ID, b.ID)

	// A recorded random seed replays the run too.
	c, err := sirsim.New().Simulate(ctx, params)
	require.NoError(t, err)
	d, err := sirsim.New(sirsim.WithSeed(c.Seed)).Simulate(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, c.Trace, d.Trace)
}

func TestSimulator_Simulate_Store(t *testing.T) {
	store := memory.NewStore()
	sim := sirsim.New(sirsim.WithSeed(1), sirsim.WithStore(store))
	ctx := context.Background()

	run, err := sim.Simulate(ctx, domain.Params{PopulationSize: 3, RecoverProbability: 1})
	require.NoError(t, err)
	assert.True(t, run.Converged)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	loaded, err := store.Load(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Trace, loaded.Trace)
	assert.Same(t, store, sim.Store())
}

func TestSimulator_Simulate_CappedIsSaved(t *testing.T) {
	store := memory.NewStore()
	sim := sirsim.New(sirsim.WithSeed(1), sirsim.WithStore(store))
	ctx := context.Background()

	run, err := sim.Simulate(ctx, domain.Params{PopulationSize: 2, RecoverProbability: 0, MaxDays: 5})
	assert.ErrorIs(t, err, domain.ErrDidNotConverge)
	require.NotNil(t, run)
	assert.False(t, run.Converged)
	assert.Len(t, run.Trace, 6)

	loaded, err := store.Load(ctx, run.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Converged)
}

type failingStore struct{ memory.Store }

func (f *failingStore) Save(context.Context, *domain.Run) error { return errors.New("disk full") }

func TestSimulator_Simulate_SaveError(t *testing.T) {
	sim := sirsim.New(sirsim.WithStore(&failingStore{}))

	run, err := sim.Simulate(context.Background(), domain.Params{PopulationSize: 1, RecoverProbability: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, run)
	assert.True(t, run.Converged)
}

func TestSimulator_Simulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := sirsim.New().Simulate(ctx, domain.DefaultParams())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, run)
	assert.Len(t, run.Trace, 1)
}

func TestSimulator_ConcurrentRuns(t *testing.T) {
	sim := sirsim.New(sirsim.WithSeed(5))
	params := domain.Params{PopulationSize: 50, ContactRange: 2, InfectProbability: 0.3, RecoverProbability: 0.2}

	want, err := sim.Simulate(context.Background(), params)
	require.NoError(t, err)

	var wg sync.WaitGroup
	traces := make([]domain.Trace, 8)
	for i := range traces {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run, err := sim.Simulate(context.Background(), params)
			if err == nil {
				traces[i] = run.Trace
			}
		}()
	}
	wg.Wait()

	for i, trace := range traces {
		assert.Equal(t, want.Trace, trace, "run %d", i)
	}
}

func TestSimulator_Hooks(t *testing.T) {
	var mu sync.Mutex
	var events []domain.EventType
	record := func(e domain.EventType) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}

	sim := sirsim.New(sirsim.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) { record(e.Type) },
		OnDay:      func(_ context.Context, e *domain.DayEvent) { record(e.Type) },
		OnRunEnd:   func(_ context.Context, e *domain.RunEvent) { record(e.Type) },
	}))

	run, err := sim.Simulate(context.Background(), domain.Params{PopulationSize: 2, RecoverProbability: 1})
	require.NoError(t, err)
	require.Len(t, run.Trace, 2)

	assert.Equal(t, []domain.EventType{domain.EventRunStart, domain.EventDay, domain.EventRunEnd}, events)
}
