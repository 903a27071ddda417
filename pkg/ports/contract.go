package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	newRun := func(id string) *domain.Run {
		return &domain.Run{
			ID:     id,
			Params: domain.Params{PopulationSize: 3, ContactRange: 1, InfectProbability: 0.5, RecoverProbability: 0.5},
			Seed:   42,
			Trace: domain.Trace{
				{Susceptible: 2, Infected: 1},
				{Susceptible: 1, Infected: 1, Recovered: 1},
				{Susceptible: 1, Recovered: 2},
			},
			Converged:  true,
			StartedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			FinishedAt: time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		run := newRun(runID)

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, run.Params, loaded.Params)
		assert.Equal(t, run.Seed, loaded.Seed)
		assert.Equal(t, run.Trace, loaded.Trace)
		assert.True(t, loaded.Converged)
		assert.True(t, run.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Loaded Run Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newRun(runID)))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		loaded.Trace[0].Infected = 99

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Trace[0].Infected)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newRun(runID)))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, newRun(id1)))
		require.NoError(t, store.Save(ctx, newRun(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
