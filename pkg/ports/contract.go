package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// RunStoreContract runs a suite of tests to verify that a RunStore
// implementation adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	sample := func(id string) *domain.RunSummary {
		return &domain.RunSummary{
			ID:        id,
			Scenario:  "85_continuous_50",
			Trials:    1000,
			Seed:      42,
			Workers:   4,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
			Rows: domain.Summary{
				{Month: 0, MeanSOC: 41.3, StdSOC: 0, MeanDelta: 0, StdDelta: 0, Samples: 1000},
				{Month: 1, MeanSOC: 40.9, StdSOC: 0.6, MeanDelta: 0.4, StdDelta: 0.6, Samples: 1000},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		run := sample(runID)
		require.NoError(t, store.Save(ctx, run), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, run.Scenario, loaded.Scenario)
		assert.Equal(t, run.Trials, loaded.Trials)
		assert.Equal(t, run.Seed, loaded.Seed)
		assert.Equal(t, run.Rows, loaded.Rows)
		assert.WithinDuration(t, run.CreatedAt, loaded.CreatedAt, time.Second)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		run := sample(runID)
		run.Trials = 500
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 500, loaded.Trials)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(runID)))

		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Deleting an absent run should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, sample(id1)))
		require.NoError(t, store.Save(ctx, sample(id2)))

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
