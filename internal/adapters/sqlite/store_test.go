package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/q-beau/NBS-TP/internal/adapters/sqlite"
	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/ports"
)

// Ensure Store implements RunStore
var _ ports.RunStore = (*sqlite.Store)(nil)

func newTestStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "runs.db"))
	ports.RunStoreContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	run := &domain.RunSummary{
		ID:        "persist-me",
		Scenario:  "85_continuous_0",
		Trials:    10,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Rows:      domain.Summary{{Month: 0, MeanSOC: 41.3, Samples: 10}},
	}

	first := newTestStore(t, path)
	if err := first.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := newTestStore(t, path)
	loaded, err := second.Load(ctx, "persist-me")
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if loaded.Scenario != run.Scenario || len(loaded.Rows) != 1 {
		t.Errorf("reloaded run = %+v", loaded)
	}
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "runs.db"))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		run := &domain.RunSummary{ID: id, Scenario: "unit", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.Save(ctx, run); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	if len(ids) != len(want) {
		t.Fatalf("List = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("List = %v, want %v", ids, want)
		}
	}
}
