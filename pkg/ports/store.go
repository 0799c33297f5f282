package ports

import (
	"context"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// RunStore defines the interface for archiving completed Monte Carlo runs.
// Summaries are small (one row per month), so implementations store them
// whole; there is no partial update.
type RunStore interface {
	// Save persists the summary under its run ID, overwriting any previous
	// version.
	Save(ctx context.Context, run *domain.RunSummary) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.RunSummary, error)

	// Delete removes a run. Deleting an absent run is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored runs, in no particular order.
	List(ctx context.Context) ([]string, error)
}
