// Package file archives run summaries as JSON files in a local directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Store implements ports.RunStore using the local filesystem.
// It stores each run as one JSON file in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".nbstp/runs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".nbstp", "runs")
	}
	return &Store{BasePath: basePath}
}

// Save persists the run summary to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// to the destination. The temp file lives in the same directory so the
// rename stays on one filesystem.
func (s *Store) Save(ctx context.Context, run *domain.RunSummary) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure archive directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, run.ID+".json")

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+run.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Remove the temp file on any failure path; after a successful rename
	// the path is gone and the Remove is a no-op.
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Close before rename; Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows os.Rename fails when the destination exists, so clear it
	// first. The delete+rename window is acceptable for a CLI archive; a
	// partial file would not be.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing run file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into archive: %w", err)
	}
	return nil
}

// Load retrieves a run summary from its JSON file.
func (s *Store) Load(ctx context.Context, id string) (*domain.RunSummary, error) {
	if id == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var run domain.RunSummary
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}
	return &run, nil
}

// Delete removes the run file.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	err := os.Remove(filepath.Join(s.BasePath, id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	return nil
}

// List returns the IDs of all archived runs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list archive directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			name := entry.Name()
			ids = append(ids, name[:len(name)-len(".json")])
		}
	}
	return ids, nil
}
