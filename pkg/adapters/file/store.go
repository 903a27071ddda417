package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/sirsim/pkg/domain"
)

// Store implements ports.RunStore using the local filesystem.
// It stores runs as indented JSON files in a configured directory.
type Store struct {
	BasePath string
}

// DefaultPath is used when NewStore is given an empty path.
var DefaultPath = filepath.Join(".sirsim", "runs")

// NewStore creates a new Store with the given base path.
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultPath
	}
	return &Store{BasePath: basePath}
}

func (f *Store) path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid run ID %q", id)
	}
	return filepath.Join(f.BasePath, id+".json"), nil
}

// Save persists the run to a JSON file.
func (f *Store) Save(ctx context.Context, run *domain.Run) error {
	filePath, err := f.path(run.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(f.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure run directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	// Write to a temp file first so readers never see a torn record.
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write run file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		return fmt.Errorf("failed to commit run file: %w", err)
	}
	return nil
}

// Load retrieves the run from its JSON file.
func (f *Store) Load(ctx context.Context, id string) (*domain.Run, error) {
	filePath, err := f.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// Delete removes the run file.
func (f *Store) Delete(ctx context.Context, id string) error {
	filePath, err := f.path(id)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	return nil
}

// List returns all stored run IDs.
func (f *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}
