package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tictot/internal/repository/sqlite"
)

// CreateRepository opens the repository described by the configuration,
// creating the data directory when needed
func CreateRepository(ctx context.Context, config *Config) (sqlite.Repository, error) {
	dbPath := config.GetDatabasePath()

	if !config.Database.InMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	repo, err := sqlite.NewWithOptions(ctx, dbPath, sqlite.Options{
		BusyTimeout: config.Database.BusyTimeout,
		InMemory:    config.Database.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}
