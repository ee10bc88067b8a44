package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/rentflow/internal/config"
	"github.com/Veraticus/rentflow/internal/storage"
)

// openStorage opens the directory database without touching its schema.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath()
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	return store, nil
}

// initStorage opens the directory database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := openStorage()
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
