// Package testutil provides test utilities for rentflow: an isolated
// in-memory unit directory and a fluent builder for its contents.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/rentflow/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Seed    *storage.Seed
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with seed, which
// may be nil. It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewDirectoryBuilder(t).
//			WithRiverside().
//			Build(),
//	)
func SetupTestDB(t *testing.T, seed *storage.Seed) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Seed: seed})
}

// SetupRiverside creates a test database holding the standard fixture.
func SetupRiverside(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDB(t, NewDirectoryBuilder(t).WithRiverside().Build())
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Seed           *storage.Seed
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if opts.Seed != nil {
		if err := store.ImportSeed(ctx, opts.Seed, nil); err != nil {
			t.Fatalf("failed to seed directory: %v", err)
		}
	}

	// Run custom setup
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		Seed:    opts.Seed,
		t:       t,
	}
}

// MustHaveUnit fails the test unless unitID is in the directory.
func (db *TestDB) MustHaveUnit(unitID string) {
	db.t.Helper()
	units, err := db.Storage.ListUnits(context.Background(), "")
	if err != nil {
		db.t.Fatalf("failed to list units: %v", err)
	}
	for _, u := range units {
		if u.ID == unitID {
			return
		}
	}
	db.t.Fatalf("unit %s not in test directory", unitID)
}
