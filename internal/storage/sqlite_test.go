package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/rentflow/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// createTestDirectory seeds one property with two units, one of them let.
func createTestDirectory(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	store, cleanup := createTestStorage(t)
	ctx := context.Background()

	property := &model.Property{
		ID:             "PROP01",
		Name:           "Riverside Court",
		OwnerEmail:     "owner@example.com",
		SubaccountCode: "ACCT_riverside01",
	}
	if err := store.SaveProperty(ctx, property); err != nil {
		cleanup()
		t.Fatalf("Failed to save property: %v", err)
	}

	for _, unit := range []*model.Unit{
		{ID: "123456", PropertyID: "PROP01", UnitType: "bedsitter", RentPrice: 12000},
		{ID: "A1B2C3", PropertyID: "PROP01", UnitType: "one_bedroom", RentPrice: 25000},
	} {
		if err := store.SaveUnit(ctx, unit); err != nil {
			cleanup()
			t.Fatalf("Failed to save unit %s: %v", unit.ID, err)
		}
	}

	tenant := &model.Tenant{
		UnitID:      "123456",
		FirstName:   "Wanjiku",
		LastName:    "Kamau",
		PhoneNumber: "+254712345678",
		Email:       "wanjiku@example.com",
	}
	if err := store.SaveTenant(ctx, tenant); err != nil {
		cleanup()
		t.Fatalf("Failed to save tenant: %v", err)
	}

	return store, cleanup
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage("  "); err == nil {
		t.Fatal("Expected error for empty path")
	}
}

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "rentflow.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
	}
}

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}

	// Running again is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}
}

func TestMigrate_CreatesTenantUniqueIndex(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var indexCount int
	err := store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_tenants_unit'
	`).Scan(&indexCount)
	if err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if indexCount != 1 {
		t.Error("Tenant unit index was not created")
	}
}

func TestInMemoryStorage(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate in-memory storage: %v", err)
	}
}
