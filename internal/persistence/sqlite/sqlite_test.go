package sqlite

import (
	"context"
	"testing"
)

// openTestStorage returns a migrated in-memory database scoped to the test.
func openTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() {
		if err := storage.Close(); err != nil {
			t.Errorf("failed to close storage: %v", err)
		}
	})

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return storage
}

func TestStorage_MigrateIsIdempotent(t *testing.T) {
	storage := openTestStorage(t)

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("expected repeated migration to succeed, got %v", err)
	}
	if err := storage.Ping(context.Background()); err != nil {
		t.Fatalf("expected ping to succeed, got %v", err)
	}
}
