package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestStore opens an isolated SQLiteStorage backed by a temp-dir file.
// A private on-disk file (rather than ":memory:") avoids the shared-cache
// surprises the teacher's own test_helpers.go calls out, while still giving
// each test its own database.
func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ironlog-test.db")
	store, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})
	return store
}
