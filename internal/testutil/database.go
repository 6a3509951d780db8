// Package testutil provides test databases and classification fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/storage"
)

// TestDB is a migrated in-memory database scoped to one test.
type TestDB struct {
	Store *storage.Store
	t     *testing.T
}

// TestDBOptions seeds a test database.
type TestDBOptions struct {
	CustomSetup func(context.Context, *storage.Store) error
	Keywords    []string
	Records     []model.PayeeClassification
}

// SetupTestDB creates an empty in-memory database and closes it when the
// test finishes.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates an in-memory database seeded with custom
// keywords and classification records. Records keep their own batch IDs.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		Keywords: []string{"credit union"},
//		Records: []model.PayeeClassification{
//			testutil.NewRecord("Acme LLC").InBatch("b1").Business(95).Build(),
//		},
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, kw := range opts.Keywords {
		if err := store.AddCustomKeyword(ctx, kw); err != nil {
			t.Fatalf("failed to seed keyword %q: %v", kw, err)
		}
	}

	if len(opts.Records) > 0 {
		if err := store.Save(ctx, opts.Records, ""); err != nil {
			t.Fatalf("failed to seed classifications: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{Store: store, t: t}
}

// MustLoadBatch returns a stored batch or fails the test.
func (db *TestDB) MustLoadBatch(batchID string) []model.PayeeClassification {
	db.t.Helper()
	records, err := db.Store.LoadBatch(context.Background(), batchID)
	if err != nil {
		db.t.Fatalf("failed to load batch %q: %v", batchID, err)
	}
	return records
}
