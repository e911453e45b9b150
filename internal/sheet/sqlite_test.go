package sheet

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/vidtrack/internal/shared"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh database loads empty table", func(t *testing.T) {
		store := newTestSQLiteStore(t)
		table, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !table.IsEmpty() {
			t.Error("expected empty table")
		}
	})

	t.Run("write then load round-trips rows and extras", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		original := &Table{
			Columns: append(append([]string(nil), standardColumns...), "priority"),
			Rows: []Row{
				{
					Title:      "MK8 night",
					URL:        "https://www.youtube.com/watch?v=a1",
					DateKnown:  true,
					Date:       mustDate(t, "2025-03-01 10:00:00"),
					AddedToDB:  true,
					Categories: "MK8",
					Extras:     map[string]string{"priority": "high"},
				},
				{
					Title: "old row",
					URL:   "https://www.youtube.com/watch?v=a2",
				},
			},
		}

		if err := store.Write(ctx, original); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(loaded.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(loaded.Rows))
		}
		if loaded.Rows[0].Title != "MK8 night" {
			t.Errorf("row order not preserved: %q first", loaded.Rows[0].Title)
		}
		if !loaded.Rows[0].AddedToDB {
			t.Error("expected AddedToDB true after round trip")
		}
		if diff := cmp.Diff(map[string]string{"priority": "high"}, loaded.Rows[0].Extras); diff != "" {
			t.Errorf("extras mismatch (-want +got):\n%s", diff)
		}
		if !loaded.HasColumn("priority") {
			t.Error("expected passenger column in loaded layout")
		}
	})

	t.Run("write replaces previous contents", func(t *testing.T) {
		store := newTestSQLiteStore(t)

		first := &Table{Columns: standardColumns, Rows: []Row{{Title: "one", URL: "u1"}}}
		if err := store.Write(ctx, first); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		second := &Table{Columns: standardColumns, Rows: []Row{{Title: "two", URL: "u2"}}}
		if err := store.Write(ctx, second); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(loaded.Rows) != 1 || loaded.Rows[0].Title != "two" {
			t.Errorf("expected table to be replaced, got %+v", loaded.Rows)
		}
	})
}
