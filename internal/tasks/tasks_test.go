package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/vidtrack/internal/filter"
	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/sheet"
	"github.com/desertthunder/vidtrack/internal/shared"
)

// mockStore is an in-memory test double for [sheet.Store].
type mockStore struct {
	table    *sheet.Table
	loadErr  error
	writeErr error
	written  []*sheet.Table
}

func (m *mockStore) Name() string { return "mock" }

func (m *mockStore) Load(ctx context.Context) (*sheet.Table, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.table == nil {
		return nil, fmt.Errorf("%w: no table", shared.ErrSheetNotFound)
	}
	return m.table, nil
}

func (m *mockStore) Write(ctx context.Context, t *sheet.Table) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, t)
	m.table = t
	return nil
}

var engineCategories = models.CategoryFilter{
	"MK8":           {"MK8", "Mario Kart 8"},
	"COD":           {"COD", "Call of Duty"},
	"Rocket League": {"Rocket League"},
}

func newTestEngine(source *mockSource, store *mockStore) *PipelineEngine {
	return NewPipelineEngine(source, store, EngineConfig{
		Categories: engineCategories,
		Mode:       filter.ModeFuzzy,
		Threshold:  80,
		MaxPages:   10,
		Logger:     shared.NewLogger(nil),
	})
}

func TestPipelineEngineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("full run against an empty sheet", func(t *testing.T) {
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
			rawItem("b", "COD squad", "2025-02-20T10:00:00Z"),
			rawItem("c", "Cooking stream", "2025-02-10T10:00:00Z"),
		}}}}
		store := &mockStore{}

		result, err := newTestEngine(source, store).Run(ctx, nil, nil, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Fetched != 3 {
			t.Errorf("expected 3 fetched, got %d", result.Fetched)
		}
		if len(result.Classified) != 2 {
			t.Errorf("expected 2 classified, got %d", len(result.Classified))
		}
		if result.Unclassified != 1 {
			t.Errorf("expected 1 unclassified, got %d", result.Unclassified)
		}
		if len(result.NewlyAdded) != 2 {
			t.Errorf("expected 2 newly added, got %d", len(result.NewlyAdded))
		}
		if !result.Persisted {
			t.Error("expected merged table to be persisted")
		}
		if len(store.written) != 1 {
			t.Fatalf("expected 1 write, got %d", len(store.written))
		}
		if result.Stats == nil || result.Stats.TotalRows != 2 {
			t.Errorf("unexpected stats: %+v", result.Stats)
		}
		if result.RunID == "" {
			t.Error("expected run ID to be set")
		}
	})

	t.Run("existing rows survive untouched", func(t *testing.T) {
		existing := &sheet.Table{
			Columns: []string{sheet.ColTitle, sheet.ColURL, sheet.ColAddedToDB},
			Rows: []sheet.Row{{
				Title:     "original MK8 title",
				URL:       models.WatchURL("a"),
				AddedToDB: true,
			}},
		}
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "renamed MK8 title", "2025-03-01T10:00:00Z"),
			rawItem("b", "COD squad", "2025-02-20T10:00:00Z"),
		}}}}
		store := &mockStore{table: existing}

		result, err := newTestEngine(source, store).Run(ctx, nil, nil, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.NewlyAdded) != 1 || result.NewlyAdded[0].VideoID != "b" {
			t.Fatalf("expected only b newly added, got %+v", result.NewlyAdded)
		}
		for _, row := range result.Merged.Rows {
			if row.URL == models.WatchURL("a") {
				if row.Title != "original MK8 title" || !row.AddedToDB {
					t.Errorf("existing row disturbed: %+v", row)
				}
			}
		}
	})

	t.Run("dry run computes the merge without writing", func(t *testing.T) {
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
		}}}}
		store := &mockStore{}

		result, err := newTestEngine(source, store).Run(ctx, nil, nil, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Persisted {
			t.Error("dry run must not persist")
		}
		if len(store.written) != 0 {
			t.Errorf("expected no writes, got %d", len(store.written))
		}
		if result.Merged == nil || result.Stats == nil {
			t.Error("dry run must still compute merge and stats")
		}
	})

	t.Run("write failure keeps results and reports not persisted", func(t *testing.T) {
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
		}}}}
		store := &mockStore{writeErr: fmt.Errorf("%w: quota", shared.ErrRateLimited)}

		result, err := newTestEngine(source, store).Run(ctx, nil, nil, false)
		if err != nil {
			t.Fatalf("storage failure must not raise, got %v", err)
		}
		if result.Persisted {
			t.Error("expected not persisted")
		}
		if !errors.Is(result.StoreErr, shared.ErrRateLimited) {
			t.Errorf("expected rate limit error recorded, got %v", result.StoreErr)
		}
		if len(result.Classified) != 1 {
			t.Error("classified records must survive a storage failure")
		}
		if result.Merged == nil {
			t.Error("in-memory merge must remain available")
		}
	})

	t.Run("load failure skips the merge but keeps fetched records", func(t *testing.T) {
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
		}}}}
		store := &mockStore{loadErr: fmt.Errorf("%w: backend down", shared.ErrStorage)}

		result, err := newTestEngine(source, store).Run(ctx, nil, nil, false)
		if err != nil {
			t.Fatalf("storage failure must not raise, got %v", err)
		}
		if result.StoreErr == nil {
			t.Error("expected store error recorded")
		}
		if result.Merged != nil {
			t.Error("expected no partial merge when the sheet cannot be loaded")
		}
		if len(result.Classified) != 1 {
			t.Error("classified records must survive a load failure")
		}
	})

	t.Run("source failure mid-run still processes partial results", func(t *testing.T) {
		source := &mockSource{
			pages: []models.Page{
				{Items: []models.RawItem{rawItem("a", "MK8 night", "2025-03-01T10:00:00Z")}, NextCursor: "p2"},
				{Items: []models.RawItem{rawItem("b", "COD squad", "2025-02-20T10:00:00Z")}},
			},
			failOn: 2,
		}
		store := &mockStore{}

		result, err := newTestEngine(source, store).Run(ctx, nil, nil, false)
		if err != nil {
			t.Fatalf("transient source failure must not raise, got %v", err)
		}
		if result.FetchErr == nil {
			t.Error("expected fetch error recorded")
		}
		if len(result.Classified) != 1 {
			t.Errorf("expected partial results classified, got %d", len(result.Classified))
		}
		if !result.Persisted {
			t.Error("partial results must still be persisted")
		}
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		pages := []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
			rawItem("b", "COD squad", "2025-02-20T10:00:00Z"),
		}}}
		store := &mockStore{}

		engine := newTestEngine(&mockSource{pages: pages}, store)
		first, err := engine.Run(ctx, nil, nil, false)
		if err != nil {
			t.Fatalf("first run failed: %v", err)
		}

		engine = newTestEngine(&mockSource{pages: pages}, store)
		second, err := engine.Run(ctx, nil, nil, false)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		if len(second.NewlyAdded) != 0 {
			t.Errorf("expected 0 newly added on second run, got %d", len(second.NewlyAdded))
		}
		if len(second.Merged.Rows) != len(first.Merged.Rows) {
			t.Errorf("row count changed across runs: %d -> %d",
				len(first.Merged.Rows), len(second.Merged.Rows))
		}
	})

	t.Run("progress updates are delivered", func(t *testing.T) {
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
		}}}}
		store := &mockStore{}
		progress := make(chan ProgressUpdate, 32)

		if _, err := newTestEngine(source, store).Run(ctx, progress, nil, false); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		close(progress)

		phases := map[Phase]bool{}
		for update := range progress {
			phases[update.Phase] = true
		}
		for _, phase := range []Phase{FetchPages, ClassifyTitles, MergeSheet, WriteSheet} {
			if !phases[phase] {
				t.Errorf("expected a %s update", phase)
			}
		}
	})

	t.Run("nil collaborators are a configuration error", func(t *testing.T) {
		engine := NewPipelineEngine(nil, &mockStore{}, EngineConfig{})
		if _, err := engine.Run(ctx, nil, nil, false); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestPipelineEngineQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown game", func(t *testing.T) {
		engine := newTestEngine(&mockSource{}, &mockStore{})
		if _, err := engine.Query(ctx, nil, "Tetris", nil); !errors.Is(err, shared.ErrUnknownGame) {
			t.Errorf("expected ErrUnknownGame, got %v", err)
		}
	})

	t.Run("exact matching splits matched and new", func(t *testing.T) {
		existing := &sheet.Table{
			Columns: []string{sheet.ColTitle, sheet.ColURL},
			Rows:    []sheet.Row{{Title: "MK8 night", URL: models.WatchURL("a")}},
		}
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
			rawItem("b", "Mario Kart 8 rematch", "2025-02-20T10:00:00Z"),
			rawItem("c", "COD squad", "2025-02-10T10:00:00Z"),
		}}}}
		store := &mockStore{table: existing}

		result, err := newTestEngine(source, store).Query(ctx, nil, "MK8", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Game != "MK8" {
			t.Errorf("unexpected game %q", result.Game)
		}
		if len(result.Matched) != 2 {
			t.Fatalf("expected 2 matched, got %d", len(result.Matched))
		}
		if len(result.New) != 1 || result.New[0].VideoID != "b" {
			t.Errorf("expected only b to be new, got %+v", result.New)
		}
		if got := result.New[0].Categories; len(got) != 1 || got[0] != "MK8" {
			t.Errorf("expected single MK8 label, got %v", got)
		}
	})

	t.Run("query never writes", func(t *testing.T) {
		source := &mockSource{pages: []models.Page{{Items: []models.RawItem{
			rawItem("a", "MK8 night", "2025-03-01T10:00:00Z"),
		}}}}
		store := &mockStore{}

		if _, err := newTestEngine(source, store).Query(ctx, nil, "MK8", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(store.written) != 0 {
			t.Errorf("expected no writes, got %d", len(store.written))
		}
	})
}

func TestPipelineEngineAppend(t *testing.T) {
	ctx := context.Background()

	t.Run("appends new records and writes back", func(t *testing.T) {
		existing := &sheet.Table{
			Columns: []string{sheet.ColTitle, sheet.ColURL, sheet.ColAddedToDB},
			Rows:    []sheet.Row{{Title: "kept", URL: models.WatchURL("a"), AddedToDB: true}},
		}
		store := &mockStore{table: existing}
		engine := newTestEngine(&mockSource{}, store)

		fresh := models.Video{
			Title: "Mario Kart 8 rematch", VideoID: "b", URL: models.WatchURL("b"),
			Categories: []string{"MK8"},
		}

		result, err := engine.Append(ctx, []models.Video{fresh})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.NewlyAdded) != 1 {
			t.Errorf("expected 1 newly added, got %d", len(result.NewlyAdded))
		}
		if len(store.written) != 1 {
			t.Fatalf("expected 1 write, got %d", len(store.written))
		}
		if len(store.written[0].Rows) != 2 {
			t.Errorf("expected 2 rows written, got %d", len(store.written[0].Rows))
		}
	})

	t.Run("write failure surfaces", func(t *testing.T) {
		store := &mockStore{writeErr: fmt.Errorf("%w: disk full", shared.ErrStorage)}
		engine := newTestEngine(&mockSource{}, store)

		_, err := engine.Append(ctx, []models.Video{{VideoID: "b", URL: models.WatchURL("b")}})
		if !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})
}
