package sheet

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidtrack/internal/models"
)

// ReconcileResult reports the outcome of merging fresh records into a table.
type ReconcileResult struct {
	Merged        *Table
	NewlyAdded    []models.Video
	DedupDisabled bool // true when the existing table lacks a url column
}

// Reconcile merges freshly fetched records into the existing table.
//
// Existing rows are never modified or removed; fresh records whose URL is
// already present are dropped, the rest are appended with default flags. An
// existing table without a url column disables id-based dedup: every fresh
// record is appended and the result is flagged so callers can warn. The
// merged table is sorted by publish date descending with unknown dates last.
func Reconcile(existing *Table, fresh []models.Video, logger *log.Logger) *ReconcileResult {
	result := &ReconcileResult{}

	if existing.IsEmpty() {
		added := dedupVideos(fresh)
		for i := range added {
			// New rows never inherit flags: inDatabase defaults to false.
			added[i].AddedToDB = false
			added[i].DBAddedAt = nil
		}
		result.Merged = FromVideos(added)
		result.NewlyAdded = added
		sortRows(result.Merged)
		return result
	}

	merged := &Table{
		Columns: append([]string(nil), existing.Columns...),
		Rows:    append([]Row(nil), existing.Rows...),
	}

	seen := map[string]struct{}{}
	if err := existing.RequireColumn(ColURL); err == nil {
		for _, row := range existing.Rows {
			if row.URL != "" {
				seen[row.URL] = struct{}{}
			}
		}
	} else {
		result.DedupDisabled = true
		if logger != nil {
			logger.Warn("appending all fetched records without dedup", "error", err)
		}
	}

	for _, v := range fresh {
		if _, dup := seen[v.URL]; dup {
			continue
		}
		seen[v.URL] = struct{}{}

		// New rows never inherit flags: inDatabase defaults to false.
		v.AddedToDB = false
		v.DBAddedAt = nil
		merged.Rows = append(merged.Rows, RowFromVideo(v))
		result.NewlyAdded = append(result.NewlyAdded, v)

		if len(v.Categories) > 0 {
			merged.EnsureColumn(ColCategories)
		}
	}

	sortRows(merged)
	result.Merged = merged
	return result
}

// dedupVideos drops later duplicates of the same URL within one batch.
func dedupVideos(videos []models.Video) []models.Video {
	seen := map[string]struct{}{}
	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if _, dup := seen[v.URL]; dup {
			continue
		}
		seen[v.URL] = struct{}{}
		out = append(out, v)
	}
	return out
}

// sortRows orders rows by publish date descending. Rows without a parseable
// date sort last, keeping their relative order.
func sortRows(t *Table) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if a.DateKnown != b.DateKnown {
			return a.DateKnown
		}
		if !a.DateKnown {
			return false
		}
		return a.Date.After(b.Date)
	})
}
