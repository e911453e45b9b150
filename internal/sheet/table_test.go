package sheet

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/shared"
)

func TestBoolCodec(t *testing.T) {
	t.Run("encode", func(t *testing.T) {
		if got := EncodeBool(true); got != "TRUE" {
			t.Errorf("expected TRUE, got %s", got)
		}
		if got := EncodeBool(false); got != "FALSE" {
			t.Errorf("expected FALSE, got %s", got)
		}
	})

	t.Run("decode", func(t *testing.T) {
		tests := []struct {
			input string
			want  bool
		}{
			{"TRUE", true},
			{"true", true},
			{" True ", true},
			{"FALSE", false},
			{"false", false},
			{"", false},
			{"yes", false},
			{"1", false},
			{"garbage", false},
		}
		for _, tt := range tests {
			if got := DecodeBool(tt.input); got != tt.want {
				t.Errorf("DecodeBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	})
}

func TestDateCodec(t *testing.T) {
	t.Run("decodes canonical form", func(t *testing.T) {
		got, ok := DecodeDate("2025-03-01 10:30:00")
		if !ok {
			t.Fatal("expected date to parse")
		}
		want := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("decodes source form and bare date", func(t *testing.T) {
		if _, ok := DecodeDate("2025-03-01T10:30:00Z"); !ok {
			t.Error("expected source-form timestamp to parse")
		}
		if _, ok := DecodeDate("2025-03-01"); !ok {
			t.Error("expected bare date to parse")
		}
	})

	t.Run("unparseable cell keeps raw value and encodes marker", func(t *testing.T) {
		row := RowFromCells([]string{ColDate}, []string{"soon tm"})
		if row.DateKnown {
			t.Fatal("expected unknown date")
		}
		if row.DateRaw != "soon tm" {
			t.Errorf("expected raw cell preserved, got %q", row.DateRaw)
		}
		if got := EncodeDate(row); got != UnknownDateMarker {
			t.Errorf("expected %q, got %q", UnknownDateMarker, got)
		}
	})

	t.Run("blank cell stays blank", func(t *testing.T) {
		row := RowFromCells([]string{ColDate}, []string{""})
		if got := EncodeDate(row); got != "" {
			t.Errorf("expected empty cell, got %q", got)
		}
	})
}

func TestRowFromCells(t *testing.T) {
	columns := []string{ColTitle, ColURL, ColDate, ColAddedToDB, "notes"}
	cells := []string{"MK8 night", "https://www.youtube.com/watch?v=a1", "2025-03-01 10:00:00", "TRUE", "watch later"}

	row := RowFromCells(columns, cells)
	if row.Title != "MK8 night" {
		t.Errorf("unexpected title %q", row.Title)
	}
	if !row.AddedToDB {
		t.Error("expected AddedToDB true")
	}
	if !row.DateKnown {
		t.Error("expected parsed date")
	}
	if diff := cmp.Diff(map[string]string{"notes": "watch later"}, row.Extras); diff != "" {
		t.Errorf("extras mismatch (-want +got):\n%s", diff)
	}

	t.Run("short row pads missing cells", func(t *testing.T) {
		row := RowFromCells(columns, []string{"only title"})
		if row.Title != "only title" {
			t.Errorf("unexpected title %q", row.Title)
		}
		if row.URL != "" || row.AddedToDB {
			t.Error("expected zero values for missing cells")
		}
	})
}

func TestRowFromVideo(t *testing.T) {
	published := time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC)
	added := time.Date(2025, 2, 16, 12, 0, 0, 0, time.UTC)
	v := models.Video{
		Title:       "Rocket League Finals",
		VideoID:     "vid2",
		URL:         models.WatchURL("vid2"),
		PublishedAt: published,
		AddedToDB:   true,
		DBAddedAt:   &added,
		Categories:  []string{"Rocket League"},
	}

	row := RowFromVideo(v)
	if row.Cell(ColURL) != "https://www.youtube.com/watch?v=vid2" {
		t.Errorf("unexpected url cell %q", row.Cell(ColURL))
	}
	if row.Cell(ColDate) != "2025-02-15 09:00:00" {
		t.Errorf("unexpected date cell %q", row.Cell(ColDate))
	}
	if row.Cell(ColAddedToDB) != "TRUE" {
		t.Errorf("unexpected bool cell %q", row.Cell(ColAddedToDB))
	}
	if row.Cell(ColDBAddedAt) != "2025-02-16 12:00:00" {
		t.Errorf("unexpected db_added_at cell %q", row.Cell(ColDBAddedAt))
	}
	if row.Cell(ColCategories) != "Rocket League" {
		t.Errorf("unexpected categories cell %q", row.Cell(ColCategories))
	}
}

func TestTableIsEmpty(t *testing.T) {
	if !NewTable().IsEmpty() {
		t.Error("expected new table to be empty")
	}

	var nilTable *Table
	if !nilTable.IsEmpty() {
		t.Error("expected nil table to be empty")
	}

	allBlank := &Table{
		Columns: standardColumns,
		Rows:    []Row{{}, {Extras: map[string]string{"notes": "  "}}},
	}
	if !allBlank.IsEmpty() {
		t.Error("expected table of blank rows to be empty")
	}

	withContent := &Table{Columns: standardColumns, Rows: []Row{{Title: "x"}}}
	if withContent.IsEmpty() {
		t.Error("expected table with content to be non-empty")
	}
}

func TestRequireColumn(t *testing.T) {
	if err := NewTable().RequireColumn(ColURL); err != nil {
		t.Errorf("expected standard layout to satisfy url, got %v", err)
	}

	bare := &Table{Columns: []string{ColTitle}}
	err := bare.RequireColumn(ColURL)
	if !errors.Is(err, shared.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), ColURL) {
		t.Errorf("expected error to name the column, got %v", err)
	}
}
