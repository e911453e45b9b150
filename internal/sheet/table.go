// package sheet models the persisted video table and its storage backends.
//
// A Table is a row-oriented structure with named columns. Core logic works
// against typed Row fields; columns it does not interpret ride along in the
// Extras side map and are written back untouched.
package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/shared"
)

// Standard column names. Any other column is a passenger column.
const (
	ColTitle      = "title"
	ColURL        = "url"
	ColDate       = "date"
	ColAddedToDB  = "added_to_db"
	ColDBAddedAt  = "db_added_at"
	ColCategories = "categories"
)

// UnknownDateMarker replaces date cells that could not be parsed. Rows
// carrying it sort after all dated rows.
const UnknownDateMarker = "unknown"

var standardColumns = []string{ColTitle, ColURL, ColDate, ColAddedToDB, ColDBAddedAt, ColCategories}

// Row is one sheet row: the typed record fields plus passenger columns.
type Row struct {
	Title      string
	URL        string
	Date       time.Time
	DateKnown  bool
	DateRaw    string // original cell, kept for unparseable dates
	AddedToDB  bool
	DBAddedAt  string // canonical timestamp or empty
	Categories string // comma-joined category set, may be empty
	Extras     map[string]string
}

// Table is an ordered collection of rows with a named column layout.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the standard column layout.
func NewTable() *Table {
	return &Table{Columns: append([]string(nil), standardColumns...)}
}

// FromVideos builds a table with the standard layout from normalized records.
func FromVideos(videos []models.Video) *Table {
	t := NewTable()
	for _, v := range videos {
		t.Rows = append(t.Rows, RowFromVideo(v))
	}
	return t
}

// RowFromVideo converts a normalized record into a sheet row.
func RowFromVideo(v models.Video) Row {
	row := Row{
		Title:      v.Title,
		URL:        v.URL,
		Date:       v.PublishedAt,
		DateKnown:  !v.PublishedAt.IsZero(),
		AddedToDB:  v.AddedToDB,
		Categories: v.CategoryLabel(),
	}
	if v.DBAddedAt != nil {
		row.DBAddedAt = v.DBAddedAt.Format(models.SheetTimeLayout)
	}
	return row
}

// HasColumn reports whether the table's layout contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// RequireColumn returns an error naming the column when the layout lacks it.
func (t *Table) RequireColumn(name string) error {
	if t.HasColumn(name) {
		return nil
	}
	return fmt.Errorf("%w: %s", shared.ErrMissingColumn, name)
}

// EnsureColumn appends the named column to the layout if missing.
func (t *Table) EnsureColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// IsEmpty reports whether the table holds no rows with any content.
func (t *Table) IsEmpty() bool {
	if t == nil {
		return true
	}
	for _, row := range t.Rows {
		if !row.IsEmpty() {
			return false
		}
	}
	return true
}

// IsEmpty reports whether every cell of the row is blank.
func (r Row) IsEmpty() bool {
	if r.Title != "" || r.URL != "" || r.DateKnown || r.DateRaw != "" ||
		r.AddedToDB || r.DBAddedAt != "" || r.Categories != "" {
		return false
	}
	for _, v := range r.Extras {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Cell returns the serialized value of the named column for this row.
func (r Row) Cell(name string) string {
	switch name {
	case ColTitle:
		return r.Title
	case ColURL:
		return r.URL
	case ColDate:
		return EncodeDate(r)
	case ColAddedToDB:
		return EncodeBool(r.AddedToDB)
	case ColDBAddedAt:
		return r.DBAddedAt
	case ColCategories:
		return r.Categories
	default:
		return r.Extras[name]
	}
}

// RowFromCells builds a row from raw cells in column order, normalizing the
// boolean and date columns and routing unknown columns into Extras.
func RowFromCells(columns, cells []string) Row {
	row := Row{}
	for i, col := range columns {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		switch col {
		case ColTitle:
			row.Title = value
		case ColURL:
			row.URL = value
		case ColDate:
			row.Date, row.DateKnown = DecodeDate(value)
			if !row.DateKnown {
				row.DateRaw = value
			}
		case ColAddedToDB:
			row.AddedToDB = DecodeBool(value)
		case ColDBAddedAt:
			row.DBAddedAt = value
		case ColCategories:
			row.Categories = value
		default:
			if row.Extras == nil {
				row.Extras = map[string]string{}
			}
			row.Extras[col] = value
		}
	}
	return row
}

// EncodeBool serializes a boolean using the sheet's textual convention.
func EncodeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// DecodeBool normalizes a boolean-like cell. "TRUE" (any case) is true;
// everything else, including blanks and garbage, is false.
func DecodeBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "TRUE")
}

// EncodeDate serializes the row's date, emitting the unknown-date marker for
// rows whose original cell could not be parsed.
func EncodeDate(r Row) string {
	if r.DateKnown {
		return r.Date.Format(models.SheetTimeLayout)
	}
	if strings.TrimSpace(r.DateRaw) == "" {
		return ""
	}
	return UnknownDateMarker
}

// DecodeDate parses a date cell in the sheet's canonical form. Source-form
// timestamps and bare dates are accepted for tolerance of hand-entered rows.
func DecodeDate(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{models.SheetTimeLayout, models.SourceTimeLayout, models.CutoffDateLayout} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
