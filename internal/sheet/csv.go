package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/vidtrack/internal/shared"
)

// CSVStore persists the video sheet as a CSV file with a header row.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the CSV file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Name returns the backend name.
func (s *CSVStore) Name() string {
	return "csv"
}

// Load reads the CSV file into a Table. A missing file is reported as
// [shared.ErrSheetNotFound]; an empty file yields an empty table.
func (s *CSVStore) Load(ctx context.Context) (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrSheetNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: open %s: %v", shared.ErrStorage, s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", shared.ErrStorage, s.path, err)
	}
	if len(records) == 0 {
		return NewTable(), nil
	}

	table := &Table{Columns: records[0]}
	for _, cells := range records[1:] {
		table.Rows = append(table.Rows, RowFromCells(table.Columns, cells))
	}
	return table, nil
}

// Write replaces the CSV file with the given table.
//
// The table is written to a temporary file in the same directory and renamed
// into place so a failed write never truncates the existing sheet.
func (s *CSVStore) Write(ctx context.Context, t *Table) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", shared.ErrStorage, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(t.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write header: %v", shared.ErrStorage, err)
	}

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = row.Cell(col)
		}
		if err := writer.Write(cells); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: write row: %v", shared.ErrStorage, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: flush: %v", shared.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", shared.ErrStorage, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", shared.ErrStorage, s.path, err)
	}
	return nil
}
