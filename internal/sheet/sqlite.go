package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/desertthunder/vidtrack/internal/shared"
)

// SQLiteStore persists the video sheet in a single SQLite table. Passenger
// columns are kept in a JSON side column so unknown columns survive a
// round-trip without schema changes.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS videos (
	position INTEGER PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL DEFAULT '',
	added_to_db TEXT NOT NULL DEFAULT 'FALSE',
	db_added_at TEXT NOT NULL DEFAULT '',
	categories TEXT NOT NULL DEFAULT '',
	extras TEXT NOT NULL DEFAULT '{}'
)`

// NewSQLiteStore creates a store over an open database handle, ensuring the
// videos table exists.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("%w: create schema: %v", shared.ErrStorage, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Name returns the backend name.
func (s *SQLiteStore) Name() string {
	return "sqlite"
}

// Load reads all rows in persisted order.
func (s *SQLiteStore) Load(ctx context.Context) (*Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, url, date, added_to_db, db_added_at, categories, extras
		 FROM videos ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query videos: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	table := NewTable()
	extraCols := map[string]struct{}{}

	for rows.Next() {
		var title, url, date, added, dbAdded, categories, extrasJSON string
		if err := rows.Scan(&title, &url, &date, &added, &dbAdded, &categories, &extrasJSON); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", shared.ErrStorage, err)
		}

		row := Row{
			Title:      title,
			URL:        url,
			AddedToDB:  DecodeBool(added),
			DBAddedAt:  dbAdded,
			Categories: categories,
		}
		row.Date, row.DateKnown = DecodeDate(date)
		if !row.DateKnown {
			row.DateRaw = date
		}

		if extrasJSON != "" && extrasJSON != "{}" {
			if err := json.Unmarshal([]byte(extrasJSON), &row.Extras); err != nil {
				return nil, fmt.Errorf("%w: decode extras: %v", shared.ErrStorage, err)
			}
			for col := range row.Extras {
				extraCols[col] = struct{}{}
			}
		}

		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", shared.ErrStorage, err)
	}

	names := make([]string, 0, len(extraCols))
	for col := range extraCols {
		names = append(names, col)
	}
	sort.Strings(names)
	table.Columns = append(table.Columns, names...)

	return table, nil
}

// Write replaces the videos table inside one transaction.
func (s *SQLiteStore) Write(ctx context.Context, t *Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", shared.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM videos"); err != nil {
		return fmt.Errorf("%w: clear videos: %v", shared.ErrStorage, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO videos (position, title, url, date, added_to_db, db_added_at, categories, extras)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", shared.ErrStorage, err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		extras := row.Extras
		if extras == nil {
			extras = map[string]string{}
		}
		extrasJSON, err := json.Marshal(extras)
		if err != nil {
			return fmt.Errorf("%w: encode extras: %v", shared.ErrStorage, err)
		}

		_, err = stmt.ExecContext(ctx, i,
			row.Title, row.URL, EncodeDate(row), EncodeBool(row.AddedToDB),
			row.DBAddedAt, row.Categories, string(extrasJSON))
		if err != nil {
			return fmt.Errorf("%w: insert row %d: %v", shared.ErrStorage, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", shared.ErrStorage, err)
	}
	return nil
}
