// Package storage provides SQLite-based caching of contribution datasets.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/riannelimje/git-streak/internal/contrib"
)

// ErrDatasetNotFound is returned when no dataset is stored under a name.
var ErrDatasetNotFound = errors.New("storage: dataset not found")

// Store manages the SQLite database connection for the dataset cache.
type Store struct {
	db *sql.DB
}

// Dataset is a stored list of days plus where it came from.
type Dataset struct {
	Name      string
	Source    string
	Days      []contrib.Day
	FetchedAt time.Time
}

// DatasetInfo summarises a stored dataset without loading its days.
type DatasetInfo struct {
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
	contrib.Summary
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandPath(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// One writer at a time; SQLite serialises anyway and this avoids SQLITE_BUSY
	// between the SSH and web drivers sharing a store.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS days (
			dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			date TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (dataset, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_days_dataset ON days(dataset);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDataset stores days under name, replacing any previous copy.
func (s *Store) SaveDataset(ctx context.Context, name, source string, days []contrib.Day) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM days WHERE dataset = ?", name); err != nil {
		return fmt.Errorf("storage: cannot clear dataset: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, source, fetched_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET source = excluded.source, fetched_at = excluded.fetched_at`,
		name, source,
	); err != nil {
		return fmt.Errorf("storage: cannot save dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO days (dataset, seq, date, count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range days {
		if _, err := stmt.ExecContext(ctx, name, i, d.Date, d.Count); err != nil {
			return fmt.Errorf("storage: cannot save day %s: %w", d.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit dataset: %w", err)
	}
	return nil
}

// LoadDataset returns the dataset stored under name with days in saved order.
func (s *Store) LoadDataset(ctx context.Context, name string) (Dataset, error) {
	ds := Dataset{Name: name}
	var fetchedAt any

	err := s.db.QueryRowContext(ctx,
		"SELECT source, fetched_at FROM datasets WHERE name = ?", name,
	).Scan(&ds.Source, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("storage: cannot query dataset: %w", err)
	}
	ds.FetchedAt = parseTimestamp(fetchedAt)

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, count FROM days WHERE dataset = ? ORDER BY seq", name,
	)
	if err != nil {
		return Dataset{}, fmt.Errorf("storage: cannot query days: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d contrib.Day
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return Dataset{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ds.Days = append(ds.Days, d)
	}

	if err := rows.Err(); err != nil {
		return Dataset{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return ds, nil
}

// ListDatasets returns every stored dataset with its totals, sorted by name.
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.name, d.source, d.fetched_at,
		        COUNT(y.seq),
		        COALESCE(SUM(CASE WHEN y.count > 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(y.count), 0)
		 FROM datasets d
		 LEFT JOIN days y ON y.dataset = d.name
		 GROUP BY d.name
		 ORDER BY d.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query datasets: %w", err)
	}
	defer rows.Close()

	var infos []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		var fetchedAt any
		if err := rows.Scan(&info.Name, &info.Source, &fetchedAt,
			&info.Days, &info.ActiveDays, &info.TotalCommits); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.FetchedAt = parseTimestamp(fetchedAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return infos, nil
}

// DeleteDataset removes the dataset stored under name.
func (s *Store) DeleteDataset(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM days WHERE dataset = ?", name); err != nil {
		return fmt.Errorf("storage: cannot delete days: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete dataset: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// parseTimestamp handles both time.Time and string from the driver.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
