// Package storage mirrors exported tables into a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aluiziolira/go-scrape-stars/models"
)

// Store keeps one SQLite table per dataset. Saving a dataset replaces the
// previous copy, so the database always reflects the latest run.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the database file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db, dbPath: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTable drops and recreates the table named after t.Name, then inserts
// every row in order. Column types follow the cells: INTEGER when every
// non-null cell is an int, REAL when every one is numeric, TEXT otherwise.
func (s *Store) SaveTable(ctx context.Context, t *models.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	name := quoteIdent(t.Name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("drop table %s: %w", t.Name, err)
	}

	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		defs[j] = quoteIdent(col) + " " + columnType(t, j)
		marks[j] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}

	if len(t.Columns) > 0 {
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		args := make([]any, len(t.Columns))
		for i, row := range t.Rows {
			for j := range args {
				args[j] = nil
				if j < len(row) {
					args[j] = row[j].Value()
				}
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert %s row %d: %w", t.Name, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", t.Name, err)
	}
	return nil
}

// RowCount returns the number of rows stored for a dataset.
func (s *Store) RowCount(ctx context.Context, dataset string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(dataset)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", dataset, err)
	}
	return n, nil
}

// Tables lists the stored datasets by name.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func columnType(t *models.Table, j int) string {
	affinity := "INTEGER"
	for _, row := range t.Rows {
		if j >= len(row) {
			continue
		}
		switch row[j].Kind() {
		case models.KindNull, models.KindInt:
		case models.KindFloat:
			affinity = "REAL"
		default:
			return "TEXT"
		}
	}
	return affinity
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
