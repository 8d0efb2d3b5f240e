package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aluiziolira/go-scrape-stars/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "stars.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func dwarfs(n int) *models.Table {
	t := &models.Table{
		Name:    "cleaned_brown_dwarfs",
		Columns: []string{"Brown dwarf", "Mass (MJ)", "Discovery Year"},
	}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, []models.Cell{
			models.TextCell("Dwarf \"quoted\""),
			models.FloatCell(0.0095 * float64(i+1)),
			models.IntCell(int64(2000 + i)),
		})
	}
	return t
}

func TestSaveTable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveTable(ctx, dwarfs(3)); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	n, err := s.RowCount(ctx, "cleaned_brown_dwarfs")
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 3 {
		t.Fatalf("rows=%d, want 3", n)
	}

	var (
		name string
		mass float64
		year int64
	)
	row := s.db.QueryRowContext(ctx, `SELECT "Brown dwarf", "Mass (MJ)", "Discovery Year" FROM cleaned_brown_dwarfs LIMIT 1`)
	if err := row.Scan(&name, &mass, &year); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if name != `Dwarf "quoted"` || mass != 0.0095 || year != 2000 {
		t.Fatalf("row=(%q, %v, %d)", name, mass, year)
	}
}

func TestSaveTableReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveTable(ctx, dwarfs(5)); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := s.SaveTable(ctx, dwarfs(2)); err != nil {
		t.Fatalf("SaveTable again: %v", err)
	}
	if n, _ := s.RowCount(ctx, "cleaned_brown_dwarfs"); n != 2 {
		t.Fatalf("rows=%d, want 2 after replace", n)
	}
}

func TestSaveTableNulls(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	table := &models.Table{
		Name:    "merged_stars",
		Columns: []string{"Proper name", "Mass (MJ)"},
		Rows: [][]models.Cell{
			{models.TextCell("Sirius"), models.FloatCell(0.01)},
			{models.TextCell("Canopus"), models.NullCell()},
		},
	}
	if err := s.SaveTable(ctx, table); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}

	var mass sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT "Mass (MJ)" FROM merged_stars WHERE "Proper name" = 'Canopus'`).Scan(&mass); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if mass.Valid {
		t.Fatalf("mass=%v, want NULL", mass.Float64)
	}

	names, err := s.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(names) != 1 || names[0] != "merged_stars" {
		t.Fatalf("tables=%v", names)
	}
}

func TestColumnType(t *testing.T) {
	table := &models.Table{
		Columns: []string{"i", "f", "s", "empty"},
		Rows: [][]models.Cell{
			{models.IntCell(1), models.IntCell(1), models.TextCell("a"), models.NullCell()},
			{models.NullCell(), models.FloatCell(1.5), models.IntCell(2), models.NullCell()},
		},
	}
	want := []string{"INTEGER", "REAL", "TEXT", "INTEGER"}
	for j, w := range want {
		if got := columnType(table, j); got != w {
			t.Errorf("column %s type=%s, want %s", table.Columns[j], got, w)
		}
	}
}

func TestRowCountMissingTable(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.RowCount(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for missing table")
	}
}
