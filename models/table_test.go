package models

import (
	"errors"
	"math"
	"testing"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0.0"},
		{in: 1, want: "1.0"},
		{in: -1.46, want: "-1.46"},
		{in: 0.00954588, want: "0.00954588"},
		{in: 0.102763, want: "0.102763"},
		{in: 0.0001, want: "0.0001"},
		{in: 0.000016, want: "1.6e-05"},
		{in: 2004, want: "2004.0"},
		{in: 1e16, want: "1e+16"},
		{in: 123456789012345.0, want: "123456789012345.0"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCellKinds(t *testing.T) {
	if !NullCell().IsNull() || (Cell{}) != NullCell() {
		t.Fatal("zero cell should be null")
	}
	if TextCell("").IsNull() {
		t.Fatal("empty text is not null")
	}
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if !FloatCell(f).IsNull() {
			t.Errorf("FloatCell(%v) should be null", f)
		}
	}
	if v, ok := IntCell(7).Number(); !ok || v != 7 {
		t.Errorf("IntCell.Number=(%v, %v)", v, ok)
	}
	if _, ok := TextCell("7").Number(); ok {
		t.Error("text cell must not report a number")
	}
	if IntCell(3).String() != "3" || FloatCell(3).String() != "3.0" || NullCell().String() != "" {
		t.Error("unexpected cell rendering")
	}
	if NullCell().Value() != nil {
		t.Error("null value should be nil")
	}
}

func TestBuildTable(t *testing.T) {
	cols := []string{"a", "b", "c"}
	table, err := BuildTable("t", cols, [][]string{{"1", "2", "3"}, {"x"}, {}})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("rows=%d, want 3", table.Len())
	}
	if !table.Rows[1][1].IsNull() || !table.Rows[1][2].IsNull() {
		t.Error("short rows should be null padded")
	}
	if table.Rows[0][2].Kind() != KindText {
		t.Error("built cells should be text")
	}

	cols[0] = "changed"
	if table.Columns[0] != "a" {
		t.Error("header must be copied")
	}

	if _, err := BuildTable("t", []string{"a"}, [][]string{{"1", "2"}}); !errors.Is(err, ErrRowTooWide) {
		t.Fatalf("err=%v, want ErrRowTooWide", err)
	}
}

func TestTableFilterAndClone(t *testing.T) {
	table, _ := BuildTable("t", []string{"n"}, [][]string{{"1"}, {"2"}, {"3"}, {"4"}})
	clone := table.Clone("copy")

	removed := table.Filter(func(row []Cell) bool {
		return row[0].String() != "2" && row[0].String() != "4"
	})
	if removed != 2 || table.Len() != 2 {
		t.Fatalf("removed=%d len=%d", removed, table.Len())
	}
	if table.Rows[0][0].String() != "1" || table.Rows[1][0].String() != "3" {
		t.Fatalf("order not kept: %v", table.Records())
	}

	if clone.Len() != 4 || clone.Name != "copy" {
		t.Fatalf("clone affected by filter: len=%d name=%q", clone.Len(), clone.Name)
	}
	clone.Rows[0][0] = NullCell()
	if table.Rows[0][0].IsNull() {
		t.Fatal("clone shares rows with source")
	}
}

func TestRenameAndMustColumn(t *testing.T) {
	table := &Table{Name: "stars", Columns: StarColumns()}
	table.RenameColumns(map[string]string{ColDistance: ColStarsDistance, "absent": "x"})

	if table.ColumnIndex(ColDistance) != -1 {
		t.Error("distance column not renamed")
	}
	if idx, err := table.MustColumn(ColStarsDistance); err != nil || idx != 3 {
		t.Errorf("MustColumn=(%d, %v)", idx, err)
	}
	if _, err := table.MustColumn("nope"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("err=%v, want ErrColumnNotFound", err)
	}
}

func TestDecodeBrownDwarfs(t *testing.T) {
	table, _ := BuildTable("cleaned", BrownDwarfColumns(), [][]string{
		{"Gliese 229 B", "Lepus", "06h", "-21", "14.0", "19", "T7", "", "", "1994"},
	})
	table.Rows[0][7] = FloatCell(0.00954588)
	table.Rows[0][8] = FloatCell(0.102763)

	records, err := DecodeBrownDwarfs(table)
	if err != nil {
		t.Fatalf("DecodeBrownDwarfs: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Gliese 229 B" || records[0].Mass != 0.00954588 || records[0].Radius != 0.102763 {
		t.Fatalf("unexpected records: %+v", records)
	}

	table.Rows[0][8] = TextCell("1")
	if _, err := DecodeBrownDwarfs(table); err == nil {
		t.Fatal("expected error for unconverted radius")
	}
}
