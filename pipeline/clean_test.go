package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/aluiziolira/go-scrape-stars/models"
)

func dwarfTable(t *testing.T, records [][]string) *models.Table {
	t.Helper()
	table, err := models.BuildTable(DatasetOriginalBrownDwarfs, models.BrownDwarfColumns(), records)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	return table
}

func dwarfRow(name, mass, radius string) []string {
	return []string{name, "Leo", "10h 00m", "+10° 00′", "15.1", "55", "L8", mass, radius, "2004"}
}

func TestConvertColumn(t *testing.T) {
	tests := []struct {
		name   string
		conv   UnitConversion
		input  string
		want   float64
		isNull bool
	}{
		{name: "ten jupiter masses", conv: UnitConversion{Column: models.ColMass, Factor: JupiterMassToSolar}, input: "10", want: 0.00954588},
		{name: "one jupiter radius", conv: UnitConversion{Column: models.ColRadius, Factor: JupiterRadiusToSolar}, input: "1", want: 0.102763},
		{name: "padded value", conv: UnitConversion{Column: models.ColMass, Factor: JupiterMassToSolar}, input: " 53 ", want: 53 * JupiterMassToSolar},
		{name: "range is unparsable", conv: UnitConversion{Column: models.ColMass, Factor: JupiterMassToSolar}, input: "30–40", isNull: true},
		{name: "approximate is unparsable", conv: UnitConversion{Column: models.ColRadius, Factor: JupiterRadiusToSolar}, input: "~1", isNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mass, radius := "1", "1"
			if tt.conv.Column == models.ColMass {
				mass = tt.input
			} else {
				radius = tt.input
			}
			table := dwarfTable(t, [][]string{dwarfRow("X", mass, radius)})
			idx := table.ColumnIndex(tt.conv.Column)

			failed, err := ConvertColumn(table, tt.conv)
			if err != nil {
				t.Fatalf("ConvertColumn: %v", err)
			}
			cell := table.Rows[0][idx]
			if tt.isNull {
				if !cell.IsNull() || failed != 1 {
					t.Fatalf("cell=%v failed=%d, want null and 1 failure", cell, failed)
				}
				return
			}
			got, ok := cell.Number()
			if !ok {
				t.Fatalf("cell kind=%s, want number", cell.Kind())
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("converted=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertColumnMissing(t *testing.T) {
	table := &models.Table{Name: "bare", Columns: []string{"A"}}
	if _, err := ConvertColumn(table, UnitConversion{Column: models.ColMass, Factor: 1}); !errors.Is(err, models.ErrColumnNotFound) {
		t.Fatalf("err=%v, want ErrColumnNotFound", err)
	}
}

func TestReplaceSentinel(t *testing.T) {
	table := dwarfTable(t, [][]string{
		dwarfRow("A", "n/a", "n/a"),
		dwarfRow("B", "N/A", "1"),
	})
	if got := ReplaceSentinel(table, MissingSentinel); got != 2 {
		t.Fatalf("replaced=%d, want 2", got)
	}
	massIdx := table.ColumnIndex(models.ColMass)
	if table.Rows[1][massIdx].IsNull() {
		t.Fatal("sentinel match must be exact and case-sensitive")
	}
}

func TestCleanBrownDwarfs(t *testing.T) {
	original := dwarfTable(t, [][]string{
		{"WD 0137", "Leo", "...", "...", "...", "...", "L8", "n/a", "0.08", "2004"},
		dwarfRow("Teide 1", "55", "n/a"),
		dwarfRow("Gliese 229 B", "10", "1"),
		{"Short", "Ori", "05h"},
		dwarfRow("Range", "30–40", "1"),
		dwarfRow("Luhman 16 A", "34.2", "0.85"),
		{"Other n/a", "n/a", "", "", "", "", "", "12", "1", "2020"},
	})
	before := original.Len()
	cleaned := original.Clone(DatasetCleanedBrownDwarfs)

	stats, err := CleanBrownDwarfs(cleaned)
	if err != nil {
		t.Fatalf("CleanBrownDwarfs: %v", err)
	}

	if original.Len() != before {
		t.Fatalf("original table modified: len=%d, want %d", original.Len(), before)
	}
	if cleaned.Len() != 2 {
		t.Fatalf("cleaned rows=%d, want 2", cleaned.Len())
	}
	if stats.SentinelCells != 3 {
		t.Fatalf("sentinel cells=%d, want 3", stats.SentinelCells)
	}
	if stats.DroppedIncomplete != 4 || stats.DroppedUnparsable != 1 || stats.Dropped() != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	nameIdx := cleaned.ColumnIndex(models.ColBrownDwarf)
	massIdx := cleaned.ColumnIndex(models.ColMass)
	radiusIdx := cleaned.ColumnIndex(models.ColRadius)
	for _, row := range cleaned.Rows {
		if row[nameIdx].String() == "WD 0137" {
			t.Fatal("row with n/a mass survived cleaning")
		}
		for _, idx := range []int{massIdx, radiusIdx} {
			v, ok := row[idx].Number()
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("row %v: column %d is not a finite number", row, idx)
			}
		}
	}
	if got := cleaned.Rows[0][nameIdx].String(); got != "Gliese 229 B" {
		t.Fatalf("first surviving row=%q, want source order kept", got)
	}
}

func TestCleanBrownDwarfsMissingColumn(t *testing.T) {
	table := &models.Table{
		Name:    "partial",
		Columns: []string{models.ColBrownDwarf, models.ColMass},
		Rows:    [][]models.Cell{{models.TextCell("A"), models.TextCell("n/a")}},
	}
	if _, err := CleanBrownDwarfs(table); !errors.Is(err, models.ErrColumnNotFound) {
		t.Fatalf("err=%v, want ErrColumnNotFound", err)
	}
	if table.Rows[0][1].IsNull() {
		t.Fatal("table modified before column check")
	}
}

func TestHasNull(t *testing.T) {
	if HasNull([]models.Cell{models.TextCell(""), models.IntCell(0)}) {
		t.Fatal("empty text is not null")
	}
	if !HasNull([]models.Cell{models.TextCell("a"), models.NullCell()}) {
		t.Fatal("expected null detected")
	}
}
