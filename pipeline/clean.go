package pipeline

import (
	"github.com/aluiziolira/go-scrape-stars/models"
	"github.com/aluiziolira/go-scrape-stars/parser"
)

// MissingSentinel is the literal the source tables use for absent data.
const MissingSentinel = "n/a"

// Jupiter to Solar unit factors.
const (
	JupiterMassToSolar   = 0.000954588
	JupiterRadiusToSolar = 0.102763
)

// UnitConversion rewrites one column as a number multiplied by Factor.
type UnitConversion struct {
	Column string
	Factor float64
}

// BrownDwarfConversions returns the mass and radius conversions, in the order
// they are applied.
func BrownDwarfConversions() []UnitConversion {
	return []UnitConversion{
		{Column: models.ColMass, Factor: JupiterMassToSolar},
		{Column: models.ColRadius, Factor: JupiterRadiusToSolar},
	}
}

// HasNull reports whether any cell of the row is null. Every column counts,
// not only the converted ones.
func HasNull(row []models.Cell) bool {
	for _, cell := range row {
		if cell.IsNull() {
			return true
		}
	}
	return false
}

// DropIncomplete removes every row for which HasNull holds.
func DropIncomplete(t *models.Table) int {
	return t.Filter(func(row []models.Cell) bool {
		return !HasNull(row)
	})
}

// ReplaceSentinel nulls every text cell exactly equal to sentinel.
func ReplaceSentinel(t *models.Table, sentinel string) int {
	replaced := 0
	for _, row := range t.Rows {
		for j, cell := range row {
			if cell.Kind() == models.KindText && cell.String() == sentinel {
				row[j] = models.NullCell()
				replaced++
			}
		}
	}
	return replaced
}

// ConvertColumn parses conv.Column as a number and scales it in place.
// Unparsable cells become null; the count of such cells is returned.
func ConvertColumn(t *models.Table, conv UnitConversion) (int, error) {
	idx, err := t.MustColumn(conv.Column)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, row := range t.Rows {
		cell := row[idx]
		var value float64
		var ok bool
		switch cell.Kind() {
		case models.KindText:
			value, ok = parser.ParseNumber(cell.String())
		case models.KindInt, models.KindFloat:
			value, ok = cell.Number()
		}
		if !ok {
			if !cell.IsNull() {
				failed++
			}
			row[idx] = models.NullCell()
			continue
		}
		row[idx] = models.FloatCell(value * conv.Factor)
	}
	return failed, nil
}

// CleanBrownDwarfs nulls the sentinel, drops incomplete rows, converts mass
// and radius to solar units and drops the rows whose conversion failed.
func CleanBrownDwarfs(t *models.Table) (models.CleanStats, error) {
	var stats models.CleanStats
	conversions := BrownDwarfConversions()
	for _, conv := range conversions {
		if _, err := t.MustColumn(conv.Column); err != nil {
			return stats, err
		}
	}

	stats.SentinelCells = ReplaceSentinel(t, MissingSentinel)
	stats.DroppedIncomplete = DropIncomplete(t)
	for _, conv := range conversions {
		if _, err := ConvertColumn(t, conv); err != nil {
			return stats, err
		}
	}
	stats.DroppedUnparsable = DropIncomplete(t)
	return stats, nil
}
