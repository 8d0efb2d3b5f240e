package pipeline

import (
	"github.com/aluiziolira/go-scrape-stars/models"
)

// Concat places right next to left by row position. The result has as many
// rows as the longer input; the shorter side is padded with nulls. Int
// columns that receive padding become float columns.
func Concat(name string, left, right *models.Table) *models.Table {
	n := max(left.Len(), right.Len())
	out := &models.Table{
		Name:    name,
		Columns: append(append([]string{}, left.Columns...), right.Columns...),
		Rows:    make([][]models.Cell, n),
	}
	for i := 0; i < n; i++ {
		row := make([]models.Cell, 0, len(out.Columns))
		row = appendRow(row, left, i)
		row = appendRow(row, right, i)
		out.Rows[i] = row
	}
	promotePaddedInts(out)
	return out
}

func appendRow(dst []models.Cell, t *models.Table, i int) []models.Cell {
	if i < t.Len() {
		return append(dst, t.Rows[i]...)
	}
	for range t.Columns {
		dst = append(dst, models.NullCell())
	}
	return dst
}

func promotePaddedInts(t *models.Table) {
	for j := range t.Columns {
		if !intColumnWithNulls(t, j) {
			continue
		}
		for _, row := range t.Rows {
			if v, ok := row[j].Int(); ok {
				row[j] = models.FloatCell(float64(v))
			}
		}
	}
}

func intColumnWithNulls(t *models.Table, j int) bool {
	hasNull, hasInt := false, false
	for _, row := range t.Rows {
		switch row[j].Kind() {
		case models.KindNull:
			hasNull = true
		case models.KindInt:
			hasInt = true
		default:
			return false
		}
	}
	return hasNull && hasInt
}

// MergeDatasets qualifies both distance columns and concatenates the stars
// and brown-dwarfs tables side by side. Inputs are left untouched.
func MergeDatasets(name string, stars, dwarfs *models.Table) *models.Table {
	left := stars.Clone(stars.Name)
	left.RenameColumns(map[string]string{models.ColDistance: models.ColStarsDistance})
	right := dwarfs.Clone(dwarfs.Name)
	right.RenameColumns(map[string]string{models.ColDistance: models.ColBrownDwarfDistance})
	return Concat(name, left, right)
}
