package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/aluiziolira/go-scrape-stars/models"
	"github.com/aluiziolira/go-scrape-stars/parser"
)

// naTokens are read back as null.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a field reads back as null.
func IsNA(field string) bool {
	_, ok := naTokens[field]
	return ok
}

// ReadCSV loads an exported file. Column types are not stored in the file,
// so they are inferred again by InferTable.
func ReadCSV(path, name string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv %s: no header", path)
	}
	return InferTable(name, records[0], records[1:]), nil
}

// InferTable types every column of raw records. A column is int when every
// field parses as an integer and none is NA, float when every non-NA field
// parses as a number, and text otherwise.
func InferTable(name string, header []string, records [][]string) *models.Table {
	t := &models.Table{
		Name:    name,
		Columns: append([]string(nil), header...),
		Rows:    make([][]models.Cell, len(records)),
	}
	for i := range records {
		t.Rows[i] = make([]models.Cell, len(header))
	}

	for j := range header {
		kind := inferColumn(records, j)
		for i, record := range records {
			t.Rows[i][j] = typedCell(record[j], kind)
		}
	}
	return t
}

func inferColumn(records [][]string, j int) models.Kind {
	allInt, allFloat, hasNA := true, true, false
	for _, record := range records {
		field := record[j]
		if IsNA(field) {
			hasNA = true
			continue
		}
		if _, ok := parser.ParseInteger(field); !ok {
			allInt = false
		}
		if _, ok := parser.ParseNumber(field); !ok {
			allFloat = false
		}
		if !allInt && !allFloat {
			return models.KindText
		}
	}
	if allInt && !hasNA {
		return models.KindInt
	}
	return models.KindFloat
}

func typedCell(field string, kind models.Kind) models.Cell {
	if IsNA(field) {
		return models.NullCell()
	}
	switch kind {
	case models.KindInt:
		n, _ := parser.ParseInteger(field)
		return models.IntCell(n)
	case models.KindFloat:
		f, _ := parser.ParseNumber(field)
		return models.FloatCell(f)
	default:
		return models.TextCell(field)
	}
}
