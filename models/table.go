package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrRowTooWide is returned when a record has more fields than the header.
	ErrRowTooWide = errors.New("models: row wider than header")
	// ErrColumnNotFound is returned when a named column is missing.
	ErrColumnNotFound = errors.New("models: column not found")
)

// Kind identifies the type of value held by a Cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Cell is a single table value. The zero Cell is null.
type Cell struct {
	kind Kind
	text string
	i    int64
	f    float64
}

// NullCell returns the missing-value marker.
func NullCell() Cell { return Cell{} }

// TextCell wraps a string value. Empty strings stay text.
func TextCell(s string) Cell { return Cell{kind: KindText, text: s} }

// IntCell wraps an integer value.
func IntCell(i int64) Cell { return Cell{kind: KindInt, i: i} }

// FloatCell wraps a float value. NaN and infinities collapse to null.
func FloatCell(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NullCell()
	}
	return Cell{kind: KindFloat, f: f}
}

// Kind reports the value type.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell carries no value.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Number returns the numeric value of int and float cells.
func (c Cell) Number() (float64, bool) {
	switch c.kind {
	case KindInt:
		return float64(c.i), true
	case KindFloat:
		return c.f, true
	default:
		return 0, false
	}
}

// Int returns the value of an int cell.
func (c Cell) Int() (int64, bool) {
	if c.kind != KindInt {
		return 0, false
	}
	return c.i, true
}

// Value returns the cell as a plain Go value: nil, string, int64 or float64.
func (c Cell) Value() any {
	switch c.kind {
	case KindText:
		return c.text
	case KindInt:
		return c.i
	case KindFloat:
		return c.f
	default:
		return nil
	}
}

// String renders the cell the way it is written to delimited files.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return FormatFloat(c.f)
	default:
		return ""
	}
}

// FormatFloat renders f as the shortest string that round-trips, always
// carrying a decimal point or an exponent. Exponent form is used when the
// decimal exponent is below -4 or at least 16.
func FormatFloat(f float64) string {
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mark := strings.LastIndexByte(sci, 'e')
	exp, err := strconv.Atoi(sci[mark+1:])
	if err != nil {
		return sci
	}
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	plain := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(plain, '.') {
		plain += ".0"
	}
	return plain
}

// Table is an ordered sequence of rows sharing one column header. Rows carry
// no key; their position is their only identity.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// BuildTable labels extracted records with a fixed header. Records shorter
// than the header are padded with null cells; wider records are rejected.
func BuildTable(name string, columns []string, records [][]string) (*Table, error) {
	t := &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
		Rows:    make([][]Cell, 0, len(records)),
	}
	for i, record := range records {
		if len(record) > len(columns) {
			return nil, fmt.Errorf("%w: %s row %d has %d fields, header has %d", ErrRowTooWide, name, i, len(record), len(columns))
		}
		row := make([]Cell, len(columns))
		for j, field := range record {
			row[j] = TextCell(field)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// MustColumn is ColumnIndex with ErrColumnNotFound on a miss.
func (t *Table) MustColumn(name string) (int, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q in %s", ErrColumnNotFound, name, t.Name)
	}
	return idx, nil
}

// RenameColumns renames columns in place. Names absent from the table are
// ignored.
func (t *Table) RenameColumns(renames map[string]string) {
	for i, col := range t.Columns {
		if to, ok := renames[col]; ok {
			t.Columns[i] = to
		}
	}
}

// Clone returns a deep copy under the given name.
func (t *Table) Clone(name string) *Table {
	out := &Table{
		Name:    name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// Filter keeps the rows for which keep returns true and reports how many were
// removed.
func (t *Table) Filter(keep func(row []Cell) bool) int {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	removed := len(t.Rows) - len(kept)
	for i := len(kept); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = kept
	return removed
}

// Records renders every row as strings.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		record := make([]string, len(row))
		for j, cell := range row {
			record[j] = cell.String()
		}
		out[i] = record
	}
	return out
}
