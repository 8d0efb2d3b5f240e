package pipeline

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aluiziolira/go-scrape-stars/models"
)

// TableWriter serialises a table to one or more files.
type TableWriter interface {
	Write(t *models.Table) error
	Close() error
	Validate() error
	Paths() []string
}

// NewWriter returns the writer for an output format. csvPath is the primary
// file; dual output adds a JSON lines file next to it.
func NewWriter(format, csvPath string) (TableWriter, error) {
	switch format {
	case "csv":
		return NewCSVWriter(csvPath)
	case "dual":
		return NewDualWriter(csvPath, JSONPath(csvPath))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// JSONPath derives the JSON lines file name for a CSV file.
func JSONPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, ".csv") + ".jsonl"
}

// CSVWriter writes a table as comma-separated text with a header row. The
// target file is truncated on creation.
type CSVWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) filename.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	return &CSVWriter{
		path:   filename,
		file:   f,
		writer: csv.NewWriter(f),
	}, nil
}

// Write emits the header and every row of t.
func (cw *CSVWriter) Write(t *models.Table) error {
	if err := cw.writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range t.Records() {
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	return validateNonEmpty(cw.path, "csv")
}

// Paths returns the written file.
func (cw *CSVWriter) Paths() []string {
	return []string{cw.path}
}

// JSONWriter writes one JSON object per row, keys in column order.
type JSONWriter struct {
	path   string
	file   *os.File
	writer *bufio.Writer
}

// NewJSONWriter creates (or truncates) filename.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	return &JSONWriter{
		path:   filename,
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Write appends every row of t in JSONL format.
func (jw *JSONWriter) Write(t *models.Table) error {
	var line bytes.Buffer
	for _, row := range t.Rows {
		line.Reset()
		if err := encodeRow(&line, t.Columns, row); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
		if _, err := jw.writer.Write(line.Bytes()); err != nil {
			return fmt.Errorf("write json record: %w", err)
		}
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

func encodeRow(buf *bytes.Buffer, columns []string, row []models.Cell) error {
	buf.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return err
		}
		var value any
		if i < len(row) {
			value = row[i].Value()
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteString("}\n")
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	if err := jw.writer.Flush(); err != nil {
		jw.file.Close()
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate checks the file exists. A table without rows yields an empty file.
func (jw *JSONWriter) Validate() error {
	if _, err := os.Stat(jw.path); err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	return nil
}

// Paths returns the written file.
func (jw *JSONWriter) Paths() []string {
	return []string{jw.path}
}

func validateNonEmpty(path, label string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s file: %w", label, err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("%s file is empty", label)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
