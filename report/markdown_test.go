package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-stars/models"
	"github.com/aluiziolira/go-scrape-stars/parser"
)

func TestWriteRunSummary(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	result := &models.RunResult{
		RunID:     "run-42",
		StartTime: start,
		EndTime:   start.Add(1500 * time.Millisecond),
		Datasets: []models.DatasetResult{
			{Name: "brightest_stars", Rows: 5, Files: []string{"out/brightest_stars_data.csv"}},
			{Name: "merged_stars", Rows: 5, Files: []string{"out/merged_stars_data.csv", "out/merged_stars_data.jsonl"}},
		},
		Cleaning:     models.CleanStats{SentinelCells: 3, DroppedIncomplete: 2, DroppedUnparsable: 1},
		BrownDwarfs:  []models.BrownDwarfRecord{{Name: "Gliese 229 B", SpectralType: "T7", Mass: 0.00954588, Radius: 0.102763, DiscoveryYear: "1994"}},
		RequestCount: 2,
	}

	var buf bytes.Buffer
	if err := WriteRunSummary(&buf, result); err != nil {
		t.Fatalf("WriteRunSummary: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Star Scrape Report",
		"`run-42`",
		"1.5s",
		"merged_stars",
		"`out/merged_stars_data.jsonl`",
		"**3**",
		"mermaid",
		"Gliese 229 B",
		"0.00954588",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestWriteRunSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunSummary(&buf, &models.RunResult{RunID: "empty"}); err != nil {
		t.Fatalf("WriteRunSummary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No datasets were exported.") {
		t.Errorf("missing empty datasets text:\n%s", out)
	}
	if !strings.Contains(out, "No brown-dwarf rows were dropped.") {
		t.Errorf("missing no-drop note:\n%s", out)
	}
	if strings.Contains(out, "mermaid") {
		t.Errorf("chart rendered without drops:\n%s", out)
	}
}

func TestWriteTableList(t *testing.T) {
	tables := []parser.TableInfo{
		{Index: 0, ClassIndex: -1, Classes: "infobox", Rows: 3},
		{Index: 1, ClassIndex: 0, Classes: "wikitable sortable", Caption: "Brown dwarfs", Rows: 12, Header: []string{"Name", "Mass"}},
	}

	var buf bytes.Buffer
	if err := WriteTableList(&buf, "https://example.test/dwarfs", tables); err != nil {
		t.Fatalf("WriteTableList: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"https://example.test/dwarfs", "wikitable sortable", "Brown dwarfs", "Name, Mass"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q\n%s", want, out)
		}
	}
}

func TestWriteTableListEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTableList(&buf, "https://example.test/", nil); err != nil {
		t.Fatalf("WriteTableList: %v", err)
	}
	if !strings.Contains(buf.String(), "no tables") {
		t.Errorf("missing warning:\n%s", buf.String())
	}
}
