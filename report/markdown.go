// Package report renders run summaries and table listings as Markdown.
package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/aluiziolira/go-scrape-stars/models"
	"github.com/aluiziolira/go-scrape-stars/parser"
)

// WriteRunSummary writes the outcome of a run: exported datasets, cleaning
// counts and the cleaned brown dwarfs in solar units.
func WriteRunSummary(w io.Writer, result *models.RunResult) error {
	md := markdown.NewMarkdown(w)

	md.H1("Star Scrape Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + result.RunID + "`"},
			{"Started", result.StartTime.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration().Round(time.Millisecond).String()},
			{"HTTP Requests", strconv.Itoa(result.RequestCount)},
		},
	})
	md.PlainText("")

	writeDatasets(md, result)
	writeCleaning(md, result.Cleaning)
	writeBrownDwarfs(md, result.BrownDwarfs)

	return md.Build()
}

func writeDatasets(md *markdown.Markdown, result *models.RunResult) {
	md.H2("Datasets")
	md.PlainText("")

	if len(result.Datasets) == 0 {
		md.PlainText("No datasets were exported.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(result.Datasets))
	for _, ds := range result.Datasets {
		files := make([]string, len(ds.Files))
		for i, f := range ds.Files {
			files[i] = "`" + f + "`"
		}
		rows = append(rows, []string{ds.Name, strconv.Itoa(ds.Rows), strings.Join(files, ", ")})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Dataset", "Rows", "Files"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeCleaning(md *markdown.Markdown, stats models.CleanStats) {
	md.H2("Cleaning")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Step", "Count"},
		Rows: [][]string{
			{"Sentinel cells nulled", strconv.Itoa(stats.SentinelCells)},
			{"Rows dropped (incomplete)", strconv.Itoa(stats.DroppedIncomplete)},
			{"Rows dropped (unparsable mass or radius)", strconv.Itoa(stats.DroppedUnparsable)},
			{"**Total dropped**", "**" + strconv.Itoa(stats.Dropped()) + "**"},
		},
	})
	md.PlainText("")

	if stats.Dropped() == 0 {
		md.Note("No brown-dwarf rows were dropped.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Dropped Rows"),
		piechart.WithShowData(true),
	)
	if stats.DroppedIncomplete > 0 {
		chart.LabelAndIntValue("Incomplete", uint64(stats.DroppedIncomplete))
	}
	if stats.DroppedUnparsable > 0 {
		chart.LabelAndIntValue("Unparsable", uint64(stats.DroppedUnparsable))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeBrownDwarfs(md *markdown.Markdown, dwarfs []models.BrownDwarfRecord) {
	md.H2("Brown Dwarfs")
	md.PlainText("")

	if len(dwarfs) == 0 {
		md.PlainText("No brown dwarfs survived cleaning.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(dwarfs))
	for _, d := range dwarfs {
		rows = append(rows, []string{
			d.Name,
			d.SpectralType,
			models.FormatFloat(d.Mass),
			models.FormatFloat(d.Radius),
			d.DiscoveryYear,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Spectral Type", "Mass (M☉)", "Radius (R☉)", "Discovered"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteTableList writes every table found on a page, marking the ones the
// selector matched with their selector index.
func WriteTableList(w io.Writer, url string, tables []parser.TableInfo) error {
	md := markdown.NewMarkdown(w)

	md.H1("Tables")
	md.PlainText("")
	md.PlainTextf("Source: `%s`", url)
	md.PlainText("")

	if len(tables) == 0 {
		md.Warningf("The page contains no tables.")
		return md.Build()
	}

	rows := make([][]string, 0, len(tables))
	for _, info := range tables {
		index := "-"
		if info.ClassIndex >= 0 {
			index = strconv.Itoa(info.ClassIndex)
		}
		rows = append(rows, []string{
			strconv.Itoa(info.Index),
			index,
			info.Classes,
			info.Caption,
			strconv.Itoa(info.Rows),
			strings.Join(info.Header, ", "),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Match", "Class", "Caption", "Rows", "Header"},
		Rows:   rows,
	})
	return md.Build()
}
