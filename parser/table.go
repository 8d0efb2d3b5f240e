package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-stars/models"
)

// ErrShortRow is returned when a fixed-width row has fewer cells than needed.
var ErrShortRow = errors.New("parser: row has too few cells")

// ExtractRows returns the <td> texts of every row after the first. Rows are
// not checked against any expected width.
func ExtractRows(table *goquery.Selection, mode TextMode) [][]string {
	rows := table.Find("tr")
	if rows.Length() <= 1 {
		return [][]string{}
	}

	out := make([][]string, 0, rows.Length()-1)
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		fields := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			fields = append(fields, cellText(cell, mode))
		})
		out = append(out, fields)
	})
	return out
}

// ExtractStars reads the first five cells of every data row as a star record.
// A row with fewer than five cells aborts the extraction.
func ExtractStars(table *goquery.Selection) ([]models.StarRecord, error) {
	const width = 5

	rows := ExtractRows(table, TextTrim)
	stars := make([]models.StarRecord, 0, len(rows))
	for i, fields := range rows {
		if len(fields) < width {
			return nil, fmt.Errorf("%w: row %d has %d cell(s), need %d", ErrShortRow, i+1, len(fields), width)
		}
		stars = append(stars, models.StarRecord{
			VisualMagnitude:  fields[0],
			ProperName:       fields[1],
			BayerDesignation: fields[2],
			DistanceLY:       fields[3],
			SpectralClass:    fields[4],
		})
	}
	return stars, nil
}

// TableInfo summarises one <table> of a page.
type TableInfo struct {
	// Index is the position among all tables of the page.
	Index int
	// ClassIndex is the position among tables matched by the listing
	// selector, -1 when unmatched.
	ClassIndex int
	Classes    string
	Caption    string
	Rows       int
	Header     []string
}

// ListTables describes every table of the document. ClassIndex is relative
// to sel's class and caption filters.
func ListTables(doc *goquery.Document, sel Selector) []TableInfo {
	matched := sel.Match(doc)
	infos := make([]TableInfo, 0, doc.Find("table").Length())
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		info := TableInfo{
			Index:      i,
			ClassIndex: matched.IndexOfSelection(table),
			Classes:    strings.Join(strings.Fields(table.AttrOr("class", "")), " "),
			Caption:    tableCaption(table),
			Rows:       table.Find("tr").Length(),
		}
		table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			info.Header = append(info.Header, cellText(cell, TextStripFragments))
		})
		infos = append(infos, info)
	})
	return infos
}
