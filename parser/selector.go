package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrTableNotFound is returned when a selector matches fewer tables than its
// index requires.
var ErrTableNotFound = errors.New("parser: table not found")

// Selector picks one <table> from a document. Tables are filtered by class
// list and caption, then the Index-th survivor (document order) is chosen.
//
// By default every class in Class must be present on the table. With
// ExactClass the table's class attribute must equal Class, compared after
// collapsing whitespace.
type Selector struct {
	Class      string
	ExactClass bool
	Index      int
	Caption    string
}

func (s Selector) String() string {
	var b strings.Builder
	b.WriteString("table")
	if s.ExactClass && s.Class != "" {
		fmt.Fprintf(&b, "[class=%q]", normalizeClass(s.Class))
	} else {
		for _, class := range strings.Fields(s.Class) {
			b.WriteByte('.')
			b.WriteString(class)
		}
	}
	if s.Caption != "" {
		fmt.Fprintf(&b, "[caption~=%q]", s.Caption)
	}
	fmt.Fprintf(&b, "[%d]", s.Index)
	return b.String()
}

// Match returns every table satisfying the class and caption filters.
func (s Selector) Match(doc *goquery.Document) *goquery.Selection {
	classes := strings.Fields(s.Class)
	exact := strings.Join(classes, " ")
	caption := strings.ToLower(strings.TrimSpace(s.Caption))

	return doc.Find("table").FilterFunction(func(_ int, table *goquery.Selection) bool {
		if s.ExactClass && exact != "" {
			attr, _ := table.Attr("class")
			if normalizeClass(attr) != exact {
				return false
			}
		}
		for _, class := range classes {
			if !table.HasClass(class) {
				return false
			}
		}
		if caption != "" {
			text := strings.ToLower(tableCaption(table))
			if !strings.Contains(text, caption) {
				return false
			}
		}
		return true
	})
}

// Locate returns the selected table.
func (s Selector) Locate(doc *goquery.Document) (*goquery.Selection, error) {
	if s.Index < 0 {
		return nil, fmt.Errorf("%w: %s has a negative index", ErrTableNotFound, s)
	}
	matches := s.Match(doc)
	if s.Index >= matches.Length() {
		return nil, fmt.Errorf("%w: %s matched %d of %d table(s) on the page",
			ErrTableNotFound, s, matches.Length(), doc.Find("table").Length())
	}
	return matches.Eq(s.Index), nil
}

func normalizeClass(class string) string {
	return strings.Join(strings.Fields(class), " ")
}

func tableCaption(table *goquery.Selection) string {
	return strings.TrimSpace(table.ChildrenFiltered("caption").First().Text())
}
