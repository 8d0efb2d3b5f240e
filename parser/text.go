package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TextMode controls how a cell's descendant text becomes one field.
type TextMode int

const (
	// TextTrim concatenates all descendant text, then trims the result.
	TextTrim TextMode = iota
	// TextStripFragments trims every text fragment, drops empty ones and
	// joins the rest with no separator.
	TextStripFragments
)

// cellText collects the visible text of a cell. Text inside <style>,
// <script> and <template> elements is not part of the value.
func cellText(cell *goquery.Selection, mode TextMode) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if mode == TextStripFragments {
				b.WriteString(strings.TrimSpace(n.Data))
			} else {
				b.WriteString(n.Data)
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Style, atom.Script, atom.Template:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range cell.Nodes {
		walk(n)
	}
	if mode == TextTrim {
		return strings.TrimSpace(b.String())
	}
	return b.String()
}
