package charref

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RawRow is a table row before normalization.
// Name and Glyph are the markup of the code and glyph spans, escaped
// again after parsing. Only Glyph is decoded later; Name stays markup,
// so <code>&amp;</code> names the entity "&amp;".
type RawRow struct {
	Name  string
	Glyph string
}

// Rows scans table for rows shaped as
//
//	<td><code>NAME</code> <td>ignored <td><span ...>GLYPH</span>
//
// and yields them in document order. Rows of any other shape, including
// rows with extra markup inside the code or span, are skipped.
func Rows(table string) iter.Seq[RawRow] {
	return func(yield func(RawRow) bool) {
		// Reading from a strings.Reader cannot fail.
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(table))
		if err != nil {
			return
		}

		trs := doc.Find("tr")
		for i := range trs.Length() {
			row, ok := matchRow(trs.Eq(i))
			if !ok {
				continue
			}
			if !yield(row) {
				return
			}
		}
	}
}

func matchRow(tr *goquery.Selection) (RawRow, bool) {
	cells := tr.ChildrenFiltered("td")
	if cells.Length() < 3 {
		return RawRow{}, false
	}

	code := leadingElement(cells.Get(0), atom.Code)
	span := leadingElement(cells.Get(2), atom.Span)
	if code == nil || span == nil {
		return RawRow{}, false
	}

	return RawRow{
		Name:  html.EscapeString(textOf(code)),
		Glyph: html.EscapeString(textOf(span)),
	}, true
}

// leadingElement returns the first non-blank child of cell when it is an
// a-element holding nothing but text.
func leadingElement(cell *html.Node, a atom.Atom) *html.Node {
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.Type != html.ElementNode || c.DataAtom != a {
			return nil
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type != html.TextNode {
				return nil
			}
		}
		return c
	}
	return nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(c.Data)
	}
	return sb.String()
}
