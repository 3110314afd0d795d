package ingest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// HTMLSource implements SectionSource over an already-fetched disclosure
// page. Driving the browser and waiting for readiness stay outside the
// core; this only walks the rendered markup.
type HTMLSource struct {
	doc *goquery.Document
}

// NewHTMLSource parses a full company page.
func NewHTMLSource(html string) (*HTMLSource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page html: %w", err)
	}
	return &HTMLSource{doc: doc}, nil
}

// ResolveSection collects every table under section#<name>. Cell texts are
// trimmed but otherwise untouched; sanitizing happens downstream.
func (s *HTMLSource) ResolveSection(name string) []RawTable {
	var tables []RawTable
	s.doc.Find("section#" + name + " table").Each(func(_ int, tbl *goquery.Selection) {
		var rt RawTable
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			if len(row) > 0 {
				rt = append(rt, row)
			}
		})
		if len(rt) > 0 {
			tables = append(tables, rt)
		}
	})
	return tables
}

// SectionText returns the visible text of a summary block, one fragment
// per line. The top-ratios block lives in the company header rather than
// in a named section, with a positional list as fallback.
func (s *HTMLSource) SectionText(name string) string {
	var sel *goquery.Selection
	if name == SectionTopRatios {
		sel = s.doc.Find("#top .company-ratios")
		if sel.Length() == 0 {
			sel = s.doc.Find("#top-ratios")
		}
	} else {
		sel = s.doc.Find("section#" + name)
	}
	return strings.Join(textLines(sel), "\n")
}

// ChartMedianPE reads the median P/E from the chart legend when the page
// includes one. Legend entries look like "Median PE = 24.3".
func (s *HTMLSource) ChartMedianPE() *decimal.Decimal {
	var median *decimal.Decimal
	s.doc.Find("#chart-legend label").EachWithBreak(func(_ int, label *goquery.Selection) bool {
		text := strings.ToLower(label.Text())
		if strings.Contains(text, "median") && strings.Contains(text, "pe") {
			median = FirstNumber(label.Text())
			return false
		}
		return true
	})
	return median
}

// textLines flattens a selection into the trimmed text of its leaf
// elements, preserving document order. This mirrors how the block reads
// when rendered: each label and each value on its own line.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	sel.Find("*").Each(func(_ int, node *goquery.Selection) {
		if node.Children().Length() > 0 {
			return
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return lines
}

// TableSource implements SectionSource over pre-resolved tables, for
// callers that already extracted the sections (and for tests).
type TableSource struct {
	Sections map[string][]RawTable
	Text     map[string]string
	MedianPE *decimal.Decimal
}

func (s *TableSource) ResolveSection(name string) []RawTable {
	return s.Sections[name]
}

func (s *TableSource) SectionText(name string) string {
	return s.Text[name]
}

func (s *TableSource) ChartMedianPE() *decimal.Decimal {
	return s.MedianPE
}
