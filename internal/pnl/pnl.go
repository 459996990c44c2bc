// Package pnl extracts Profit & Loss line items from financial PDFs.
//
// Annual reports bury the P&L anywhere in hundreds of pages, so extraction
// runs in two phases: pages are scored by weighted keyword matching, then
// each qualifying page goes through an ordered cascade of recovery
// strategies, from structured row recovery down to line-by-line regex.
package pnl

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ledongthuc/pdf"

	"github.com/shopspring/decimal"
)

// ErrNoPages means no page met the identification threshold. The PDF likely
// has no P&L statement, or an unrecognized layout.
var ErrNoPages = errors.New("no profit and loss pages identified")

// ErrNoItems means the qualifying pages yielded nothing under any strategy.
var ErrNoItems = errors.New("no profit and loss line items extracted")

// LineItem is a single row of a P&L statement. Amounts holds one entry per
// detected period column; an invalid entry is a nil/blank cell.
type LineItem struct {
	Label   string
	Amounts []decimal.NullDecimal
	NoteRef string
	// Indent is 0 for section headers, 1 for items, 2 for sub-items.
	Indent  int
	IsTotal bool
	Page    int
	RawText string
}

// PageMatch is a page that scored above the identification threshold.
type PageMatch struct {
	Page     int // 1-based
	Score    float64
	Keywords []string
}

// DefaultMinScore is the identification threshold.
const DefaultMinScore = 3.0

// Extractor finds and parses P&L pages. The zero value uses the default
// threshold and scans the whole document.
type Extractor struct {
	// MinScore overrides DefaultMinScore when positive.
	MinScore float64
	// FirstPage/LastPage restrict the scan (1-based, inclusive). Zero
	// means unrestricted.
	FirstPage int
	LastPage  int
}

func (e *Extractor) minScore() float64 {
	if e.MinScore > 0 {
		return e.MinScore
	}
	return DefaultMinScore
}

// IdentifyPages scans the PDF and returns qualifying pages sorted by score,
// highest first.
func (e *Extractor) IdentifyPages(path string) ([]PageMatch, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	return e.identify(r)
}

func (e *Extractor) identify(r *pdf.Reader) ([]PageMatch, error) {
	first, last := 1, r.NumPage()
	if e.FirstPage > 0 {
		first = e.FirstPage
	}
	if e.LastPage > 0 && e.LastPage < last {
		last = e.LastPage
	}

	var matches []PageMatch
	for n := first; n <= last; n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		score, matched := ScorePage(text)
		if score >= e.minScore() {
			matches = append(matches, PageMatch{Page: n, Score: score, Keywords: matched})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// Extract runs the full pipeline: identify pages, then recover line items
// from each. Both failure modes are hard errors, never silently empty
// output.
func (e *Extractor) Extract(path string) ([]LineItem, []PageMatch, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	matches, err := e.identify(r)
	if err != nil {
		return nil, nil, err
	}
	if len(matches) == 0 {
		return nil, nil, ErrNoPages
	}

	var items []LineItem
	for _, m := range matches {
		data := readPage(r.Page(m.Page))
		items = append(items, extractPage(data, m.Page)...)
	}
	if len(items) == 0 {
		pages := make([]int, len(matches))
		for i, m := range matches {
			pages[i] = m.Page
		}
		return nil, matches, fmt.Errorf("pages %v: %w", pages, ErrNoItems)
	}
	return items, matches, nil
}

// ExtractPage recovers line items from one page (1-based), bypassing
// identification.
func (e *Extractor) ExtractPage(path string, pageNum int) ([]LineItem, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	if pageNum < 1 || pageNum > r.NumPage() {
		return nil, fmt.Errorf("page %d out of range (pdf has %d pages)", pageNum, r.NumPage())
	}
	items := extractPage(readPage(r.Page(pageNum)), pageNum)
	if len(items) == 0 {
		return nil, fmt.Errorf("page %d: %w", pageNum, ErrNoItems)
	}
	return items, nil
}
