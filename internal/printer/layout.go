// Package printer lays out an invoice across A4 pages and renders it to PDF.
//
// Pagination is fully deterministic: block heights come from fixed millimetre
// constants and a fixed description column width, never from a rendering
// engine, so the same invoice always splits the same way.
package printer

// A4 portrait metrics in millimetres.
const (
	PageHeight   = 297.0
	MarginTop    = 10.0
	MarginBottom = 12.0

	// Header (seller block, invoice meta, buyer block) and the table head
	// repeat on every page.
	HeaderHeight    = 62.0
	TableHeadHeight = 8.0

	// A row is one base line plus an increment per extra wrapped
	// description line.
	RowBaseHeight = 7.0
	RowLineHeight = 5.0

	// Trailing blocks, placed in order after the last row.
	TotalsHeight = 42.0
	WordsHeight  = 12.0
	FooterHeight = 28.0

	// DescColumns is how many characters fit on one description line at the
	// table font.
	DescColumns = 46
)

// usableHeight is the vertical space available for rows and trailing blocks
// on one page.
const usableHeight = PageHeight - MarginTop - MarginBottom - HeaderHeight - TableHeadHeight

// Page describes what lands on one printed page: the half-open item range
// [Start, End) and which trailing blocks the page carries.
type Page struct {
	Number     int  `json:"number"` // 1-based
	TotalPages int  `json:"total_pages"`
	Start      int  `json:"start"`
	End        int  `json:"end"`
	ShowTotals bool `json:"show_totals"`
	ShowWords  bool `json:"show_words"`
	ShowFooter bool `json:"show_footer"`
}

// wrappedLines counts how many lines text occupies at the given column width.
// Empty text still occupies one line.
func wrappedLines(text string, columns int) int {
	if columns <= 0 {
		return 1
	}
	lines := 1
	runes := 0
	for _, r := range text {
		if r == '\n' {
			lines++
			runes = 0
			continue
		}
		runes++
		if runes > columns {
			lines++
			runes = 1
		}
	}
	return lines
}

// RowHeight returns the printed height of one item row.
func RowHeight(description string) float64 {
	extra := wrappedLines(description, DescColumns) - 1
	return RowBaseHeight + float64(extra)*RowLineHeight
}

// Paginate assigns item rows and the three trailing blocks (totals, words,
// footer) to pages. Rows fill greedily; after the last row the totals block
// is attempted, then words, then footer — each only if the previous block was
// placed and still fits — and whatever overflows starts the next page.
func Paginate(descriptions []string) []Page {
	var pages []Page

	page := Page{Number: 1, Start: 0}
	remaining := usableHeight
	placedTotals, placedWords, placedFooter := false, false, false

	flush := func() {
		pages = append(pages, page)
		page = Page{Number: page.Number + 1, Start: page.End, End: page.End}
		remaining = usableHeight
	}

	for i, desc := range descriptions {
		h := RowHeight(desc)
		if h > remaining && page.End > page.Start {
			flush()
		}
		page.End = i + 1
		remaining -= h
	}

	for !placedFooter {
		if !placedTotals {
			if TotalsHeight <= remaining {
				page.ShowTotals = true
				placedTotals = true
				remaining -= TotalsHeight
			} else {
				flush()
				continue
			}
		}
		if !placedWords {
			if WordsHeight <= remaining {
				page.ShowWords = true
				placedWords = true
				remaining -= WordsHeight
			} else {
				flush()
				continue
			}
		}
		if FooterHeight <= remaining {
			page.ShowFooter = true
			placedFooter = true
		} else {
			flush()
		}
	}
	pages = append(pages, page)

	for i := range pages {
		pages[i].TotalPages = len(pages)
	}
	return pages
}
