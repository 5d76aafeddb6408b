package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowHeight(t *testing.T) {
	assert.Equal(t, RowBaseHeight, RowHeight("Cement bags"))
	assert.Equal(t, RowBaseHeight, RowHeight(""))

	// 100 characters wrap to 3 lines at 46 columns.
	long := strings.Repeat("x", 100)
	assert.Equal(t, RowBaseHeight+2*RowLineHeight, RowHeight(long))

	// Explicit newlines count as line breaks too.
	assert.Equal(t, RowBaseHeight+RowLineHeight, RowHeight("first\nsecond"))
}

func TestPaginateSingleItem(t *testing.T) {
	pages := Paginate([]string{"Cement bags"})

	assert.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 1, pages[0].TotalPages)
	assert.Equal(t, 0, pages[0].Start)
	assert.Equal(t, 1, pages[0].End)
	assert.True(t, pages[0].ShowTotals)
	assert.True(t, pages[0].ShowWords)
	assert.True(t, pages[0].ShowFooter)
}

func TestPaginateNoItems(t *testing.T) {
	pages := Paginate(nil)

	assert.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Start)
	assert.Equal(t, 0, pages[0].End)
	assert.True(t, pages[0].ShowFooter)
}

func TestPaginateRowsSpillToSecondPage(t *testing.T) {
	// 29 single-line rows fill the first page (29 x 7mm = 203mm of the
	// 205mm available); the 30th starts page two.
	descriptions := make([]string, 30)
	for i := range descriptions {
		descriptions[i] = "Item"
	}

	pages := Paginate(descriptions)

	assert.Len(t, pages, 2)

	assert.Equal(t, 0, pages[0].Start)
	assert.Equal(t, 29, pages[0].End)
	assert.False(t, pages[0].ShowTotals)
	assert.False(t, pages[0].ShowWords)
	assert.False(t, pages[0].ShowFooter)

	assert.Equal(t, 29, pages[1].Start)
	assert.Equal(t, 30, pages[1].End)
	assert.True(t, pages[1].ShowTotals)
	assert.True(t, pages[1].ShowWords)
	assert.True(t, pages[1].ShowFooter)

	for _, p := range pages {
		assert.Equal(t, 2, p.TotalPages)
	}
}

func TestPaginateTrailingBlocksSplit(t *testing.T) {
	// 22 rows leave 51mm: the totals block (42mm) still fits on page one,
	// words and footer move to page two.
	descriptions := make([]string, 22)
	for i := range descriptions {
		descriptions[i] = "Item"
	}

	pages := Paginate(descriptions)

	assert.Len(t, pages, 2)

	assert.True(t, pages[0].ShowTotals)
	assert.False(t, pages[0].ShowWords)
	assert.False(t, pages[0].ShowFooter)

	// The overflow page carries no item rows.
	assert.Equal(t, pages[1].Start, pages[1].End)
	assert.False(t, pages[1].ShowTotals)
	assert.True(t, pages[1].ShowWords)
	assert.True(t, pages[1].ShowFooter)
}

func TestPaginateTrailingBlocksMoveTogether(t *testing.T) {
	// 25 rows leave 30mm: nothing trailing fits, so totals, words and
	// footer all land on a trailing-blocks-only second page.
	descriptions := make([]string, 25)
	for i := range descriptions {
		descriptions[i] = "Item"
	}

	pages := Paginate(descriptions)

	assert.Len(t, pages, 2)
	assert.False(t, pages[0].ShowTotals)
	assert.Equal(t, 25, pages[1].Start)
	assert.Equal(t, 25, pages[1].End)
	assert.True(t, pages[1].ShowTotals)
	assert.True(t, pages[1].ShowWords)
	assert.True(t, pages[1].ShowFooter)
}

func TestPaginateRangesPartitionItems(t *testing.T) {
	descriptions := make([]string, 75)
	for i := range descriptions {
		descriptions[i] = strings.Repeat("long description ", 5)
	}

	pages := Paginate(descriptions)

	next := 0
	for _, p := range pages {
		assert.Equal(t, next, p.Start)
		assert.GreaterOrEqual(t, p.End, p.Start)
		next = p.End
	}
	assert.Equal(t, len(descriptions), next)
	assert.True(t, pages[len(pages)-1].ShowFooter)
}
