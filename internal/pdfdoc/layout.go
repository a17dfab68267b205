package pdfdoc

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// cellSeparator joins cells in page text so that column breaks survive as
// runs of two or more spaces
const cellSeparator = "  "

// textItem is one positioned glyph or string
type textItem struct {
	S string
	X float64
	Y float64
	W float64
}

// layout tunes row splitting
type layout struct {
	minColumns int
	cellGap    float64
	charWidth  float64
}

// width uses the reported width when there is one and estimates it otherwise
func (l layout) width(it textItem) float64 {
	if it.W > 0 {
		return it.W
	}
	return float64(utf8.RuneCountInString(it.S)) * l.charWidth
}

// groupRows puts items sharing a rounded baseline on one row, keeping
// content-stream order within the row, and returns the rows top to bottom
// (PDF y grows upwards)
func groupRows(items []textItem) [][]textItem {
	index := make(map[float64]int)
	var baselines []float64
	var rows [][]textItem

	for _, it := range items {
		y := math.Round(it.Y)
		i, ok := index[y]
		if !ok {
			i = len(rows)
			index[y] = i
			baselines = append(baselines, y)
			rows = append(rows, nil)
		}
		rows[i] = append(rows[i], it)
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return baselines[order[a]] > baselines[order[b]] })

	sorted := make([][]textItem, len(rows))
	for i, j := range order {
		sorted[i] = rows[j]
	}
	return sorted
}

// splitCells groups the items of one row into cells. A horizontal gap wider
// than cellGap starts a new cell; smaller gaps become at most one space.
func (l layout) splitCells(items []textItem) []string {
	sorted := make([]textItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []string
	var cur strings.Builder
	end := 0.0

	flush := func() {
		if text := strings.Join(strings.Fields(cur.String()), " "); text != "" {
			cells = append(cells, text)
		}
		cur.Reset()
	}

	for i, it := range sorted {
		if i > 0 {
			gap := it.X - end
			switch {
			case gap > l.cellGap:
				flush()
			case gap > l.charWidth/2:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(it.S)
		if e := it.X + l.width(it); e > end || i == 0 {
			end = e
		}
	}
	flush()

	return cells
}

// pageLayout turns the rows of a page, top to bottom, into page text and the
// most likely table: the longest run of consecutive rows having at least
// minColumns cells. A table needs a header and one data row.
func (l layout) pageLayout(rows [][]textItem) (string, [][]string) {
	lines := make([]string, 0, len(rows))
	var best, run [][]string

	for _, row := range rows {
		cells := l.splitCells(row)
		if len(cells) == 0 {
			continue
		}
		lines = append(lines, strings.Join(cells, cellSeparator))

		if len(cells) >= l.minColumns {
			run = append(run, cells)
			continue
		}
		if len(run) > len(best) {
			best = run
		}
		run = nil
	}
	if len(run) > len(best) {
		best = run
	}

	if len(best) < 2 {
		best = nil
	}
	return strings.Join(lines, "\n"), best
}
