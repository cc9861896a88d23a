package rowparse

import (
	"sort"
	"strings"

	"labmark/internal/domain"
)

// spatialRows rebuilds result lines from positioned text fragments when the
// text layer's reading order is scrambled. Items sharing a page and baseline
// are sorted by x and joined with column gaps. Noisier than the text
// strategies, so it runs only as a rescue path and at lower confidence.
type spatialRows struct{}

func (spatialRows) Name() string { return "spatial-xy" }

func (spatialRows) Parse(in Input) []domain.ParsedRow {
	var out []domain.ParsedRow
	for _, sr := range in.Rows {
		line := joinSpatialRow(sr)
		if line == "" {
			continue
		}
		row, ok := scanRow(line, false)
		if !ok {
			continue
		}
		if len(strings.Fields(row.label)) > 8 {
			continue
		}
		out = append(out, toParsedRow(row, 0.6))
	}
	return out
}

// joinSpatialRow orders a row's items by x and renders wide gaps as column
// separators so the column heuristics still apply downstream.
func joinSpatialRow(sr domain.SpatialRow) string {
	if len(sr.Items) == 0 {
		return ""
	}
	items := make([]domain.SpatialItem, len(sr.Items))
	copy(items, sr.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].X < items[j].X })

	var b strings.Builder
	prevEnd := items[0].X
	for i, it := range items {
		if i > 0 {
			// A gap wider than a few character widths is a column break.
			if it.X-prevEnd > 18 {
				b.WriteString("  ")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(strings.TrimSpace(it.Text))
		prevEnd = it.X + float64(len(it.Text))*5
	}
	return strings.TrimSpace(b.String())
}
