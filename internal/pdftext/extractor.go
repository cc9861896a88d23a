// Package pdftext implements the text-layer extractor over a plain PDF
// parser. Scanned PDFs come back nearly empty here; the pipeline detects
// that and escalates to OCR.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"labmark/internal/domain"
	"labmark/internal/port"
	"labmark/internal/textnorm"
)

// yTolerance groups positioned fragments into one visual row. PDF baselines
// wobble by a point or two between fonts on the same line.
const yTolerance = 2.0

type extractor struct{}

// NewExtractor creates a PDF text-layer extractor.
func NewExtractor() port.TextExtractor {
	return extractor{}
}

func (extractor) ExtractText(ctx context.Context, fileBytes []byte) (*domain.RawTextLayout, error) {
	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return nil, fmt.Errorf("pdftext: opening document: %w", err)
	}

	layout := &domain.RawTextLayout{PageCount: reader.NumPage()}
	var sb strings.Builder

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		texts := page.Content().Text
		layout.ItemCount += len(texts)

		rows := groupRows(pageNum, texts)
		layout.Rows = append(layout.Rows, rows...)
		for _, row := range rows {
			sb.WriteString(joinRow(row))
			sb.WriteString("\n")
		}
	}

	layout.Text = sb.String()
	layout.LineCount = len(textnorm.Lines(layout.Text))
	layout.CharCount = textnorm.CountNonWhitespace(layout.Text)
	return layout, nil
}

// groupRows buckets positioned fragments by baseline and sorts each bucket
// left to right.
func groupRows(pageNum int, texts []pdf.Text) []domain.SpatialRow {
	var rows []domain.SpatialRow
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].Y-t.Y) <= yTolerance {
				rows[i].Items = append(rows[i].Items, domain.SpatialItem{X: t.X, Text: t.S})
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, domain.SpatialRow{
				Page:  pageNum,
				Y:     t.Y,
				Items: []domain.SpatialItem{{X: t.X, Text: t.S}},
			})
		}
	}

	// PDF y-axis grows upward; top of the page first.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })
	for i := range rows {
		items := rows[i].Items
		sort.SliceStable(items, func(a, b int) bool { return items[a].X < items[b].X })
	}
	return rows
}

// joinRow flattens one spatial row into a text line, preserving wide gaps as
// double spaces so column boundaries survive.
func joinRow(row domain.SpatialRow) string {
	var sb strings.Builder
	for i, item := range row.Items {
		if i > 0 {
			prev := row.Items[i-1]
			gap := item.X - prev.X - approxWidth(prev.Text)
			if gap > 12 {
				sb.WriteString("  ")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(item.Text)
	}
	return sb.String()
}

// approxWidth estimates rendered width without font metrics. Rough, but only
// the relative gap size matters for column detection.
func approxWidth(s string) float64 {
	return float64(len(s)) * 5.0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
