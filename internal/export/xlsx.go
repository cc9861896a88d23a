package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"labmark/internal/domain"
)

const markersSheet = "Markers"

// WriteXLSX renders a draft's markers as a single-sheet workbook.
func WriteXLSX(w io.Writer, d *domain.ExtractionDraft) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName(f.GetSheetName(0), markersSheet)

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(markersSheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := range d.Markers {
		m := &d.Markers[i]
		values := []any{
			d.TestDate,
			m.Marker,
			m.Canonical,
			m.Value,
			m.Unit,
			boundOrBlank(m.RefMin),
			boundOrBlank(m.RefMax),
			string(m.Abnormal),
			round2(m.Confidence),
			m.Source,
			formatBool(m.IsCalculated),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("cell for row %d: %w", i, err)
			}
			if err := f.SetCellValue(markersSheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// boundOrBlank keeps empty cells empty instead of writing zeros.
func boundOrBlank(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
