// Package export renders drafts for download as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"labmark/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for marker exports.
var columns = []string{
	"Test Date",
	"Marker",
	"Canonical Marker",
	"Value",
	"Unit",
	"Reference Min",
	"Reference Max",
	"Abnormal",
	"Confidence",
	"Source",
	"Calculated",
}

// Writer wraps csv.Writer for exporting draft markers as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDraft converts a draft's markers to CSV rows and writes them.
func (w *Writer) WriteDraft(d *domain.ExtractionDraft) error {
	for i := range d.Markers {
		if err := w.csv.Write(markerToRow(d.TestDate, &d.Markers[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func markerToRow(testDate string, m *domain.MarkerValue) []string {
	row := make([]string, len(columns))
	row[0] = testDate
	row[1] = m.Marker
	row[2] = m.Canonical
	row[3] = formatValue(m.Value)
	row[4] = m.Unit
	row[5] = formatBound(m.RefMin)
	row[6] = formatBound(m.RefMax)
	row[7] = string(m.Abnormal)
	row[8] = strconv.FormatFloat(m.Confidence, 'f', 2, 64)
	row[9] = m.Source
	row[10] = formatBool(m.IsCalculated)
	return row
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return formatValue(*v)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a source file name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_source_name}_{test_date_or_today}.{ext}
func BuildFilename(sourceName, testDate, ext string) string {
	sanitized := SanitizeFilename(strings.TrimSuffix(sourceName, ".pdf"))
	if sanitized == "" {
		sanitized = "labreport"
	}
	date := testDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
