package rowparse

import (
	"strings"

	"labmark/internal/domain"
)

// looseLine is the low-precision fallback: any line that pairs a short label
// with a number is a candidate, unit or not. Only run when the strict
// strategies yield fewer than six rows; the noise scorer downstream carries
// the burden of rejecting the junk this lets through.
type looseLine struct{}

func (looseLine) Name() string { return "loose-line" }

func (looseLine) Parse(in Input) []domain.ParsedRow {
	var out []domain.ParsedRow
	for _, line := range in.Lines {
		if in.Profile.IsNoiseLine(line) {
			continue
		}
		row, ok := scanRow(line, false)
		if !ok {
			continue
		}
		if len(strings.Fields(row.label)) > 6 {
			continue
		}
		out = append(out, toParsedRow(row, 0.42))
	}
	return out
}
