package rowparse

import (
	"strings"

	"labmark/internal/domain"
)

// lineScan parses one result per line, with two-line and three-line
// continuation lookahead for labels that wrap.
type lineScan struct{}

func (lineScan) Name() string { return "line-scan" }

func (lineScan) Parse(in Input) []domain.ParsedRow {
	var out []domain.ParsedRow
	for i := 0; i < len(in.Lines); i++ {
		line := in.Lines[i]
		if in.Profile.IsNoiseLine(line) {
			continue
		}

		if row, ok := scanRow(line, in.Profile.RequireUnit); ok {
			out = append(out, toParsedRow(row, 0.78))
			continue
		}

		// Continuation: a label-only line whose result sits on the next one
		// or two lines. A label line heavy with numbers is more likely a
		// range tail than a wrapped name.
		if endsWithNumber(line) || countNumericTokens(line) >= 3 {
			continue
		}
		if len(strings.Fields(line)) == 0 || len(strings.Fields(line)) > 7 {
			continue
		}

		for span := 1; span <= 2 && i+span < len(in.Lines); span++ {
			joined := line
			for j := 1; j <= span; j++ {
				joined += " " + in.Lines[i+j]
			}
			if !endsWithNumber(in.Lines[i+span]) && countNumericTokens(in.Lines[i+span]) == 0 {
				continue
			}
			if row, ok := scanRow(joined, in.Profile.RequireUnit); ok {
				row.label = strings.TrimSpace(row.label)
				out = append(out, toParsedRow(row, 0.7))
				i += span
				break
			}
		}
	}
	return out
}

func toParsedRow(s scanned, confidence float64) domain.ParsedRow {
	if s.refMin != nil && s.refMax != nil {
		confidence += 0.08
	}
	if s.unit != "" {
		confidence += 0.05
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	return domain.ParsedRow{
		Marker:     s.label,
		Value:      s.value,
		Unit:       s.unit,
		RefMin:     s.refMin,
		RefMax:     s.refMax,
		Confidence: confidence,
	}
}
