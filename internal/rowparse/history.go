package rowparse

import (
	"strings"

	"labmark/internal/domain"
)

// historySheet handles clinic follow-up sheets that print a marker per line
// with baseline and per-week columns; only the rightmost ("current") column
// is a result for this document. Gated on the layout signature (baseline +
// week columns + a calculated free-testosterone row present together).
type historySheet struct{}

func (historySheet) Name() string { return "history-current-column" }

func (historySheet) Parse(in Input) []domain.ParsedRow {
	var out []domain.ParsedRow
	for _, line := range in.Lines {
		tokens := strings.Fields(line)
		if len(tokens) < 4 {
			continue
		}

		// Label = leading non-numeric tokens; then at least three numeric
		// columns (baseline plus weeks), current value last.
		labelEnd := 0
		for labelEnd < len(tokens) && !numericTokenRe.MatchString(strings.Trim(tokens[labelEnd], "()[],;")) {
			labelEnd++
		}
		if labelEnd == 0 || labelEnd > 6 {
			continue
		}
		numerics := 0
		var current float64
		unit := ""
		for _, tok := range tokens[labelEnd:] {
			clean := strings.Trim(tok, "()[],;")
			if v, ok := ParseNumeric(clean); ok && numericTokenRe.MatchString(clean) {
				current = v
				numerics++
			} else if IsUnitToken(clean) {
				unit = clean
			}
		}
		if numerics < 3 {
			continue
		}

		label := strings.Join(tokens[:labelEnd], " ")
		out = append(out, toParsedRow(scanned{label: label, value: current, unit: unit}, 0.55))
	}
	return out
}
