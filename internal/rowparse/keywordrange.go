package rowparse

import (
	"regexp"
	"strings"

	"labmark/internal/domain"
)

// keywordRange handles consumer-portal reports that spell each result out as
// "<marker> your value: N" followed by "normal range: A - B". Enabled only by
// the keyword-range profile.
type keywordRange struct{}

var (
	kwValueRe = regexp.MustCompile(`(?i)^(.*?)\s*(?:your|uw)\s+value\s*:?\s*([<>]?\d{1,7}(?:[.,]\d{1,4})?)\s*([a-zµ%][a-zµ0-9/^.]*)?`)
	kwRangeRe = regexp.MustCompile(`(?i)(?:normal|reference)\s+range\s*:?\s*(\d{1,7}(?:[.,]\d{1,4})?)\s*[-–]\s*(\d{1,7}(?:[.,]\d{1,4})?)`)
)

func (keywordRange) Name() string { return "keyword-range" }

func (keywordRange) Parse(in Input) []domain.ParsedRow {
	var out []domain.ParsedRow
	for i, line := range in.Lines {
		m := kwValueRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value, ok := ParseNumeric(m[2])
		if !ok {
			continue
		}

		label := strings.TrimSpace(m[1])
		if label == "" && i > 0 {
			// Marker name printed on its own line above the value.
			prev := in.Lines[i-1]
			if countNumericTokens(prev) == 0 && len(strings.Fields(prev)) <= 6 {
				label = prev
			}
		}
		if label == "" {
			continue
		}

		row := scanned{label: label, value: value, unit: strings.TrimSpace(m[3])}
		for j := i; j < len(in.Lines) && j <= i+2; j++ {
			if rm := kwRangeRe.FindStringSubmatch(in.Lines[j]); rm != nil {
				lo, ok1 := ParseNumeric(rm[1])
				hi, ok2 := ParseNumeric(rm[2])
				if ok1 && ok2 {
					row.refMin, row.refMax = &lo, &hi
				}
				break
			}
		}
		out = append(out, toParsedRow(row, 0.76))
	}
	return out
}
