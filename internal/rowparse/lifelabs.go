package rowparse

import (
	"regexp"

	"labmark/internal/domain"
)

// lifeLabsTable is gated on the LifeLabs report table header; once the
// header is seen, the lines beneath it are parsed as result rows until the
// footer. LifeLabs prints units inside the result column, so the generic
// right-anchored scan applies with the unit requirement relaxed.
type lifeLabsTable struct{}

var (
	lifeLabsHeaderRe = regexp.MustCompile(`(?i)test\s+description\s+.*result`)
	lifeLabsFooterRe = regexp.MustCompile(`(?i)^(end of report|report status|legend:|this report)`)
)

func (lifeLabsTable) Name() string { return "lifelabs-table" }

func (lifeLabsTable) Parse(in Input) []domain.ParsedRow {
	start := -1
	for i, line := range in.Lines {
		if lifeLabsHeaderRe.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return nil
	}

	var out []domain.ParsedRow
	for _, line := range in.Lines[start:] {
		if lifeLabsFooterRe.MatchString(line) {
			break
		}
		if row, ok := scanRow(line, false); ok {
			out = append(out, toParsedRow(row, 0.82))
		}
	}
	return out
}
