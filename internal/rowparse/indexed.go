package rowparse

import (
	"regexp"

	"labmark/internal/domain"
)

// indexedRow handles flattened "n/NN A <row>" layouts where each result line
// carries a running index and an accession letter.
type indexedRow struct{}

var indexedPrefixRe = regexp.MustCompile(`^(\d{1,2})/(\d{2})\s+[A-Z]\s+(.+)$`)

func (indexedRow) Name() string { return "indexed-row" }

func (indexedRow) Parse(in Input) []domain.ParsedRow {
	var out []domain.ParsedRow
	for _, line := range in.Lines {
		m := indexedPrefixRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if row, ok := scanRow(m[3], in.Profile.RequireUnit); ok {
			out = append(out, toParsedRow(row, 0.8))
		}
	}
	return out
}
