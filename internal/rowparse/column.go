package rowparse

import (
	"regexp"
	"strings"

	"labmark/internal/domain"
)

var columnGapRe = regexp.MustCompile(`\s{2,}|\t+`)

// columnSplit handles layouts where columns survive as runs of two or more
// spaces: label, result, unit, and range each in their own cell.
type columnSplit struct{}

func (columnSplit) Name() string { return "column-split" }

func (columnSplit) Parse(in Input) []domain.ParsedRow {
	var out []domain.ParsedRow
	for _, line := range in.Lines {
		if in.Profile.IsNoiseLine(line) {
			continue
		}
		cols := splitColumns(line)
		if len(cols) < 2 {
			continue
		}

		label := cols[0]
		if countNumericTokens(label) > 1 || len(strings.Fields(label)) > 8 {
			continue
		}

		var (
			value    float64
			haveVal  bool
			unit     string
			refMin   *float64
			refMax   *float64
		)
		for _, c := range cols[1:] {
			if !haveVal {
				if v, ok := ParseNumeric(firstToken(c)); ok && countNumericTokens(c) == 1 {
					value = v
					haveVal = true
					// A unit may share the cell with the value ("147 g/L").
					if toks := strings.Fields(c); len(toks) == 2 && IsUnitToken(toks[1]) {
						unit = strings.Trim(toks[1], "()[],;")
					}
					continue
				}
			}
			if unit == "" && IsUnitToken(strings.TrimSpace(c)) {
				unit = strings.Trim(strings.TrimSpace(c), "()[],;")
				continue
			}
			if refMin == nil && refMax == nil {
				refMin, refMax = parseRange(c)
			}
		}

		if !haveVal {
			continue
		}
		if unit == "" && in.Profile.RequireUnit {
			continue
		}
		out = append(out, toParsedRow(scanned{
			label: label, value: value, unit: unit, refMin: refMin, refMax: refMax,
		}, 0.8))
	}
	return out
}

func splitColumns(line string) []string {
	parts := columnGapRe.Split(line, -1)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstToken(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
