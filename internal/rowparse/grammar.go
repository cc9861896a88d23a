// Package rowparse turns normalized report text (or positioned fragments)
// into candidate marker rows. Each strategy is independent; the cascade pools
// every strategy's output and deduplicates before canonicalization.
package rowparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Unit grammar, matched right-to-left over a line's tokens. Covers the
	// slash units, counted units (10^9/L), percent, and the handful of
	// bare units labs print (fL, pg, ratio, L/L).
	unitTokenRe = regexp.MustCompile(`(?i)^(%|fl|pg|ratio|l/l|mm/hr?|10\^?\d+/[a-zµ]{1,3}|[a-zµ]{1,5}/[a-zµ0-9.^]{1,12}|m?[iu]u/m?l|ml/min(/1\.73m2)?)$`)

	numericTokenRe = regexp.MustCompile(`^[<>]?\d{1,7}([.,]\d{1,4})?$`)

	rangeRe     = regexp.MustCompile(`(\d{1,7}(?:[.,]\d{1,4})?)\s*[-–]\s*(\d{1,7}(?:[.,]\d{1,4})?)`)
	lowBoundRe  = regexp.MustCompile(`[(\s][<≤]\s*(\d{1,7}(?:[.,]\d{1,4})?)`)
	highBoundRe = regexp.MustCompile(`[(\s][>≥]\s*(\d{1,7}(?:[.,]\d{1,4})?)`)
)

// IsUnitToken reports whether a whitespace token looks like a measurement unit.
func IsUnitToken(tok string) bool {
	tok = strings.Trim(tok, "()[],;")
	if tok == "" || numericTokenRe.MatchString(tok) {
		return false
	}
	return unitTokenRe.MatchString(tok)
}

// ParseNumeric parses a numeric token, tolerating comma decimals and a
// leading comparison sign.
func ParseNumeric(tok string) (float64, bool) {
	tok = strings.Trim(tok, "()[],;")
	tok = strings.TrimLeft(tok, "<>")
	tok = strings.ReplaceAll(tok, ",", ".")
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseRange extracts the first reference range on a line: "130 - 170", or a
// one-sided "< 5" / "> 10" bound.
func parseRange(line string) (*float64, *float64) {
	if m := rangeRe.FindStringSubmatch(line); m != nil {
		lo, ok1 := ParseNumeric(m[1])
		hi, ok2 := ParseNumeric(m[2])
		if ok1 && ok2 && lo <= hi {
			return &lo, &hi
		}
	}
	if m := highBoundRe.FindStringSubmatch(line); m != nil {
		if lo, ok := ParseNumeric(m[1]); ok {
			return &lo, nil
		}
	}
	if m := lowBoundRe.FindStringSubmatch(line); m != nil {
		if hi, ok := ParseNumeric(m[1]); ok {
			return nil, &hi
		}
	}
	return nil, nil
}

// scanned is the result of right-anchored scanning of one line.
type scanned struct {
	label  string
	value  float64
	unit   string
	refMin *float64
	refMax *float64
}

// scanRow applies right-anchored unit detection to a whitespace-tokenized
// line: the unit is the rightmost token matching the unit grammar, and the
// value is the rightmost numeric before it that is not part of an N - M
// range. When requireUnit is set and no unit is found, the row is discarded.
func scanRow(line string, requireUnit bool) (scanned, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return scanned{}, false
	}

	inRange := markRangeTokens(tokens)

	unitIdx := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if IsUnitToken(tokens[i]) {
			unitIdx = i
			break
		}
	}
	if unitIdx == -1 && requireUnit {
		return scanned{}, false
	}

	searchEnd := len(tokens)
	if unitIdx >= 0 {
		searchEnd = unitIdx
	}
	valueIdx := -1
	for i := searchEnd - 1; i >= 0; i-- {
		if inRange[i] {
			continue
		}
		if numericTokenRe.MatchString(strings.Trim(tokens[i], "()[],;")) {
			valueIdx = i
			break
		}
	}
	if valueIdx <= 0 {
		return scanned{}, false
	}

	value, ok := ParseNumeric(tokens[valueIdx])
	if !ok {
		return scanned{}, false
	}

	out := scanned{
		label: strings.Join(tokens[:valueIdx], " "),
		value: value,
	}
	if unitIdx >= 0 {
		out.unit = strings.Trim(tokens[unitIdx], "()[],;")
	}
	out.refMin, out.refMax = parseRange(line)
	return out, true
}

// markRangeTokens flags tokens that belong to an `N - M` range so the value
// search skips both bounds. Handles the separated ("250 - 1100") and glued
// ("250-1100") forms.
func markRangeTokens(tokens []string) []bool {
	marked := make([]bool, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := strings.Trim(tokens[i], "()[],;")
		if rangeRe.MatchString(tok) && numericTokenRe.MatchString(strings.SplitN(tok, "-", 2)[0]) {
			marked[i] = true
			continue
		}
		if i+2 < len(tokens) &&
			numericTokenRe.MatchString(tok) &&
			(tokens[i+1] == "-" || tokens[i+1] == "–") &&
			numericTokenRe.MatchString(strings.Trim(tokens[i+2], "()[],;")) {
			marked[i] = true
			marked[i+1] = true
			marked[i+2] = true
			i += 2
		}
	}
	return marked
}

// countNumericTokens counts numeric tokens on a line; used to reject
// continuation labels that are really range tails.
func countNumericTokens(line string) int {
	n := 0
	for _, tok := range strings.Fields(line) {
		if numericTokenRe.MatchString(strings.Trim(tok, "()[],;")) {
			n++
		}
	}
	return n
}

// endsWithNumber reports whether a line's last token is numeric or a unit
// preceded by a numeric, meaning it carries a result.
func endsWithNumber(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	last := strings.Trim(tokens[len(tokens)-1], "()[],;")
	if numericTokenRe.MatchString(last) {
		return true
	}
	if IsUnitToken(last) && len(tokens) >= 2 {
		return numericTokenRe.MatchString(strings.Trim(tokens[len(tokens)-2], "()[],;"))
	}
	return false
}
