package textnorm

import (
	"regexp"
	"strings"
)

var (
	softHyphenRe = regexp.MustCompile("­")
	spaceRunRe   = regexp.MustCompile(`[ \t]{2,}`)
	// "10 ^ 9 /L", "10 E9/L" and friends come out of PDF text layers split
	// across items; glue them back into a single unit token.
	splitPowerRe = regexp.MustCompile(`10\s*[\^Ee]\s*(\d+)\s*/\s*([A-Za-zµμ]+)`)
	splitSlashRe = regexp.MustCompile(`([A-Za-zµμ%]+)\s*/\s*([A-Za-zµμ]+)`)
)

// NormalizeText cleans up encoding and whitespace noise common to PDF text
// layers and OCR output. Pure; safe to call repeatedly.
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, " ", " ")
	// Micro sign U+00B5 vs Greek mu U+03BC: lab units use both interchangeably.
	s = strings.ReplaceAll(s, "μ", "µ")
	s = softHyphenRe.ReplaceAllString(s, "")
	s = splitPowerRe.ReplaceAllString(s, "10^$1/$2")
	s = repairUnitSlashes(s)
	return s
}

// CollapseSpaces flattens runs of spaces and tabs. Column-aware parsers need
// the runs preserved, so NormalizeText leaves them alone and callers that
// want flat text opt in here.
func CollapseSpaces(s string) string {
	return spaceRunRe.ReplaceAllString(s, " ")
}

// repairUnitSlashes closes gaps inside slash units ("g / L" -> "g/L") without
// touching slashes that separate real words.
func repairUnitSlashes(s string) string {
	return splitSlashRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := splitSlashRe.FindStringSubmatch(m)
		if len(parts) != 3 {
			return m
		}
		left, right := parts[1], parts[2]
		if len(left) > 6 || len(right) > 4 {
			return m
		}
		return left + "/" + right
	})
}

// Lines splits normalized text into trimmed, non-empty lines.
func Lines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// CountNonWhitespace returns the number of non-whitespace characters.
func CountNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', ' ':
		default:
			n++
		}
	}
	return n
}
