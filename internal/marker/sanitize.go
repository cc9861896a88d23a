package marker

import (
	"regexp"
	"strings"
)

var (
	leadingNonLetterRe = regexp.MustCompile(`^[^A-Za-zµ]+`)
	rangePhraseRe      = regexp.MustCompile(`(?i)\s*\(?\b(reference|age)\s+range\b\)?.*$`)
	indexPrefixRe      = regexp.MustCompile(`^\d{1,2}/\d{2}\s+[A-Z]\s+`)
	methodSuffixRe     = regexp.MustCompile(`(?i)[,(]\s*(lc[-/]?ms[-/]?ms|eclia|clia|ecl|hplc|immunoassay|calculated|derived)\s*\)?\s*$`)
	trailingCmpRe      = regexp.MustCompile(`[=<>\s]+$`)
)

// sectionHeaders are report section banners that PDF flattening glues onto the
// first marker label beneath them.
var sectionHeaders = []string{
	"HEMATOLOGY", "HAEMATOLOGY", "CHEMISTRY", "BIOCHEMISTRY", "ENDOCRINOLOGY",
	"HORMONES", "IMMUNOLOGY", "LIPIDS", "GENERAL CHEMISTRY", "SEROLOGY",
}

// Sanitize runs the deterministic label cleanup pipeline: leading junk,
// range phrases, flattened row-index prefixes, method suffixes, section
// headers, and trailing comparison characters.
func Sanitize(label string) string {
	s := strings.TrimSpace(label)
	s = indexPrefixRe.ReplaceAllString(s, "")
	s = leadingNonLetterRe.ReplaceAllString(s, "")
	s = rangePhraseRe.ReplaceAllString(s, "")
	s = methodSuffixRe.ReplaceAllString(s, "")

	// Section headers can stack ("HEMATOLOGY CHEMISTRY Hemoglobin"); strip
	// while one still matches.
	for {
		stripped := false
		upper := strings.ToUpper(s)
		for _, h := range sectionHeaders {
			if strings.HasPrefix(upper, h+" ") {
				s = strings.TrimSpace(s[len(h):])
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	s = trailingCmpRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// TitleCase renders a verbatim label presentably when no canonical match is
// found ("ferritin serum" -> "Ferritin Serum").
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if len(w) <= 3 && isAllowlistedShort(w) {
			words[i] = strings.ToUpper(w)
			continue
		}
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
