// Package profile picks per-document parsing toggles from a text sample and
// the source filename. The chosen profile is immutable for the rest of the run.
package profile

import (
	"regexp"
	"strings"
)

// Profile holds the per-document parsing toggles.
type Profile struct {
	ID string
	// RequireUnit discards any candidate row without a recognizable unit.
	RequireUnit bool
	// KeywordRangeRows enables the "your value / normal range" row strategy.
	KeywordRangeRows bool
	// LineNoise matches lines the line scanner should skip outright.
	LineNoise *regexp.Regexp
}

var (
	yourValueRe = regexp.MustCompile(`(?i)\b(your|uw)\s+value\s*:?\s*[<>]?\s*\d`)
	normRangeRe = regexp.MustCompile(`(?i)\b(normal|reference)\s+range\s*:`)

	defaultNoiseRe = regexp.MustCompile(`(?i)^(page \d+|printed |electronically |fax:|tel:|www\.|https?://)`)
)

// Default is the profile used when no layout signal matches: every kept row
// must carry a unit and the generic noise filter is active.
func Default() Profile {
	return Profile{ID: "default", RequireUnit: true, LineNoise: defaultNoiseRe}
}

// KeywordRange is used for consumer-portal reports that label each result with
// "your value:" and "normal range:" instead of tabular units.
func KeywordRange() Profile {
	return Profile{ID: "keyword-range", RequireUnit: false, KeywordRangeRows: true}
}

// Detect inspects a text sample plus the filename and picks the profile.
// Both keyword families must occur at least once for the keyword-range
// profile; anything else gets the default.
func Detect(sample, filename string) Profile {
	_ = filename // reserved: no filename-keyed providers yet
	if len(sample) > 20000 {
		sample = sample[:20000]
	}
	values := len(yourValueRe.FindAllString(sample, -1))
	ranges := len(normRangeRe.FindAllString(sample, -1))
	if values >= 1 && ranges >= 1 {
		return KeywordRange()
	}
	return Default()
}

// IsNoiseLine reports whether the profile's noise filter rejects a line.
func (p Profile) IsNoiseLine(line string) bool {
	if p.LineNoise == nil {
		return false
	}
	return p.LineNoise.MatchString(strings.TrimSpace(line))
}
