package rowparse

import (
	"log"
	"regexp"
	"strings"

	"labmark/internal/domain"
	"labmark/internal/marker"
	"labmark/internal/profile"
)

// Input is the shared contract every strategy consumes.
type Input struct {
	Text    string
	Lines   []string
	Rows    []domain.SpatialRow
	Profile profile.Profile
}

// Strategy recognizes rows in one particular layout. Strategies are
// independent and non-exclusive; the cascade pools all outputs.
type Strategy interface {
	Name() string
	Parse(in Input) []domain.ParsedRow
}

// Cascade runs the strategy selection policy over the input and returns the
// deduplicated candidate pool.
func Cascade(in Input) []domain.ParsedRow {
	strict := []Strategy{
		lifeLabsTable{},
		columnSplit{},
		lineScan{},
		indexedRow{},
	}

	var pool []domain.ParsedRow
	for _, s := range strict {
		rows := s.Parse(in)
		if len(rows) > 0 {
			log.Printf("rowparse.Cascade: %s yielded %d rows", s.Name(), len(rows))
		}
		pool = append(pool, rows...)
	}

	// Loose matching trades precision for recall; only worth it when the
	// strict strategies came up short.
	if len(Dedupe(pool)) < 6 {
		pool = append(pool, looseLine{}.Parse(in)...)
	}

	if in.Profile.KeywordRangeRows {
		pool = append(pool, keywordRange{}.Parse(in)...)
	}

	// Spatial reconstruction is an expensive, noisier rescue path.
	if len(in.Rows) > 0 && needsSpatialRescue(pool, len(in.Lines)) {
		pool = append(pool, spatialRows{}.Parse(in)...)
	}

	if historySignatureRe.MatchString(in.Text) {
		pool = append(pool, historySheet{}.Parse(in)...)
	}

	return Dedupe(pool)
}

// needsSpatialRescue is true when non-spatial coverage of the important
// markers is below 2 distinct canonicals, or row yield is sparse relative to
// the document's line count.
func needsSpatialRescue(pool []domain.ParsedRow, lineCount int) bool {
	if importantCoverage(pool) < 2 {
		return true
	}
	return lineCount > 40 && len(pool)*20 < lineCount
}

func importantCoverage(rows []domain.ParsedRow) int {
	seen := map[string]bool{}
	for _, r := range rows {
		res := marker.Resolve(marker.Sanitize(r.Marker), r.Unit, nil, domain.ResolveBalanced)
		if marker.IsImportant(res.Canonical) {
			seen[res.Canonical] = true
		}
	}
	return len(seen)
}

// Dedupe collapses rows with the same normalized label, value, unit, and
// range, keeping the higher-confidence duplicate.
func Dedupe(rows []domain.ParsedRow) []domain.ParsedRow {
	type key struct {
		label  string
		value  float64
		unit   string
		refMin float64
		refMax float64
	}
	best := map[key]domain.ParsedRow{}
	order := []key{}
	for _, r := range rows {
		k := key{
			label: marker.NormalizeKey(r.Marker),
			value: r.Value,
			unit:  strings.ToLower(r.Unit),
		}
		if r.RefMin != nil {
			k.refMin = *r.RefMin
		}
		if r.RefMax != nil {
			k.refMax = *r.RefMax
		}
		if prev, ok := best[k]; !ok {
			best[k] = r
			order = append(order, k)
		} else if r.Confidence > prev.Confidence {
			best[k] = r
		}
	}
	out := make([]domain.ParsedRow, 0, len(best))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

var historySignatureRe = regexp.MustCompile(`(?i)baseline[\s\S]{0,400}week\s*\d+[\s\S]{0,800}free\s+testosterone\s*\(?\s*calculated`)
