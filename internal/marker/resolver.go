package marker

import (
	"regexp"
	"strings"

	"labmark/internal/domain"
	"labmark/internal/units"
)

// patternRule is one hand-written compound regex for labels where alias and
// token matching are ambiguous. First match wins.
type patternRule struct {
	pattern    *regexp.Regexp
	canonical  string
	confidence float64
}

var patternRules = []patternRule{
	// "Free & Total testosterone" style panels report the total on this row.
	{regexp.MustCompile(`(?i)free.*total.*testosterone|total.*free.*testosterone`), Testosterone, 0.94},
	{regexp.MustCompile(`(?i)bio.?available.*testosterone|testosterone.*bio.?available`), BioavailableTestosterone, 0.94},
	{regexp.MustCompile(`(?i)free.*testosterone|testosterone.*free`), FreeTestosterone, 0.93},
	{regexp.MustCompile(`(?i)sex.*horm.*bind.*glob`), SHBG, 0.96},
	{regexp.MustCompile(`(?i)\bcortisol\b.*\ba\.?m\b|\ba\.?m\b.*\bcortisol\b`), Cortisol, 0.92},
	{regexp.MustCompile(`(?i)\b(o?estradiol)\b`), Estradiol, 0.94},
	{regexp.MustCompile(`(?i)h(a?)ematocrit|packed\s+cell\s+volume`), Hematocrit, 0.95},
}

// Thresholds for accepting a token-overlap score, by resolver mode.
var modeThresholds = map[domain.ResolveMode]int{
	domain.ResolveConservative: 78,
	domain.ResolveBalanced:     64,
	domain.ResolveAggressive:   56,
}

// Resolve canonicalizes a sanitized label. Resolution order: user override,
// exact alias, compound pattern, token-overlap scoring, unknown. Overrides
// are passed explicitly per call; there is no process-wide override state.
func Resolve(label, unit string, overrides map[string]string, mode domain.ResolveMode) domain.Resolution {
	key := NormalizeKey(label)
	if key == "" {
		return domain.Resolution{Canonical: UnknownMarker, Method: domain.MethodUnknown}
	}

	if c, ok := overrides[key]; ok && c != "" && specimenCompatible(label, c) {
		return domain.Resolution{Canonical: c, Confidence: 1.0, Method: domain.MethodOverride, MatchedAlias: key}
	}

	if c, ok := LookupAlias(label); ok && specimenCompatible(label, c) {
		return domain.Resolution{Canonical: c, Confidence: 0.99, Method: domain.MethodExactAlias, MatchedAlias: key}
	}

	for _, p := range patternRules {
		if p.pattern.MatchString(label) && specimenCompatible(label, p.canonical) {
			return domain.Resolution{Canonical: p.canonical, Confidence: p.confidence, Method: domain.MethodPattern}
		}
	}

	if best, score := tokenScore(label, unit); best != "" {
		threshold, ok := modeThresholds[mode]
		if !ok {
			threshold = modeThresholds[domain.ResolveBalanced]
		}
		if score >= threshold && specimenCompatible(label, best) {
			conf := float64(score) / 100
			if conf > 0.96 {
				conf = 0.96
			}
			if conf < 0.52 {
				conf = 0.52
			}
			return domain.Resolution{Canonical: best, Confidence: conf, Method: domain.MethodTokenScore}
		}
	}

	if NarrativeFragment(label) {
		return domain.Resolution{Canonical: UnknownMarker, Confidence: 0, Method: domain.MethodUnknown}
	}
	// Low-trust verbatim fallback: kept so nothing silently disappears.
	return domain.Resolution{Canonical: TitleCase(label), Confidence: 0.35, Method: domain.MethodUnknown}
}

func labelMentionsUrine(label string) bool {
	return strings.Contains(strings.ToLower(label), "urine")
}

// specimenCompatible enforces the specimen-safety invariant: a label that
// mentions urine may only resolve to a urine canonical, and vice versa.
func specimenCompatible(label, canonical string) bool {
	return labelMentionsUrine(label) == IsUrineSpecimen(canonical)
}

// tokenScore runs the token-overlap model over every catalog entry and
// returns the best canonical with its score.
func tokenScore(label, unit string) (string, int) {
	labelKey := NormalizeKey(label)
	labelTokens := tokenSet(labelKey)
	if len(labelTokens) == 0 {
		return "", 0
	}
	narrative := NarrativeFragment(label)

	best := ""
	bestScore := 0
	for _, e := range Entries() {
		score := scoreEntry(e, labelKey, labelTokens, unit, narrative)
		if score > bestScore {
			bestScore = score
			best = e.Canonical
		}
	}
	return best, bestScore
}

func scoreEntry(e domain.CatalogEntry, labelKey string, labelTokens map[string]bool, unit string, narrative bool) int {
	overlap := 0.0
	exact := false
	substring := false
	for _, alias := range append([]string{e.Canonical}, e.Aliases...) {
		aliasKey := NormalizeKey(alias)
		if aliasKey == labelKey {
			exact = true
		}
		if strings.Contains(labelKey, aliasKey) || strings.Contains(aliasKey, labelKey) {
			substring = true
		}
		if r := overlapRatio(labelTokens, tokenSet(aliasKey)); r > overlap {
			overlap = r
		}
	}

	score := int(overlap * 65)
	if exact {
		score += 30
	} else if substring {
		score += 15
	}

	if unit != "" {
		if units.Accepts(e.Canonical, unit) {
			score += 6
		} else if _, known := units.CanonicalUnit(e.Canonical); known {
			score -= 10
		}
	}

	for _, must := range e.MustContain {
		if strings.Contains(labelKey, must) {
			score += 8
		} else {
			score -= 18
		}
	}
	for _, not := range e.MustNotContain {
		if strings.Contains(labelKey, not) {
			score -= 35
		}
	}

	if narrative {
		score -= 40
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func tokenSet(s string) map[string]bool {
	out := map[string]bool{}
	for _, t := range strings.Fields(s) {
		t = strings.Trim(t, ".,:;()")
		if t != "" {
			out[t] = true
		}
	}
	return out
}

func overlapRatio(label, alias map[string]bool) float64 {
	if len(alias) == 0 {
		return 0
	}
	hit := 0
	for t := range alias {
		if label[t] {
			hit++
		}
	}
	return float64(hit) / float64(len(alias))
}

// NormalizeOverrides lowers and trims a raw override map, dropping malformed
// entries instead of failing the whole resolution.
func NormalizeOverrides(raw map[string]string) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		nk := NormalizeKey(k)
		v = strings.TrimSpace(v)
		if nk == "" || v == "" {
			continue
		}
		out[nk] = v
	}
	return out
}
