package marker

import (
	"regexp"
	"strings"
)

// CandidateSource distinguishes locally-parsed labels from AI-returned ones.
// AI output is unverified text, so it clears a higher structural bar before a
// row is kept.
type CandidateSource string

const (
	SourceLocalParse CandidateSource = "local"
	SourceAIParse    CandidateSource = "ai"
)

// anchorRe matches terms that strongly indicate a real lab measurement label.
var anchorRe = regexp.MustCompile(`(?i)\b(testosteron\w*|estradiol|oestradiol|shbg|h(a?)emoglobin|h(a?)ematocrit|cholesterol|triglycerid\w*|glucose|ferritin|cortisol|thyroid|tsh|ft[34]|free t[34]|vitamin|creatinine|egfr|prolactin|albumin|platelet\w*|psa|hba1c|a1c|lh|fsh|dht|progesterone|b12|cobalamin|erythrocyte\w*|leukocyte\w*|rbc|wbc)\b`)

// Short tokens that are legitimate marker labels on their own.
var shortTokenAllowlist = map[string]bool{
	"lh": true, "hb": true, "e2": true, "t3": true, "t4": true,
	"hct": true, "hgb": true, "rbc": true, "wbc": true, "plt": true,
	"psa": true, "alt": true, "ast": true, "tsh": true, "ggt": true,
	"crp": true, "ldl": true, "hdl": true, "a1c": true, "dht": true,
	"fsh": true, "pcv": true,
}

func isAllowlistedShort(tok string) bool {
	return shortTokenAllowlist[strings.ToLower(tok)]
}

// Stop words that, alone, can never be a marker label.
var stopWords = map[string]bool{
	"and": true, "or": true, "the": true, "of": true, "for": true,
	"with": true, "normal": true, "range": true, "value": true,
	"result": true, "results": true, "comment": true, "note": true,
	"high": true, "low": true, "borderline": true, "final": true,
	"see": true, "test": true, "serum": true, "plasma": true,
}

// noiseRule is one entry of the data-driven scoring table: a pattern and the
// score delta it applies. Keeping the model in a table keeps it testable in
// isolation from the parsers.
type noiseRule struct {
	name    string
	pattern *regexp.Regexp
	delta   int
}

var noiseRules = []noiseRule{
	{
		name:    "commentary_guard",
		pattern: regexp.MustCompile(`(?i)\b(consistent with|suggests?|suggestive of|recommended|is desirable|should be|according to|please note|interpret\w*|if clinically|clinical correlation|has been reported|may indicate|risk individuals)\b`),
		delta:   -70,
	},
	{
		name:    "guidance_phrasing",
		pattern: regexp.MustCompile(`(?i)\b(guidance|guideline\w*|individuals|sensitivity|specificity|population|target\s+level)\b`),
		delta:   -40,
	},
	{
		name:    "units_of_measure_sentence",
		pattern: regexp.MustCompile(`(?i)\b(method\w*\s+changed|new\s+reference|previous(ly)?\s+reported)\b`),
		delta:   -40,
	},
}

// NarrativeFragment reports whether a label reads like commentary rather than
// a marker name. Used by the resolver's unknown branch.
func NarrativeFragment(label string) bool {
	tokens := strings.Fields(label)
	if len(tokens) == 1 && stopWords[strings.ToLower(tokens[0])] {
		return true
	}
	for _, r := range noiseRules {
		if r.delta <= -70 && r.pattern.MatchString(label) {
			return true
		}
	}
	// Long sentences with no lab anchor are narrative.
	if len(tokens) >= 8 && !anchorRe.MatchString(label) {
		return true
	}
	return false
}

// HasAnchor reports whether the label contains a known lab-anchor term.
func HasAnchor(label string) bool {
	return anchorRe.MatchString(label)
}

// ScoreCandidate scores a sanitized label in [0,100]. A unit and a reference
// range are structural evidence; the rule table applies penalties for
// narrative phrasing.
func ScoreCandidate(label string, hasUnit, hasRange bool) int {
	score := 50
	tokens := strings.Fields(label)

	if anchorRe.MatchString(label) {
		score += 30
	}
	if hasUnit {
		score += 15
	}
	if hasRange {
		score += 10
	}

	for _, r := range noiseRules {
		if r.pattern.MatchString(label) {
			score += r.delta
		}
	}

	if len(tokens) == 1 {
		tok := strings.ToLower(tokens[0])
		if stopWords[tok] {
			score -= 80
		} else if len(tok) < 3 && !isAllowlistedShort(tok) {
			score -= 40
		}
	}
	if len(tokens) >= 8 && !anchorRe.MatchString(label) {
		score -= 35
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// AcceptCandidate applies the source-dependent acceptance thresholds. Labels
// with an anchor term clear a lower bar than free text.
func AcceptCandidate(score int, label string, source CandidateSource) bool {
	anchored := anchorRe.MatchString(label)
	switch source {
	case SourceAIParse:
		if anchored {
			return score >= 50
		}
		return score >= 72
	default:
		if anchored {
			return score >= 36
		}
		return score >= 54
	}
}
