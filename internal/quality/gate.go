// Package quality holds the escalation policy: when a local draft is good
// enough, when OCR should be tried, when an AI rescue is warranted, and how
// two competing drafts are scored against each other. All decisions are pure
// functions over draft metadata; no draft is ever mutated here.
package quality

import (
	"labmark/internal/domain"
	"labmark/internal/marker"
)

// Stats summarizes the parts of a draft the policy looks at.
type Stats struct {
	MarkerCount       int
	UnitCount         int
	ImportantCoverage int
	Confidence        float64
	TestDate          string
	TestDateIsToday   bool
}

// Collect derives Stats from a draft.
func Collect(d *domain.ExtractionDraft, today string) Stats {
	s := Stats{
		MarkerCount: len(d.Markers),
		Confidence:  d.Extraction.Confidence,
		TestDate:    d.TestDate,
	}
	s.TestDateIsToday = d.TestDate == today || d.TestDate == ""
	seen := map[string]bool{}
	for _, m := range d.Markers {
		if m.Unit != "" {
			s.UnitCount++
		}
		if marker.IsImportant(m.Canonical) {
			seen[m.Canonical] = true
		}
	}
	s.ImportantCoverage = len(seen)
	return s
}

// SparseTextLayer reports whether the raw text layer is too thin to trust,
// scaled by page count.
func SparseTextLayer(l *domain.RawTextLayout) bool {
	pages := l.PageCount
	if pages < 1 {
		pages = 1
	}
	if l.ItemCount < maxInt(40, 18*pages) {
		return true
	}
	return l.CharCount < maxInt(260, 120*pages) && l.LineCount < maxInt(16, 8*pages)
}

// NeedsOCRBoost decides the local -> ocr-boosted transition: weak important
// coverage combined with a thin result, or a sparse text layer outright.
func NeedsOCRBoost(s Stats, layout *domain.RawTextLayout) bool {
	if s.ImportantCoverage < 2 && (s.MarkerCount < 6 || s.Confidence < 0.72) {
		return true
	}
	return SparseTextLayer(layout)
}

// DraftScore ranks competing drafts of the same document. Marker yield and
// important coverage dominate; a pile of markers with zero important
// coverage is penalized as probable noise.
func DraftScore(s Stats) float64 {
	score := float64(s.MarkerCount)*2.5 +
		float64(s.UnitCount)*1.5 +
		float64(s.ImportantCoverage)*4 +
		s.Confidence
	if s.MarkerCount >= 5 && s.ImportantCoverage == 0 {
		score -= 6
	}
	return score
}

// MeetsQualityThreshold is the bar a draft must clear to skip the AI pass.
func MeetsQualityThreshold(s Stats) bool {
	return s.MarkerCount >= 5 &&
		s.Confidence >= 0.65 &&
		s.ImportantCoverage >= 2 &&
		s.TestDate != "" && !s.TestDateIsToday
}

// IsLocalDraftGoodEnough is the standalone acceptance predicate the caller
// uses to present a local draft without prompting for AI. The marker-count
// floor dominates confidence: three markers at 0.95 still fail.
func IsLocalDraftGoodEnough(s Stats) bool {
	switch {
	case s.MarkerCount >= 8 && s.Confidence >= 0.65:
		return true
	case s.MarkerCount >= 6 && s.Confidence >= 0.72 && s.ImportantCoverage >= 2:
		return true
	case s.MarkerCount >= 4 && s.Confidence >= 0.80 && s.ImportantCoverage >= 2:
		return true
	default:
		return false
	}
}

// ShouldAutoPDFRescue recommends (never forces) an AI rescue for weak local
// results. Suppressed entirely in ultra-low-cost mode.
func ShouldAutoPDFRescue(s Stats, layout *domain.RawTextLayout, mode domain.CostMode) bool {
	if mode == domain.CostModeUltraLowCost {
		return false
	}
	if s.MarkerCount > 4 {
		return false
	}
	weakCoverage := s.ImportantCoverage < 2 || s.UnitCount < 2
	return weakCoverage && SparseTextLayer(layout)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
