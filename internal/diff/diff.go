// Package diff reconciles two extraction drafts (typically local vs AI) into
// an added/removed/changed summary a human can review.
package diff

import (
	"math"
	"sort"

	"labmark/internal/domain"
)

const epsilon = 1e-7

// Build computes the diff between two drafts. Per side, a latest-wins map is
// built per canonical marker (ties broken by higher confidence); every key
// present in either map is then classified.
func Build(local, ai *domain.ExtractionDraft) *domain.DiffSummary {
	localMap := latestWins(local.Markers)
	aiMap := latestWins(ai.Markers)

	out := &domain.DiffSummary{
		Local:           side(local),
		AI:              side(ai),
		TestDateChanged: local.TestDate != ai.TestDate,
		Added:           []domain.DiffRow{},
		Removed:         []domain.DiffRow{},
		Changed:         []domain.DiffRow{},
	}

	for _, key := range sortedKeys(localMap, aiMap) {
		lv, inLocal := localMap[key]
		av, inAI := aiMap[key]
		switch {
		case inLocal && !inAI:
			out.Removed = append(out.Removed, domain.DiffRow{Canonical: key, Local: lv})
		case !inLocal && inAI:
			out.Added = append(out.Added, domain.DiffRow{Canonical: key, AI: av})
		default:
			if fields := changedFields(lv, av); len(fields) > 0 {
				out.Changed = append(out.Changed, domain.DiffRow{
					Canonical: key, ChangedFields: fields, Local: lv, AI: av,
				})
			}
		}
	}

	out.HasChanges = out.TestDateChanged ||
		len(out.Added) > 0 || len(out.Removed) > 0 || len(out.Changed) > 0
	return out
}

func side(d *domain.ExtractionDraft) domain.DiffSide {
	return domain.DiffSide{
		MarkerCount: len(d.Markers),
		Confidence:  d.Extraction.Confidence,
		Warnings:    d.Extraction.Warnings,
	}
}

func latestWins(markers []domain.MarkerValue) map[string]*domain.MarkerValue {
	out := map[string]*domain.MarkerValue{}
	for i := range markers {
		m := &markers[i]
		prev, ok := out[m.Canonical]
		if !ok || m.Confidence >= prev.Confidence {
			out[m.Canonical] = m
		}
	}
	return out
}

// changedFields compares the review-relevant fields with an epsilon for
// numerics. Raw pre-conversion values are preferred so unit-conversion
// rounding never manufactures a spurious diff.
func changedFields(a, b *domain.MarkerValue) []string {
	var fields []string
	if a.Marker != b.Marker {
		fields = append(fields, "marker")
	}
	av, bv := a.Value, b.Value
	if a.RawValue != nil && b.RawValue != nil && compareUnit(a) == compareUnit(b) {
		av, bv = *a.RawValue, *b.RawValue
	}
	if !floatEq(av, bv) {
		fields = append(fields, "value")
	}
	if compareUnit(a) != compareUnit(b) {
		fields = append(fields, "unit")
	}
	if !ptrEq(a.RefMin, b.RefMin) {
		fields = append(fields, "referenceMin")
	}
	if !ptrEq(a.RefMax, b.RefMax) {
		fields = append(fields, "referenceMax")
	}
	if !floatEq(a.Confidence, b.Confidence) {
		fields = append(fields, "confidence")
	}
	return fields
}

func compareUnit(m *domain.MarkerValue) string {
	if m.RawUnit != "" {
		return m.RawUnit
	}
	return m.Unit
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func ptrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return floatEq(*a, *b)
}

func sortedKeys(a, b map[string]*domain.MarkerValue) []string {
	seen := map[string]bool{}
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
