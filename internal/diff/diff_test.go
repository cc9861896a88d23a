package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labmark/internal/domain"
)

func fp(v float64) *float64 { return &v }

func draft(testDate string, markers ...domain.MarkerValue) *domain.ExtractionDraft {
	return &domain.ExtractionDraft{
		TestDate:   testDate,
		Markers:    markers,
		Extraction: domain.ExtractionMeta{Confidence: 0.8},
	}
}

func TestBuild_AddedRemovedChanged(t *testing.T) {
	local := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
		domain.MarkerValue{Canonical: "Ferritin", Value: 82, Unit: "µg/L", Confidence: 0.8},
		domain.MarkerValue{Canonical: "Haemoglobin", Value: 147, Unit: "g/L", Confidence: 0.85},
	)
	ai := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
		domain.MarkerValue{Canonical: "Haemoglobin", Value: 151, Unit: "g/L", Confidence: 0.85},
		domain.MarkerValue{Canonical: "SHBG", Value: 34, Unit: "nmol/L", Confidence: 0.9},
	)

	d := Build(local, ai)
	require.True(t, d.HasChanges)
	assert.False(t, d.TestDateChanged)

	require.Len(t, d.Added, 1)
	assert.Equal(t, "SHBG", d.Added[0].Canonical)
	require.NotNil(t, d.Added[0].AI)
	assert.Nil(t, d.Added[0].Local)

	require.Len(t, d.Removed, 1)
	assert.Equal(t, "Ferritin", d.Removed[0].Canonical)

	require.Len(t, d.Changed, 1)
	assert.Equal(t, "Haemoglobin", d.Changed[0].Canonical)
	assert.Equal(t, []string{"value"}, d.Changed[0].ChangedFields)
}

func TestBuild_Symmetric(t *testing.T) {
	a := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
		domain.MarkerValue{Canonical: "Ferritin", Value: 82, Unit: "µg/L", Confidence: 0.8},
	)
	b := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
		domain.MarkerValue{Canonical: "SHBG", Value: 34, Unit: "nmol/L", Confidence: 0.9},
	)

	fwd := Build(a, b)
	rev := Build(b, a)

	// Swapping the sides swaps added and removed, nothing else.
	canonicals := func(entries []domain.DiffRow) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Canonical)
		}
		return out
	}
	assert.Equal(t, canonicals(fwd.Added), canonicals(rev.Removed))
	assert.Equal(t, canonicals(fwd.Removed), canonicals(rev.Added))
	assert.Len(t, fwd.Changed, 0)
	assert.Len(t, rev.Changed, 0)
	assert.Equal(t, fwd.HasChanges, rev.HasChanges)
}

func TestBuild_NoChanges(t *testing.T) {
	local := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
	)
	ai := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
	)
	d := Build(local, ai)
	assert.False(t, d.HasChanges)
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
	assert.Empty(t, d.Changed)
}

func TestBuild_TestDateChangeAlone(t *testing.T) {
	local := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
	)
	ai := draft("2024-03-04",
		domain.MarkerValue{Canonical: "Testosterone", Value: 18.5, Unit: "nmol/L", Confidence: 0.9},
	)
	d := Build(local, ai)
	assert.True(t, d.TestDateChanged)
	assert.True(t, d.HasChanges)
	assert.Empty(t, d.Changed)
}

func TestBuild_EpsilonSwallowsFloatNoise(t *testing.T) {
	local := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Glucose", Value: 5.2, Unit: "mmol/L", Confidence: 0.9},
	)
	ai := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Glucose", Value: 5.2 + 1e-9, Unit: "mmol/L", Confidence: 0.9},
	)
	d := Build(local, ai)
	assert.False(t, d.HasChanges)
}

func TestBuild_RawValuePreferredWhenRawUnitsMatch(t *testing.T) {
	// Both sides saw 300 ng/dL; conversion rounding differs. Raw comparison
	// must not report a value change.
	local := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 10.401, RawValue: fp(300), RawUnit: "ng/dl", Unit: "nmol/L", Confidence: 0.9},
	)
	ai := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Testosterone", Value: 10.4, RawValue: fp(300), RawUnit: "ng/dl", Unit: "nmol/L", Confidence: 0.9},
	)
	d := Build(local, ai)
	assert.False(t, d.HasChanges)
}

func TestBuild_ReferenceBoundChanges(t *testing.T) {
	local := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Haemoglobin", Value: 147, Unit: "g/L", RefMin: fp(130), RefMax: fp(170), Confidence: 0.9},
	)
	ai := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Haemoglobin", Value: 147, Unit: "g/L", RefMin: fp(135), Confidence: 0.9},
	)
	d := Build(local, ai)
	require.Len(t, d.Changed, 1)
	assert.ElementsMatch(t, []string{"referenceMin", "referenceMax"}, d.Changed[0].ChangedFields)
}

func TestBuild_DuplicateCanonicalsCollapseByConfidence(t *testing.T) {
	local := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Ferritin", Value: 60, Unit: "µg/L", Confidence: 0.5},
		domain.MarkerValue{Canonical: "Ferritin", Value: 82, Unit: "µg/L", Confidence: 0.9},
	)
	ai := draft("2024-03-01",
		domain.MarkerValue{Canonical: "Ferritin", Value: 82, Unit: "µg/L", Confidence: 0.9},
	)
	d := Build(local, ai)
	assert.False(t, d.HasChanges)
	assert.Equal(t, 2, d.Local.MarkerCount)
}
