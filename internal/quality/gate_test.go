package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"labmark/internal/domain"
	"labmark/internal/marker"
)

func denseLayout() *domain.RawTextLayout {
	return &domain.RawTextLayout{PageCount: 2, ItemCount: 300, LineCount: 80, CharCount: 4000}
}

func sparseLayout() *domain.RawTextLayout {
	return &domain.RawTextLayout{PageCount: 1, ItemCount: 12, LineCount: 5, CharCount: 90}
}

func TestCollect(t *testing.T) {
	d := &domain.ExtractionDraft{
		TestDate: "2024-03-01",
		Markers: []domain.MarkerValue{
			{Canonical: marker.Testosterone, Unit: "nmol/L"},
			{Canonical: marker.Hematocrit, Unit: "%"},
			{Canonical: marker.Hematocrit, Unit: "%"},
			{Canonical: "Ferritin"},
		},
		Extraction: domain.ExtractionMeta{Confidence: 0.81},
	}
	s := Collect(d, "2024-06-15")
	assert.Equal(t, 4, s.MarkerCount)
	assert.Equal(t, 3, s.UnitCount)
	assert.Equal(t, 2, s.ImportantCoverage)
	assert.Equal(t, 0.81, s.Confidence)
	assert.False(t, s.TestDateIsToday)

	d.TestDate = "2024-06-15"
	assert.True(t, Collect(d, "2024-06-15").TestDateIsToday)
}

func TestSparseTextLayer(t *testing.T) {
	assert.True(t, SparseTextLayer(sparseLayout()))
	assert.False(t, SparseTextLayer(denseLayout()))

	// Thresholds scale with page count: the same totals spread over six
	// pages are sparse again.
	l := denseLayout()
	l.PageCount = 20
	assert.True(t, SparseTextLayer(l))
}

func TestNeedsOCRBoost(t *testing.T) {
	weak := Stats{MarkerCount: 3, ImportantCoverage: 0, Confidence: 0.9}
	assert.True(t, NeedsOCRBoost(weak, denseLayout()))

	solid := Stats{MarkerCount: 12, UnitCount: 10, ImportantCoverage: 3, Confidence: 0.8}
	assert.False(t, NeedsOCRBoost(solid, denseLayout()))
	assert.True(t, NeedsOCRBoost(solid, sparseLayout()))
}

func TestIsLocalDraftGoodEnough(t *testing.T) {
	// High confidence cannot compensate for a thin marker yield.
	assert.False(t, IsLocalDraftGoodEnough(Stats{MarkerCount: 3, Confidence: 0.95, ImportantCoverage: 2}))

	assert.True(t, IsLocalDraftGoodEnough(Stats{MarkerCount: 8, Confidence: 0.65}))
	assert.False(t, IsLocalDraftGoodEnough(Stats{MarkerCount: 8, Confidence: 0.64}))

	assert.True(t, IsLocalDraftGoodEnough(Stats{MarkerCount: 6, Confidence: 0.72, ImportantCoverage: 2}))
	assert.False(t, IsLocalDraftGoodEnough(Stats{MarkerCount: 6, Confidence: 0.72, ImportantCoverage: 1}))

	assert.True(t, IsLocalDraftGoodEnough(Stats{MarkerCount: 4, Confidence: 0.80, ImportantCoverage: 2}))
	assert.False(t, IsLocalDraftGoodEnough(Stats{MarkerCount: 4, Confidence: 0.79, ImportantCoverage: 2}))
}

func TestMeetsQualityThreshold(t *testing.T) {
	good := Stats{MarkerCount: 6, Confidence: 0.7, ImportantCoverage: 2, TestDate: "2024-03-01"}
	assert.True(t, MeetsQualityThreshold(good))

	noDate := good
	noDate.TestDate = ""
	assert.False(t, MeetsQualityThreshold(noDate))

	todayDate := good
	todayDate.TestDateIsToday = true
	assert.False(t, MeetsQualityThreshold(todayDate))

	lowYield := good
	lowYield.MarkerCount = 4
	assert.False(t, MeetsQualityThreshold(lowYield))
}

func TestDraftScore(t *testing.T) {
	rich := Stats{MarkerCount: 10, UnitCount: 9, ImportantCoverage: 4, Confidence: 0.8}
	thin := Stats{MarkerCount: 4, UnitCount: 3, ImportantCoverage: 1, Confidence: 0.9}
	assert.Greater(t, DraftScore(rich), DraftScore(thin))

	// Many markers but zero important coverage smells like parsed noise.
	noisy := Stats{MarkerCount: 9, UnitCount: 2, ImportantCoverage: 0, Confidence: 0.5}
	assert.InDelta(t, 9*2.5+2*1.5+0.5-6, DraftScore(noisy), 0.0001)
}

func TestShouldAutoPDFRescue(t *testing.T) {
	weak := Stats{MarkerCount: 2, UnitCount: 1, ImportantCoverage: 0}

	assert.True(t, ShouldAutoPDFRescue(weak, sparseLayout(), domain.CostModeStandard))
	assert.False(t, ShouldAutoPDFRescue(weak, denseLayout(), domain.CostModeStandard))
	assert.False(t, ShouldAutoPDFRescue(weak, sparseLayout(), domain.CostModeUltraLowCost))

	plenty := Stats{MarkerCount: 7, UnitCount: 6, ImportantCoverage: 3}
	assert.False(t, ShouldAutoPDFRescue(plenty, sparseLayout(), domain.CostModeStandard))
}
