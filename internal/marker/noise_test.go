package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreCandidate_AnchoredMeasurementRow(t *testing.T) {
	score := ScoreCandidate("Haemoglobin", true, true)
	// base 50 + anchor 30 + unit 15 + range 10
	assert.Equal(t, 100, score)
}

func TestScoreCandidate_CommentaryIsPenalized(t *testing.T) {
	score := ScoreCandidate("Results are consistent with normal thyroid function", false, false)
	assert.Less(t, score, 36)
}

func TestScoreCandidate_GuidancePhrasing(t *testing.T) {
	plain := ScoreCandidate("Ferritin", true, false)
	guidance := ScoreCandidate("Ferritin target level for high risk individuals", true, false)
	assert.Greater(t, plain, guidance)
}

func TestScoreCandidate_MethodChangeNotice(t *testing.T) {
	score := ScoreCandidate("Method changed, new reference interval applies", false, false)
	assert.Less(t, score, 36)
}

func TestScoreCandidate_SingleStopWord(t *testing.T) {
	assert.Equal(t, 0, ScoreCandidate("Comment", false, false))
	assert.Equal(t, 0, ScoreCandidate("normal", true, true))
}

func TestScoreCandidate_ShortTokenAllowlist(t *testing.T) {
	// "Hb" is a legitimate label; an arbitrary two-letter token is not.
	hb := ScoreCandidate("Hb", true, true)
	xq := ScoreCandidate("xq", true, true)
	assert.Greater(t, hb, xq)
	assert.GreaterOrEqual(t, hb, 36)
}

func TestScoreCandidate_LongUnanchoredSentence(t *testing.T) {
	score := ScoreCandidate("Specimen received after the recommended window for this assay panel", false, false)
	assert.Less(t, score, 54)
}

func TestScoreCandidate_Clamped(t *testing.T) {
	s := ScoreCandidate("Please note results should be interpreted according to guidelines for high risk individuals", false, false)
	assert.GreaterOrEqual(t, s, 0)
	assert.LessOrEqual(t, s, 100)
}

func TestAcceptCandidate_SourceThresholds(t *testing.T) {
	anchored := "Testosterone"
	free := "Zinc Plasma"

	assert.True(t, AcceptCandidate(50, anchored, SourceAIParse))
	assert.False(t, AcceptCandidate(49, anchored, SourceAIParse))
	assert.True(t, AcceptCandidate(72, free, SourceAIParse))
	assert.False(t, AcceptCandidate(71, free, SourceAIParse))

	assert.True(t, AcceptCandidate(36, anchored, SourceLocalParse))
	assert.False(t, AcceptCandidate(35, anchored, SourceLocalParse))
	assert.True(t, AcceptCandidate(54, free, SourceLocalParse))
	assert.False(t, AcceptCandidate(53, free, SourceLocalParse))
}

func TestNarrativeFragment(t *testing.T) {
	assert.True(t, NarrativeFragment("consistent with normal thyroid function"))
	assert.True(t, NarrativeFragment("note"))
	assert.True(t, NarrativeFragment("the specimen was received outside the stability window for analysis"))
	assert.False(t, NarrativeFragment("Testosterone, Total"))
	assert.False(t, NarrativeFragment("Ferritin"))
}

func TestHasAnchor(t *testing.T) {
	assert.True(t, HasAnchor("Free Testosterone (calculated)"))
	assert.True(t, HasAnchor("oestradiol"))
	assert.False(t, HasAnchor("Specimen comment"))
}
