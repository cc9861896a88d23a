package rowparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labmark/internal/domain"
	"labmark/internal/profile"
)

func defaultInput(lines []string) Input {
	text := ""
	for _, l := range lines {
		text += l + "\n"
	}
	return Input{Text: text, Lines: lines, Profile: profile.Default()}
}

func TestLineScan_SimpleRows(t *testing.T) {
	in := defaultInput([]string{
		"Haemoglobin 147 g/L 130 - 170",
		"Hematocrit 0.45 L/L 0.40 - 0.54",
	})
	rows := lineScan{}.Parse(in)
	require.Len(t, rows, 2)
	assert.Equal(t, "Haemoglobin", rows[0].Marker)
	assert.Equal(t, 147.0, rows[0].Value)
	assert.Equal(t, "g/L", rows[0].Unit)
	assert.InDelta(t, 0.91, rows[0].Confidence, 0.001)
	assert.Equal(t, "L/L", rows[1].Unit)
}

func TestLineScan_ContinuationLabel(t *testing.T) {
	in := defaultInput([]string{
		"Free Testosterone",
		"(Calculated) 34.2 pmol/L 20 - 66",
	})
	rows := lineScan{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Free Testosterone (Calculated)", rows[0].Marker)
	assert.Equal(t, 34.2, rows[0].Value)
	assert.Equal(t, "pmol/L", rows[0].Unit)
}

func TestLineScan_SkipsNoiseLines(t *testing.T) {
	in := defaultInput([]string{
		"Page 2 of 3",
		"Ferritin 82 µg/L 30 - 400",
	})
	rows := lineScan{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ferritin", rows[0].Marker)
}

func TestLineScan_RangeTailNotTreatedAsLabel(t *testing.T) {
	// A numeric-heavy line must not be glued onto the next line as a label.
	in := defaultInput([]string{
		"4.0 - 10.0 1.5 - 7.5",
		"Platelets 250 10^9/L 150 - 400",
	})
	rows := lineScan{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Platelets", rows[0].Marker)
}

func TestColumnSplit(t *testing.T) {
	in := defaultInput([]string{
		"Haemoglobin    147 g/L    130 - 170",
		"TSH\t2.1 mIU/L\t0.4 - 4.5",
	})
	rows := columnSplit{}.Parse(in)
	require.Len(t, rows, 2)
	assert.Equal(t, "Haemoglobin", rows[0].Marker)
	assert.Equal(t, 147.0, rows[0].Value)
	assert.Equal(t, "g/L", rows[0].Unit)
	require.NotNil(t, rows[0].RefMax)
	assert.Equal(t, 170.0, *rows[0].RefMax)
	assert.Equal(t, "TSH", rows[1].Marker)
}

func TestIndexedRow(t *testing.T) {
	in := defaultInput([]string{
		"3/25 A Testosterone, Total 18.5 nmol/L 8.3 - 29.0",
		"Testosterone, Total 18.5 nmol/L 8.3 - 29.0",
	})
	rows := indexedRow{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Testosterone, Total", rows[0].Marker)
	assert.Equal(t, 18.5, rows[0].Value)
}

func TestLifeLabsTable(t *testing.T) {
	in := defaultInput([]string{
		"Test Description    Flag    Result",
		"Free Androgen Index 35.2",
		"End of Report",
		"Sodium 140 mmol/L",
	})
	rows := lifeLabsTable{}.Parse(in)
	// Unit requirement is relaxed inside the table; footer stops the scan.
	require.Len(t, rows, 1)
	assert.Equal(t, "Free Androgen Index", rows[0].Marker)
	assert.Equal(t, 35.2, rows[0].Value)
}

func TestKeywordRange(t *testing.T) {
	in := Input{
		Lines: []string{
			"Testosterone your value: 18.5 nmol/L",
			"normal range: 8.3 - 29.0",
		},
		Profile: profile.KeywordRange(),
	}
	rows := keywordRange{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Testosterone", rows[0].Marker)
	assert.Equal(t, 18.5, rows[0].Value)
	require.NotNil(t, rows[0].RefMin)
	assert.Equal(t, 8.3, *rows[0].RefMin)
	assert.Equal(t, 29.0, *rows[0].RefMax)
}

func TestKeywordRange_LabelOnPreviousLine(t *testing.T) {
	in := Input{
		Lines: []string{
			"Vitamin D",
			"your value: 78 nmol/L",
			"normal range: 50 - 250",
		},
		Profile: profile.KeywordRange(),
	}
	rows := keywordRange{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Vitamin D", rows[0].Marker)
	assert.Equal(t, 78.0, rows[0].Value)
}

func TestHistorySheet_CurrentColumn(t *testing.T) {
	in := defaultInput([]string{
		"Free Testosterone (Calculated) 150 180 210 pmol/L",
	})
	rows := historySheet{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Free Testosterone (Calculated)", rows[0].Marker)
	assert.Equal(t, 210.0, rows[0].Value)
	assert.Equal(t, "pmol/L", rows[0].Unit)
}

func TestSpatialRows(t *testing.T) {
	in := Input{
		Profile: profile.Default(),
		Rows: []domain.SpatialRow{
			{Page: 1, Y: 612.4, Items: []domain.SpatialItem{
				{X: 320, Text: "14.7"},
				{X: 40, Text: "Haemoglobin"},
				{X: 380, Text: "g/dL"},
				{X: 450, Text: "13.0 - 17.0"},
			}},
		},
	}
	rows := spatialRows{}.Parse(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "Haemoglobin", rows[0].Marker)
	assert.Equal(t, 14.7, rows[0].Value)
	assert.Equal(t, "g/dL", rows[0].Unit)
}

func TestDedupe_KeepsHigherConfidence(t *testing.T) {
	lo, hi := 130.0, 170.0
	a := domain.ParsedRow{Marker: "Haemoglobin", Value: 147, Unit: "g/L", RefMin: &lo, RefMax: &hi, Confidence: 0.91}
	b := domain.ParsedRow{Marker: "HAEMOGLOBIN", Value: 147, Unit: "G/L", RefMin: &lo, RefMax: &hi, Confidence: 0.55}
	out := Dedupe([]domain.ParsedRow{b, a})
	require.Len(t, out, 1)
	assert.Equal(t, 0.91, out[0].Confidence)
}

func TestDedupe_DistinctValuesSurvive(t *testing.T) {
	a := domain.ParsedRow{Marker: "Glucose", Value: 5.2, Unit: "mmol/L", Confidence: 0.8}
	b := domain.ParsedRow{Marker: "Glucose", Value: 5.6, Unit: "mmol/L", Confidence: 0.8}
	out := Dedupe([]domain.ParsedRow{a, b})
	assert.Len(t, out, 2)
}

func TestCascade_PoolsAndDeduplicates(t *testing.T) {
	in := defaultInput([]string{
		"Haemoglobin 147 g/L 130 - 170",
		"Hematocrit 0.45 L/L 0.40 - 0.54",
		"Testosterone, Total 18.5 nmol/L 8.3 - 29.0",
	})
	rows := Cascade(in)
	require.Len(t, rows, 3)
	seen := map[string]float64{}
	for _, r := range rows {
		seen[r.Marker] = r.Value
	}
	assert.Equal(t, 147.0, seen["Haemoglobin"])
	assert.Equal(t, 0.45, seen["Hematocrit"])
	assert.Equal(t, 18.5, seen["Testosterone, Total"])
}
