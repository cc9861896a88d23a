package rowparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnitToken(t *testing.T) {
	for _, tok := range []string{"g/L", "nmol/L", "pmol/l", "ng/dL", "%", "fL", "ratio", "L/L", "10^9/L", "mIU/L", "mL/min/1.73m2", "(g/L)"} {
		assert.True(t, IsUnitToken(tok), "token %q", tok)
	}
	for _, tok := range []string{"147", "130-170", "Haemoglobin", "LC/MS/MS", "", "-"} {
		assert.False(t, IsUnitToken(tok), "token %q", tok)
	}
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"147", 147, true},
		{"34.2", 34.2, true},
		{"34,2", 34.2, true},
		{"<0.5", 0.5, true},
		{">1100", 1100, true},
		{"(18.5)", 18.5, true},
		{"g/L", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		v, ok := ParseNumeric(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, v, "input %q", tc.in)
		}
	}
}

func TestParseRange(t *testing.T) {
	lo, hi := parseRange("Haemoglobin 147 g/L 130 - 170")
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 130.0, *lo)
	assert.Equal(t, 170.0, *hi)

	lo, hi = parseRange("PSA 0.8 µg/L (< 4.0)")
	assert.Nil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 4.0, *hi)

	lo, hi = parseRange("eGFR 95 mL/min/1.73m2 ( > 60 )")
	require.NotNil(t, lo)
	assert.Nil(t, hi)
	assert.Equal(t, 60.0, *lo)

	lo, hi = parseRange("no numbers here")
	assert.Nil(t, lo)
	assert.Nil(t, hi)
}

func TestParseRange_InvertedBoundsRejected(t *testing.T) {
	lo, hi := parseRange("Something 170 - 130")
	assert.Nil(t, lo)
	assert.Nil(t, hi)
}

func TestScanRow_RightAnchoredUnit(t *testing.T) {
	row, ok := scanRow("Haemoglobin 147 g/L 130 - 170", true)
	require.True(t, ok)
	assert.Equal(t, "Haemoglobin", row.label)
	assert.Equal(t, 147.0, row.value)
	assert.Equal(t, "g/L", row.unit)
	require.NotNil(t, row.refMin)
	require.NotNil(t, row.refMax)
	assert.Equal(t, 130.0, *row.refMin)
	assert.Equal(t, 170.0, *row.refMax)
}

func TestScanRow_ValueSkipsRangeBounds(t *testing.T) {
	// Unit trails the range; the value must not be confused with a bound.
	row, ok := scanRow("Testosterone, Total, LC/MS/MS 300 250 - 1100 ng/dL", true)
	require.True(t, ok)
	assert.Equal(t, "Testosterone, Total, LC/MS/MS", row.label)
	assert.Equal(t, 300.0, row.value)
	assert.Equal(t, "ng/dL", row.unit)
	require.NotNil(t, row.refMin)
	assert.Equal(t, 250.0, *row.refMin)
}

func TestScanRow_GluedRange(t *testing.T) {
	row, ok := scanRow("Ferritin 82 µg/L 30-400", true)
	require.True(t, ok)
	assert.Equal(t, 82.0, row.value)
	require.NotNil(t, row.refMax)
	assert.Equal(t, 400.0, *row.refMax)
}

func TestScanRow_RequireUnit(t *testing.T) {
	_, ok := scanRow("Free Androgen Index 35.2", true)
	assert.False(t, ok)

	row, ok := scanRow("Free Androgen Index 35.2", false)
	require.True(t, ok)
	assert.Equal(t, 35.2, row.value)
	assert.Equal(t, "", row.unit)
}

func TestScanRow_NoValue(t *testing.T) {
	_, ok := scanRow("Specimen received in good condition", false)
	assert.False(t, ok)
}

func TestEndsWithNumber(t *testing.T) {
	assert.True(t, endsWithNumber("value 42"))
	assert.True(t, endsWithNumber("34.2 pmol/L"))
	assert.False(t, endsWithNumber("Free Testosterone"))
	assert.False(t, endsWithNumber(""))
}
