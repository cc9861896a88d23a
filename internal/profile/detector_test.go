package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_Default(t *testing.T) {
	p := Detect("Haemoglobin 147 g/L 130 - 170\nFerritin 82 µg/L", "report.pdf")
	assert.Equal(t, "default", p.ID)
	assert.True(t, p.RequireUnit)
	assert.False(t, p.KeywordRangeRows)
}

func TestDetect_KeywordRange(t *testing.T) {
	sample := "Testosterone your value: 18.5 nmol/L\nnormal range: 8.3 - 29.0"
	p := Detect(sample, "portal-export.pdf")
	assert.Equal(t, "keyword-range", p.ID)
	assert.False(t, p.RequireUnit)
	assert.True(t, p.KeywordRangeRows)
}

func TestDetect_BothKeywordFamiliesRequired(t *testing.T) {
	p := Detect("your value: 18.5 and nothing else", "x.pdf")
	assert.Equal(t, "default", p.ID)
}

func TestIsNoiseLine(t *testing.T) {
	p := Default()
	assert.True(t, p.IsNoiseLine("Page 3 of 4"))
	assert.True(t, p.IsNoiseLine("  www.lablink.example  "))
	assert.False(t, p.IsNoiseLine("Haemoglobin 147 g/L"))

	kw := KeywordRange()
	assert.False(t, kw.IsNoiseLine("Page 3 of 4"))
}
