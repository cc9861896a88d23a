package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Haemoglobin", "Haemoglobin"},
		{"leading junk", "** Ferritin", "Ferritin"},
		{"flattened index prefix", "3/25 A Testosterone, Total", "Testosterone, Total"},
		{"method suffix", "Testosterone, Total, LC/MS/MS", "Testosterone, Total"},
		{"method suffix parenthesized", "Free Testosterone (Calculated)", "Free Testosterone"},
		{"reference range phrase", "Estradiol reference range 40 - 160", "Estradiol"},
		{"section header", "HEMATOLOGY Hemoglobin", "Hemoglobin"},
		{"stacked section headers", "ENDOCRINOLOGY HORMONES Cortisol", "Cortisol"},
		{"trailing comparison", "eGFR >", "eGFR"},
		{"micro sign survives", "µ-albumin", "µ-albumin"},
		{"whitespace only", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Ferritin Serum", TitleCase("ferritin serum"))
	assert.Equal(t, "Zinc Plasma", TitleCase("ZINC PLASMA"))
	// Allowlisted short tokens render upper-case.
	assert.Equal(t, "HDL Cholesterol", TitleCase("hdl cholesterol"))
	assert.Equal(t, "Free T4", TitleCase("free t4"))
}
