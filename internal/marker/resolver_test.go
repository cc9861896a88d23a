package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"labmark/internal/domain"
)

func TestResolve_ExactAlias(t *testing.T) {
	res := Resolve("Testosterone, Total", "nmol/L", nil, domain.ResolveBalanced)
	assert.Equal(t, Testosterone, res.Canonical)
	assert.Equal(t, domain.MethodExactAlias, res.Method)
	assert.InDelta(t, 0.99, res.Confidence, 0.001)
}

func TestResolve_AliasIsCaseAndPunctuationInsensitive(t *testing.T) {
	for _, label := range []string{"TESTOSTERONE TOTAL", "testosterone total", "Testosterone  Total"} {
		res := Resolve(label, "", nil, domain.ResolveBalanced)
		assert.Equal(t, Testosterone, res.Canonical, "label %q", label)
	}
}

func TestResolve_OverrideWinsOverAlias(t *testing.T) {
	overrides := NormalizeOverrides(map[string]string{"Testosterone, Total": "My Custom Marker"})
	res := Resolve("Testosterone, Total", "nmol/L", overrides, domain.ResolveBalanced)
	assert.Equal(t, "My Custom Marker", res.Canonical)
	assert.Equal(t, domain.MethodOverride, res.Method)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestResolve_PatternFreeAndTotal(t *testing.T) {
	// Combined panels report the total on this row.
	res := Resolve("Free & Total Testosterone Panel", "nmol/L", nil, domain.ResolveBalanced)
	assert.Equal(t, Testosterone, res.Canonical)
	assert.Equal(t, domain.MethodPattern, res.Method)
}

func TestResolve_SpecimenGuard(t *testing.T) {
	// A urine label must never land on the serum canonical.
	res := Resolve("Cortisol Urine 24h collection", "nmol/d", nil, domain.ResolveBalanced)
	assert.Equal(t, "Cortisol Urine", res.Canonical)

	serum := Resolve("Cortisol AM", "nmol/L", nil, domain.ResolveBalanced)
	assert.Equal(t, Cortisol, serum.Canonical)
}

func TestResolve_SpecimenGuardAppliesToOverrides(t *testing.T) {
	overrides := NormalizeOverrides(map[string]string{"urine cortisol special": Cortisol})
	res := Resolve("Urine Cortisol Special", "", overrides, domain.ResolveBalanced)
	assert.NotEqual(t, domain.MethodOverride, res.Method)
	assert.NotEqual(t, Cortisol, res.Canonical)
}

func TestResolve_TokenScoreFuzzyMatch(t *testing.T) {
	res := Resolve("Sex Horm Binding Glob, Serum", "nmol/L", nil, domain.ResolveBalanced)
	assert.Equal(t, SHBG, res.Canonical)
}

func TestResolve_ModeThresholds(t *testing.T) {
	// A weak partial match should pass aggressive but not conservative.
	label := "Binding Globulin"
	aggressive := Resolve(label, "nmol/L", nil, domain.ResolveAggressive)
	conservative := Resolve(label, "nmol/L", nil, domain.ResolveConservative)
	if aggressive.Method == domain.MethodTokenScore {
		assert.NotEqual(t, domain.MethodTokenScore, conservative.Method)
	}
}

func TestResolve_NarrativeFallsToUnknownZero(t *testing.T) {
	res := Resolve("Testosterone levels below 8 nmol/L are consistent with hypogonadism according to guidelines", "", nil, domain.ResolveBalanced)
	assert.Equal(t, UnknownMarker, res.Canonical)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, domain.MethodUnknown, res.Method)
}

func TestResolve_UnmatchedKeepsVerbatimTitleCase(t *testing.T) {
	res := Resolve("zinc plasma", "µmol/L", nil, domain.ResolveBalanced)
	assert.Equal(t, "Zinc Plasma", res.Canonical)
	assert.Equal(t, domain.MethodUnknown, res.Method)
	assert.InDelta(t, 0.35, res.Confidence, 0.001)
}

func TestResolve_Idempotent(t *testing.T) {
	// Resolving a canonical name returns the same canonical at full alias
	// confidence; every catalog name is indexed as an alias of itself.
	for _, c := range []string{Testosterone, FreeTestosterone, SHBG, Estradiol, Hematocrit, Hemoglobin} {
		res := Resolve(c, "", nil, domain.ResolveBalanced)
		assert.Equal(t, c, res.Canonical, "canonical %q must be a fixed point", c)
		assert.GreaterOrEqual(t, res.Confidence, 0.99, "canonical %q", c)
	}
}

func TestResolve_EmptyLabel(t *testing.T) {
	res := Resolve("   ", "", nil, domain.ResolveBalanced)
	assert.Equal(t, UnknownMarker, res.Canonical)
}

func TestResolve_HemoglobinNotA1c(t *testing.T) {
	res := Resolve("Hemoglobin A1c", "%", nil, domain.ResolveBalanced)
	assert.NotEqual(t, Hemoglobin, res.Canonical)
	assert.Equal(t, "HbA1c", res.Canonical)
}

func TestNormalizeOverrides_DropsMalformed(t *testing.T) {
	out := NormalizeOverrides(map[string]string{
		"  ":        "Something",
		"valid key": "  ",
		"Real One":  "Testosterone",
	})
	assert.Len(t, out, 1)
	assert.Equal(t, "Testosterone", out["real one"])
}
