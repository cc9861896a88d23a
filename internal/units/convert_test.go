package units

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"labmark/internal/domain"
)

func fp(v float64) *float64 { return &v }

func TestNormalize_TestosteroneNgDl(t *testing.T) {
	v, u, lo, hi := Normalize("Testosterone", 300, "ng/dL", fp(250), fp(1100))
	assert.InDelta(t, 10.401, v, 0.001)
	assert.Equal(t, "nmol/L", u)
	assert.InDelta(t, 8.6675, *lo, 0.001)
	assert.InDelta(t, 38.137, *hi, 0.001)
}

func TestNormalize_CanonicalUnitIsIdentity(t *testing.T) {
	v, u, lo, hi := Normalize("Testosterone", 18.5, "nmol/L", fp(8.3), fp(29))
	assert.Equal(t, 18.5, v)
	assert.Equal(t, "nmol/L", u)
	assert.Equal(t, 8.3, *lo)
	assert.Equal(t, 29.0, *hi)
}

func TestNormalize_UnitSpellingVariants(t *testing.T) {
	// Case, spacing, and the two micro glyphs all normalize the same way.
	for _, raw := range []string{"NG/DL", "ng / dl", "ng/dl"} {
		v, u, _, _ := Normalize("Testosterone", 100, raw, nil, nil)
		assert.InDelta(t, 3.467, v, 0.001, "unit %q", raw)
		assert.Equal(t, "nmol/L", u)
	}
	v, u, _, _ := Normalize("Cortisol", 10, "μg/dL", nil, nil)
	assert.InDelta(t, 275.9, v, 0.01)
	assert.Equal(t, "nmol/L", u)
}

func TestNormalize_UnknownMarkerPassesThrough(t *testing.T) {
	v, u, lo, hi := Normalize("Zinc Plasma", 12.4, "µmol/L", fp(9), fp(18))
	assert.Equal(t, 12.4, v)
	assert.Equal(t, "µmol/L", u)
	assert.Equal(t, 9.0, *lo)
	assert.Equal(t, 18.0, *hi)
}

func TestNormalize_UnknownUnitPassesThrough(t *testing.T) {
	v, u, _, _ := Normalize("Testosterone", 300, "furlongs", nil, nil)
	assert.Equal(t, 300.0, v)
	assert.Equal(t, "furlongs", u)
}

func TestNormalize_NilBounds(t *testing.T) {
	v, u, lo, hi := Normalize("Haemoglobin", 14.7, "g/dL", nil, nil)
	assert.InDelta(t, 147.0, v, 0.001)
	assert.Equal(t, "g/L", u)
	assert.Nil(t, lo)
	assert.Nil(t, hi)
}

func TestNormalize_HematocritRatio(t *testing.T) {
	// Explicit L/L reporting.
	v, u, lo, hi := Normalize("Hematocrit", 0.45, "L/L", fp(0.40), fp(0.54))
	assert.InDelta(t, 45.0, v, 0.001)
	assert.Equal(t, "%", u)
	assert.InDelta(t, 40.0, *lo, 0.001)
	assert.InDelta(t, 54.0, *hi, 0.001)

	// Unitless fraction detected by magnitude.
	v, u, _, _ = Normalize("Hematocrit", 0.47, "", nil, nil)
	assert.InDelta(t, 47.0, v, 0.001)
	assert.Equal(t, "%", u)
}

func TestNormalize_HematocritPercentUntouched(t *testing.T) {
	v, u, lo, hi := Normalize("Hematocrit", 45, "%", fp(40), fp(54))
	assert.Equal(t, 45.0, v)
	assert.Equal(t, "%", u)
	assert.Equal(t, 40.0, *lo)
	assert.Equal(t, 54.0, *hi)
}

func TestNormalize_HematocritMagnitudeGuard(t *testing.T) {
	// A percent-scale value with no unit must not be rescaled.
	v, u, _, _ := Normalize("Hematocrit", 45, "", fp(40), fp(54))
	assert.Equal(t, 45.0, v)
	assert.Equal(t, "%", u)
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts("Testosterone", "ng/dL"))
	assert.True(t, Accepts("Testosterone", "nmol/L"))
	assert.False(t, Accepts("Testosterone", "IU/L"))
	assert.False(t, Accepts("Zinc Plasma", "µmol/L"))
}

func TestCanonicalUnit(t *testing.T) {
	u, ok := CanonicalUnit("Estradiol")
	assert.True(t, ok)
	assert.Equal(t, "pmol/L", u)

	_, ok = CanonicalUnit("Zinc Plasma")
	assert.False(t, ok)
}

func TestToSystemAndBack(t *testing.T) {
	us, unit, ok := ToSystem("Testosterone", 18.5, domain.UnitSystemUS)
	assert.True(t, ok)
	assert.Equal(t, "ng/dL", unit)
	assert.InDelta(t, 533.54, us, 0.01)

	back, cu, ok := FromSystem("Testosterone", us, domain.UnitSystemUS)
	assert.True(t, ok)
	assert.Equal(t, "nmol/L", cu)
	assert.InDelta(t, 18.5, back, 0.0001)
}

func TestToSystem_NoRule(t *testing.T) {
	_, _, ok := ToSystem("Ferritin", 80, domain.UnitSystemUS)
	assert.False(t, ok)
}
