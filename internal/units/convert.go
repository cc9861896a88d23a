// Package units normalizes raw unit/value/range triples into one canonical
// unit per marker, and converts between unit systems for display. Unknown
// marker/unit combinations pass through unchanged; the plausibility filter
// downstream is responsible for rejecting them.
package units

import (
	"strings"

	"labmark/internal/domain"
)

// rule describes one accepted raw unit for a marker: the factor that scales
// it into the canonical unit.
type rule struct {
	canonicalUnit string
	factors       map[string]float64 // normalized raw unit -> factor
}

func normUnit(u string) string {
	u = strings.TrimSpace(u)
	u = strings.ReplaceAll(u, "μ", "µ")
	u = strings.ReplaceAll(u, " ", "")
	return strings.ToLower(u)
}

// conversionRules is keyed by canonical marker name. Values and reference
// bounds are always scaled with the same factor.
var conversionRules = map[string]rule{
	"Testosterone": {
		canonicalUnit: "nmol/L",
		factors: map[string]float64{
			"nmol/l": 1,
			"ng/ml":  3.467,
			"ng/dl":  0.03467,
		},
	},
	"Bioavailable Testosterone": {
		canonicalUnit: "nmol/L",
		factors: map[string]float64{
			"nmol/l": 1,
			"ng/ml":  3.467,
			"ng/dl":  0.03467,
		},
	},
	"Free Testosterone": {
		canonicalUnit: "pmol/L",
		factors: map[string]float64{
			"pmol/l": 1,
			"nmol/l": 1000,
			"pg/ml":  3.467,
			"ng/dl":  34.67,
		},
	},
	"Estradiol": {
		canonicalUnit: "pmol/L",
		factors: map[string]float64{
			"pmol/l": 1,
			"pg/ml":  3.671,
			"ng/l":   3.671,
		},
	},
	"SHBG": {
		canonicalUnit: "nmol/L",
		factors:       map[string]float64{"nmol/l": 1},
	},
	"Cortisol": {
		canonicalUnit: "nmol/L",
		factors: map[string]float64{
			"nmol/l": 1,
			"µg/dl":  27.59,
			"ug/dl":  27.59,
		},
	},
	"Haemoglobin": {
		canonicalUnit: "g/L",
		factors: map[string]float64{
			"g/l":    1,
			"g/dl":   10,
			"mmol/l": 16.114, // rare northern-European reporting
		},
	},
	"Glucose": {
		canonicalUnit: "mmol/L",
		factors: map[string]float64{
			"mmol/l": 1,
			"mg/dl":  0.0555,
		},
	},
	"Total Cholesterol": {
		canonicalUnit: "mmol/L",
		factors: map[string]float64{
			"mmol/l": 1,
			"mg/dl":  0.02586,
		},
	},
	"HDL Cholesterol": {
		canonicalUnit: "mmol/L",
		factors: map[string]float64{
			"mmol/l": 1,
			"mg/dl":  0.02586,
		},
	},
	"LDL Cholesterol": {
		canonicalUnit: "mmol/L",
		factors: map[string]float64{
			"mmol/l": 1,
			"mg/dl":  0.02586,
		},
	},
	"Triglycerides": {
		canonicalUnit: "mmol/L",
		factors: map[string]float64{
			"mmol/l": 1,
			"mg/dl":  0.01129,
		},
	},
	"Creatinine": {
		canonicalUnit: "µmol/L",
		factors: map[string]float64{
			"µmol/l": 1,
			"umol/l": 1,
			"mg/dl":  88.42,
		},
	},
	"Ferritin": {
		canonicalUnit: "µg/L",
		factors: map[string]float64{
			"µg/l":  1,
			"ug/l":  1,
			"ng/ml": 1,
		},
	},
	"Vitamin D": {
		canonicalUnit: "nmol/L",
		factors: map[string]float64{
			"nmol/l": 1,
			"ng/ml":  2.496,
		},
	},
	"Vitamin B12": {
		canonicalUnit: "pmol/L",
		factors: map[string]float64{
			"pmol/l": 1,
			"pg/ml":  0.7378,
			"ng/l":   0.7378,
		},
	},
	"Prolactin": {
		canonicalUnit: "mIU/L",
		factors: map[string]float64{
			"miu/l": 1,
			"ng/ml": 21.2,
			"µg/l":  21.2,
			"ug/l":  21.2,
		},
	},
	"Free T4": {
		canonicalUnit: "pmol/L",
		factors: map[string]float64{
			"pmol/l": 1,
			"ng/dl":  12.87,
		},
	},
	"Free T3": {
		canonicalUnit: "pmol/L",
		factors: map[string]float64{
			"pmol/l": 1,
			"pg/ml":  1.536,
		},
	},
	"Albumin": {
		canonicalUnit: "g/L",
		factors: map[string]float64{
			"g/l":  1,
			"g/dl": 10,
		},
	},
}

// Accepts reports whether a raw unit is a known input unit for a marker.
func Accepts(canonical, rawUnit string) bool {
	r, ok := conversionRules[canonical]
	if !ok {
		return false
	}
	_, ok = r.factors[normUnit(rawUnit)]
	return ok
}

// CanonicalUnit returns the canonical unit for a marker, if one is defined.
func CanonicalUnit(canonical string) (string, bool) {
	r, ok := conversionRules[canonical]
	if !ok {
		return "", false
	}
	return r.canonicalUnit, true
}

// Normalize converts value and reference bounds into the marker's canonical
// unit. Unknown marker/unit combinations pass through unchanged so nothing is
// silently corrupted.
func Normalize(canonical string, value float64, unit string, refMin, refMax *float64) (float64, string, *float64, *float64) {
	if canonical == "Hematocrit" {
		return normalizeHematocrit(value, unit, refMin, refMax)
	}
	r, ok := conversionRules[canonical]
	if !ok {
		return value, unit, refMin, refMax
	}
	factor, ok := r.factors[normUnit(unit)]
	if !ok {
		return value, unit, refMin, refMax
	}
	return value * factor, r.canonicalUnit, scale(refMin, factor), scale(refMax, factor)
}

// normalizeHematocrit handles the ratio-vs-percent reporting split: L/L (or
// any value that, together with its bounds, sits at or below 1.5) is a
// fraction and is reported as percent.
func normalizeHematocrit(value float64, unit string, refMin, refMax *float64) (float64, string, *float64, *float64) {
	isRatio := normUnit(unit) == "l/l"
	if !isRatio && value <= 1.5 && belowOrNil(refMin, 1.5) && belowOrNil(refMax, 1.5) {
		isRatio = true
	}
	if isRatio {
		return value * 100, "%", scale(refMin, 100), scale(refMax, 100)
	}
	return value, "%", refMin, refMax
}

func belowOrNil(v *float64, bound float64) bool {
	return v == nil || *v <= bound
}

func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * factor
	return &out
}

// systemFactors convert a canonical-unit value into the named system's
// display unit. Display only; stored drafts stay canonical.
var systemFactors = map[string]map[domain.UnitSystem]struct {
	unit   string
	factor float64
}{
	"Testosterone": {
		domain.UnitSystemEU: {"nmol/L", 1},
		domain.UnitSystemUS: {"ng/dL", 28.84},
	},
	"Free Testosterone": {
		domain.UnitSystemEU: {"pmol/L", 1},
		domain.UnitSystemUS: {"pg/mL", 0.2884},
	},
	"Estradiol": {
		domain.UnitSystemEU: {"pmol/L", 1},
		domain.UnitSystemUS: {"pg/mL", 0.2724},
	},
	"Glucose": {
		domain.UnitSystemEU: {"mmol/L", 1},
		domain.UnitSystemUS: {"mg/dL", 18.016},
	},
	"Total Cholesterol": {
		domain.UnitSystemEU: {"mmol/L", 1},
		domain.UnitSystemUS: {"mg/dL", 38.67},
	},
	"HDL Cholesterol": {
		domain.UnitSystemEU: {"mmol/L", 1},
		domain.UnitSystemUS: {"mg/dL", 38.67},
	},
	"LDL Cholesterol": {
		domain.UnitSystemEU: {"mmol/L", 1},
		domain.UnitSystemUS: {"mg/dL", 38.67},
	},
	"Triglycerides": {
		domain.UnitSystemEU: {"mmol/L", 1},
		domain.UnitSystemUS: {"mg/dL", 88.57},
	},
	"Creatinine": {
		domain.UnitSystemEU: {"µmol/L", 1},
		domain.UnitSystemUS: {"mg/dL", 0.01131},
	},
	"Vitamin D": {
		domain.UnitSystemEU: {"nmol/L", 1},
		domain.UnitSystemUS: {"ng/mL", 0.4006},
	},
	"Haemoglobin": {
		domain.UnitSystemEU: {"g/L", 1},
		domain.UnitSystemUS: {"g/dL", 0.1},
	},
}

// ToSystem converts a canonical-unit value into the requested system's
// display unit. Returns the input untouched when no rule exists.
func ToSystem(canonical string, value float64, system domain.UnitSystem) (float64, string, bool) {
	m, ok := systemFactors[canonical]
	if !ok {
		return value, "", false
	}
	f, ok := m[system]
	if !ok {
		return value, "", false
	}
	return value * f.factor, f.unit, true
}

// FromSystem converts a system display value back into the canonical unit.
func FromSystem(canonical string, value float64, system domain.UnitSystem) (float64, string, bool) {
	m, ok := systemFactors[canonical]
	if !ok {
		return value, "", false
	}
	f, ok := m[system]
	if !ok || f.factor == 0 {
		return value, "", false
	}
	cu, _ := CanonicalUnit(canonical)
	return value / f.factor, cu, true
}
