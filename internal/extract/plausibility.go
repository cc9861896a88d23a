package extract

import "labmark/internal/domain"

// plausibleRange is the hand-tuned accept window for a marker in its
// canonical unit. Empirical bounds; revisit against a larger fixture corpus
// before trusting them for anything beyond row filtering.
type plausibleRange struct {
	min, max float64
}

var plausibleRanges = map[string]plausibleRange{
	"Testosterone":              {0.5, 120},  // nmol/L
	"Free Testosterone":         {1, 3000},   // pmol/L
	"Bioavailable Testosterone": {0.1, 40},   // nmol/L
	"SHBG":                      {1, 400},    // nmol/L
	"Estradiol":                 {1, 15000},  // pmol/L
	"Cortisol":                  {5, 2000},   // nmol/L
	"Hematocrit":                {10, 70},    // %
	"Haemoglobin":               {40, 250},   // g/L
	"Red Blood Cells":           {1, 9},      // 10^12/L
	"White Blood Cells":         {0.5, 60},   // 10^9/L
	"Platelets":                 {10, 1500},  // 10^9/L
	"Ferritin":                  {1, 4000},   // µg/L
	"Glucose":                   {1, 50},     // mmol/L
	"HbA1c":                     {3, 200},    // % or mmol/mol
	"Total Cholesterol":         {1, 20},     // mmol/L
	"HDL Cholesterol":           {0.2, 5},    // mmol/L
	"LDL Cholesterol":           {0.2, 15},   // mmol/L
	"Triglycerides":             {0.1, 30},   // mmol/L
	"Creatinine":                {10, 1500},  // µmol/L
	"eGFR":                      {1, 200},    // mL/min/1.73m2
	"TSH":                       {0.01, 150}, // mIU/L
	"Free T4":                   {1, 100},    // pmol/L
	"Free T3":                   {0.5, 50},   // pmol/L
	"Vitamin D":                 {5, 600},    // nmol/L
	"Vitamin B12":               {20, 5000},  // pmol/L
	"Prolactin":                 {10, 10000}, // mIU/L
	"PSA":                       {0.01, 500}, // µg/L
	"LH":                        {0.1, 200},  // IU/L
	"FSH":                       {0.1, 300},  // IU/L
	"Albumin":                   {10, 70},    // g/L
	"ALT":                       {1, 3000},   // U/L
	"AST":                       {1, 3000},   // U/L
}

// plausible reports whether a canonicalized, unit-normalized marker value is
// inside the accept window. Markers without a window pass (their values were
// never unit-normalized, so a bounds check would be meaningless).
func plausible(m *domain.MarkerValue) bool {
	r, ok := plausibleRanges[m.Canonical]
	if !ok {
		return true
	}
	return m.Value >= r.min && m.Value <= r.max
}

// filterPlausible drops rows outside their marker's accept window.
func filterPlausible(markers []domain.MarkerValue) []domain.MarkerValue {
	out := markers[:0]
	for _, m := range markers {
		if plausible(&m) {
			out = append(out, m)
		}
	}
	return out
}
