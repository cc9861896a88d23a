// Package marker canonicalizes raw lab-report labels: sanitizing noisy text,
// scoring candidates against a data-driven rule table, and resolving them to
// catalog entries via overrides, aliases, patterns, or token-overlap scoring.
package marker

import (
	"regexp"
	"strings"

	"labmark/internal/domain"
)

var keyNormRe = regexp.MustCompile(`\s+`)

// NormalizeKey lowercases and collapses whitespace so alias lookups are
// insensitive to formatting noise.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, ".,:;")
	return keyNormRe.ReplaceAllString(s, " ")
}

// Canonical marker names referenced throughout the engine.
const (
	Testosterone             = "Testosterone"
	FreeTestosterone         = "Free Testosterone"
	BioavailableTestosterone = "Bioavailable Testosterone"
	SHBG                     = "SHBG"
	Estradiol                = "Estradiol"
	Hematocrit               = "Hematocrit"
	Hemoglobin               = "Haemoglobin"
	Cortisol                 = "Cortisol"
	UnknownMarker            = "Unknown Marker"
)

// ImportantMarkers is the fixed short list used by coverage-based quality
// decisions.
var ImportantMarkers = []string{
	Testosterone, FreeTestosterone, Estradiol, Hematocrit, SHBG,
}

// IsImportant reports whether a canonical name is on the coverage list.
func IsImportant(canonical string) bool {
	for _, m := range ImportantMarkers {
		if m == canonical {
			return true
		}
	}
	return false
}

func us(u string) map[domain.UnitSystem]string {
	return map[domain.UnitSystem]string{domain.UnitSystemEU: u, domain.UnitSystemUS: u}
}

func eus(eu, usUnit string) map[domain.UnitSystem]string {
	return map[domain.UnitSystem]string{domain.UnitSystemEU: eu, domain.UnitSystemUS: usUnit}
}

// catalog is the static reference table. Read-only at resolution time;
// per-user alias overrides are layered on top by the resolver.
var catalog = []domain.CatalogEntry{
	{
		Canonical: Testosterone, Category: "hormones",
		Aliases: []string{
			"testosterone", "testosterone total", "total testosterone",
			"testosterone, total", "testosterone total lc/ms/ms", "testosteron",
		},
		PreferredUnit:  eus("nmol/L", "ng/dL"),
		MustNotContain: []string{"free", "bioavailable", "urine"},
	},
	{
		Canonical: FreeTestosterone, Category: "hormones",
		Aliases: []string{
			"free testosterone", "testosterone free", "testosterone, free",
			"free testosterone calculated", "calculated free testosterone",
		},
		PreferredUnit: eus("pmol/L", "pg/mL"),
		MustContain:   []string{"free"},
	},
	{
		Canonical: BioavailableTestosterone, Category: "hormones",
		Aliases: []string{
			"bioavailable testosterone", "testosterone bioavailable",
			"bio-available testosterone",
		},
		PreferredUnit: eus("nmol/L", "ng/dL"),
		MustContain:   []string{"bioavailable"},
	},
	{
		Canonical: SHBG, Category: "hormones",
		Aliases: []string{
			"shbg", "sex hormone binding globulin", "sex horm binding glob",
			"sex hormone-binding globulin", "sex horm binding glob, serum",
		},
		PreferredUnit: us("nmol/L"),
	},
	{
		Canonical: Estradiol, Category: "hormones",
		Aliases: []string{
			"estradiol", "oestradiol", "estradiol e2", "e2", "17-beta estradiol",
			"estradiol sensitive",
		},
		PreferredUnit: eus("pmol/L", "pg/mL"),
	},
	{
		Canonical: Cortisol, Category: "hormones",
		Aliases:   []string{"cortisol", "cortisol am", "cortisol a.m.", "morning cortisol"},
		PreferredUnit: eus("nmol/L", "µg/dL"),
		MustNotContain: []string{"urine"},
	},
	{
		Canonical: "Cortisol Urine", Category: "hormones",
		Aliases:       []string{"cortisol urine", "urine cortisol", "cortisol, 24hr urine"},
		PreferredUnit: us("nmol/d"),
		MustContain:   []string{"urine"},
	},
	{
		Canonical: "LH", Category: "hormones",
		Aliases:       []string{"lh", "luteinizing hormone", "luteinising hormone"},
		PreferredUnit: us("IU/L"),
	},
	{
		Canonical: "FSH", Category: "hormones",
		Aliases:       []string{"fsh", "follicle stimulating hormone"},
		PreferredUnit: us("IU/L"),
	},
	{
		Canonical: "Prolactin", Category: "hormones",
		Aliases:       []string{"prolactin"},
		PreferredUnit: eus("mIU/L", "ng/mL"),
	},
	{
		Canonical: "DHT", Category: "hormones",
		Aliases:       []string{"dht", "dihydrotestosterone"},
		PreferredUnit: eus("nmol/L", "ng/dL"),
	},
	{
		Canonical: "Progesterone", Category: "hormones",
		Aliases:       []string{"progesterone"},
		PreferredUnit: eus("nmol/L", "ng/mL"),
	},
	{
		Canonical: Hematocrit, Category: "hematology",
		Aliases: []string{
			"hematocrit", "haematocrit", "hct", "packed cell volume", "pcv",
		},
		PreferredUnit: us("%"),
	},
	{
		Canonical: Hemoglobin, Category: "hematology",
		Aliases:       []string{"haemoglobin", "hemoglobin", "hgb", "hb"},
		PreferredUnit: eus("g/L", "g/dL"),
		MustNotContain: []string{"a1c", "glycated"},
	},
	{
		Canonical: "Red Blood Cells", Category: "hematology",
		Aliases:       []string{"red blood cells", "rbc", "erythrocytes", "red blood cell count"},
		PreferredUnit: us("10^12/L"),
	},
	{
		Canonical: "White Blood Cells", Category: "hematology",
		Aliases:       []string{"white blood cells", "wbc", "leukocytes", "white blood cell count"},
		PreferredUnit: us("10^9/L"),
	},
	{
		Canonical: "Platelets", Category: "hematology",
		Aliases:       []string{"platelets", "platelet count", "plt", "thrombocytes"},
		PreferredUnit: us("10^9/L"),
	},
	{
		Canonical: "Ferritin", Category: "iron",
		Aliases:       []string{"ferritin"},
		PreferredUnit: us("µg/L"),
	},
	{
		Canonical: "PSA", Category: "oncology",
		Aliases:       []string{"psa", "prostate specific antigen", "psa total"},
		PreferredUnit: us("µg/L"),
	},
	{
		Canonical: "TSH", Category: "thyroid",
		Aliases:       []string{"tsh", "thyroid stimulating hormone", "thyrotropin"},
		PreferredUnit: us("mIU/L"),
	},
	{
		Canonical: "Free T4", Category: "thyroid",
		Aliases:       []string{"free t4", "ft4", "thyroxine free", "free thyroxine"},
		PreferredUnit: eus("pmol/L", "ng/dL"),
	},
	{
		Canonical: "Free T3", Category: "thyroid",
		Aliases:       []string{"free t3", "ft3", "triiodothyronine free", "free triiodothyronine"},
		PreferredUnit: eus("pmol/L", "pg/mL"),
	},
	{
		Canonical: "Total Cholesterol", Category: "lipids",
		Aliases:       []string{"cholesterol", "total cholesterol", "cholesterol total"},
		PreferredUnit: eus("mmol/L", "mg/dL"),
		MustNotContain: []string{"hdl", "ldl", "non-hdl"},
	},
	{
		Canonical: "HDL Cholesterol", Category: "lipids",
		Aliases:       []string{"hdl", "hdl cholesterol", "hdl-c", "cholesterol hdl"},
		PreferredUnit: eus("mmol/L", "mg/dL"),
	},
	{
		Canonical: "LDL Cholesterol", Category: "lipids",
		Aliases:       []string{"ldl", "ldl cholesterol", "ldl-c", "cholesterol ldl", "ldl calculated"},
		PreferredUnit: eus("mmol/L", "mg/dL"),
	},
	{
		Canonical: "Triglycerides", Category: "lipids",
		Aliases:       []string{"triglycerides", "triglyceride", "trig"},
		PreferredUnit: eus("mmol/L", "mg/dL"),
	},
	{
		Canonical: "Glucose", Category: "metabolic",
		Aliases:       []string{"glucose", "glucose fasting", "fasting glucose", "glucose random"},
		PreferredUnit: eus("mmol/L", "mg/dL"),
		MustNotContain: []string{"urine"},
	},
	{
		Canonical: "HbA1c", Category: "metabolic",
		Aliases:       []string{"hba1c", "hemoglobin a1c", "haemoglobin a1c", "glycated hemoglobin", "a1c"},
		PreferredUnit: eus("mmol/mol", "%"),
	},
	{
		Canonical: "Creatinine", Category: "renal",
		Aliases:       []string{"creatinine", "creatinine serum"},
		PreferredUnit: eus("µmol/L", "mg/dL"),
		MustNotContain: []string{"urine"},
	},
	{
		Canonical: "eGFR", Category: "renal",
		Aliases:       []string{"egfr", "estimated gfr", "glomerular filtration rate"},
		PreferredUnit: us("mL/min/1.73m2"),
	},
	{
		Canonical: "ALT", Category: "liver",
		Aliases:       []string{"alt", "alanine aminotransferase", "sgpt", "alanine transaminase"},
		PreferredUnit: us("U/L"),
	},
	{
		Canonical: "AST", Category: "liver",
		Aliases:       []string{"ast", "aspartate aminotransferase", "sgot", "aspartate transaminase"},
		PreferredUnit: us("U/L"),
	},
	{
		Canonical: "Vitamin D", Category: "vitamins",
		Aliases:       []string{"vitamin d", "25-oh vitamin d", "25-hydroxyvitamin d", "vitamin d 25-hydroxy"},
		PreferredUnit: eus("nmol/L", "ng/mL"),
	},
	{
		Canonical: "Vitamin B12", Category: "vitamins",
		Aliases:       []string{"vitamin b12", "b12", "cobalamin"},
		PreferredUnit: eus("pmol/L", "pg/mL"),
	},
	{
		Canonical: "Albumin", Category: "proteins",
		Aliases:       []string{"albumin", "albumin serum"},
		PreferredUnit: eus("g/L", "g/dL"),
		MustNotContain: []string{"urine", "ratio"},
	},
}

var aliasIndex map[string]string

func init() {
	aliasIndex = make(map[string]string, len(catalog)*4)
	for _, e := range catalog {
		aliasIndex[NormalizeKey(e.Canonical)] = e.Canonical
		for _, a := range e.Aliases {
			aliasIndex[NormalizeKey(a)] = e.Canonical
		}
	}
}

// Entries returns the static catalog. Callers must treat it as read-only.
func Entries() []domain.CatalogEntry {
	return catalog
}

// LookupAlias returns the canonical name for an exact (normalized) alias.
func LookupAlias(label string) (string, bool) {
	c, ok := aliasIndex[NormalizeKey(label)]
	return c, ok
}

// PreferredUnit returns the canonical unit for a marker in the given system.
func PreferredUnit(canonical string, system domain.UnitSystem) (string, bool) {
	for _, e := range catalog {
		if e.Canonical == canonical {
			u, ok := e.PreferredUnit[system]
			return u, ok
		}
	}
	return "", false
}

// IsUrineSpecimen reports whether a canonical name denotes a urine
// measurement. Specimen is encoded as a name suffix by convention.
func IsUrineSpecimen(canonical string) bool {
	return strings.HasSuffix(strings.ToLower(canonical), "urine")
}

// SameSpecimen reports whether two canonical names refer to the same body
// specimen. Blood and urine forms of a marker must never be merged, no
// matter how similar the labels look.
func SameSpecimen(a, b string) bool {
	return IsUrineSpecimen(a) == IsUrineSpecimen(b)
}
