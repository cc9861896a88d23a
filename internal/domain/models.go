package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded report file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// SpatialItem is one positioned text fragment on a page.
type SpatialItem struct {
	X    float64 `json:"x"`
	Text string  `json:"text"`
}

// SpatialRow groups fragments that share a page and baseline.
type SpatialRow struct {
	Page  int           `json:"page"`
	Y     float64       `json:"y"`
	Items []SpatialItem `json:"items"`
}

// RawTextLayout is what the PDF text layer or OCR engine hands back.
// Consumed read-only by the extraction pipeline.
type RawTextLayout struct {
	Text      string       `json:"text"`
	PageCount int          `json:"page_count"`
	ItemCount int          `json:"item_count"`
	LineCount int          `json:"line_count"`
	CharCount int          `json:"char_count"` // non-whitespace characters
	// Partial is set when the producer stopped short of the full document,
	// e.g. an OCR pass truncated by the page cap.
	Partial bool         `json:"partial,omitempty"`
	Rows    []SpatialRow `json:"rows,omitempty"`
}

// ParsedRow is the transient output of a single parsing strategy,
// before canonicalization and unit normalization.
type ParsedRow struct {
	Marker     string
	Value      float64
	Unit       string
	RefMin     *float64
	RefMax     *float64
	Confidence float64
}

// MarkerValue is one extracted measurement in a draft.
type MarkerValue struct {
	ID           uuid.UUID    `json:"id"`
	Marker       string       `json:"marker"`
	Canonical    string       `json:"canonicalMarker"`
	Value        float64      `json:"value"`
	Unit         string       `json:"unit"`
	RefMin       *float64     `json:"referenceMin"`
	RefMax       *float64     `json:"referenceMax"`
	Abnormal     AbnormalFlag `json:"abnormal"`
	Confidence   float64      `json:"confidence"`
	IsCalculated bool         `json:"isCalculated,omitempty"`
	Source       string       `json:"source"`
	// RawValue keeps the pre-conversion value so diffing two drafts is not
	// confused by unit-conversion rounding.
	RawValue *float64 `json:"rawValue,omitempty"`
	RawUnit  string   `json:"rawUnit,omitempty"`
}

// DeriveAbnormal recomputes the abnormal flag from the value and reference
// bounds. The flag is never trusted from storage or from an AI response.
func (m *MarkerValue) DeriveAbnormal() {
	m.Abnormal = ClassifyAbnormal(m.Value, m.RefMin, m.RefMax)
}

// ClassifyAbnormal returns the flag for a value against optional bounds.
func ClassifyAbnormal(value float64, refMin, refMax *float64) AbnormalFlag {
	if refMin == nil && refMax == nil {
		return AbnormalUnknown
	}
	if refMin != nil && value < *refMin {
		return AbnormalLow
	}
	if refMax != nil && value > *refMax {
		return AbnormalHigh
	}
	return AbnormalNormal
}

// ExtractionMeta describes how a draft was produced.
type ExtractionMeta struct {
	Provider    ExtractionProvider `json:"provider"`
	Model       string             `json:"model,omitempty"`
	Confidence  float64            `json:"confidence"`
	NeedsReview bool               `json:"needsReview"`
	Warnings    []string           `json:"warnings,omitempty"`
	WarningCode string             `json:"warningCode,omitempty"`
}

// ExtractionDraft is one complete extraction attempt for a document.
// Immutable once returned; a later attempt produces a new draft.
type ExtractionDraft struct {
	ID             uuid.UUID      `json:"id"`
	SourceFileName string         `json:"sourceFileName"`
	TestDate       string         `json:"testDate"` // YYYY-MM-DD
	Markers        []MarkerValue  `json:"markers"`
	Extraction     ExtractionMeta `json:"extraction"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DraftRecord is the persisted form of a draft (markers as JSONB).
type DraftRecord struct {
	ID             uuid.UUID       `db:"id"`
	OwnerID        uuid.UUID       `db:"owner_id"`
	FileID         *uuid.UUID      `db:"file_id"`
	SourceFileName string          `db:"source_file_name"`
	TestDate       string          `db:"test_date"`
	Provider       string          `db:"provider"`
	Model          string          `db:"model"`
	Confidence     float64         `db:"confidence"`
	NeedsReview    bool            `db:"needs_review"`
	WarningCode    string          `db:"warning_code"`
	Markers        json.RawMessage `db:"markers"`
	Warnings       json.RawMessage `db:"warnings"`
	CreatedAt      time.Time       `db:"created_at"`
}

// CatalogEntry is static reference data for one canonical marker.
type CatalogEntry struct {
	Canonical      string
	Aliases        []string
	PreferredUnit  map[UnitSystem]string
	Category       string
	MustContain    []string
	MustNotContain []string
}

// Resolution is the outcome of canonicalizing one raw marker label.
type Resolution struct {
	Canonical    string           `json:"canonicalMarker"`
	Confidence   float64          `json:"confidence"`
	Method       ResolutionMethod `json:"method"`
	MatchedAlias string           `json:"matchedAlias,omitempty"`
}

// AliasOverride is a user-supplied mapping from a raw label to a canonical name.
type AliasOverride struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Alias     string    `db:"alias" json:"alias"`
	Canonical string    `db:"canonical" json:"canonical"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DiffSide summarizes one side of an extraction diff.
type DiffSide struct {
	MarkerCount int      `json:"markerCount"`
	Confidence  float64  `json:"confidence"`
	Warnings    []string `json:"warnings,omitempty"`
}

// DiffRow is one added/removed/changed marker in a diff.
type DiffRow struct {
	Canonical     string       `json:"canonicalMarker"`
	ChangedFields []string     `json:"changedFields,omitempty"`
	Local         *MarkerValue `json:"local,omitempty"`
	AI            *MarkerValue `json:"ai,omitempty"`
}

// DiffSummary compares two drafts (typically local vs AI) for human review.
// Derived data; never persisted as source of truth.
type DiffSummary struct {
	Local           DiffSide  `json:"local"`
	AI              DiffSide  `json:"ai"`
	TestDateChanged bool      `json:"testDateChanged"`
	Added           []DiffRow `json:"added"`
	Removed         []DiffRow `json:"removed"`
	Changed         []DiffRow `json:"changed"`
	HasChanges      bool      `json:"hasChanges"`
}
