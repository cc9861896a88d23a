package port

import (
	"context"

	"labmark/internal/domain"
)

// TextExtractor pulls the text layer out of a PDF. Black box; returns plain
// text plus positional fragments and per-page counts.
type TextExtractor interface {
	ExtractText(ctx context.Context, fileBytes []byte) (*domain.RawTextLayout, error)
}

// OCREngine rasterizes and recognizes a document page by page, up to
// maxPages. Black box like TextExtractor.
type OCREngine interface {
	Recognize(ctx context.Context, fileBytes []byte, maxPages int) (*domain.RawTextLayout, error)
}

// AIMarkerRow is one marker as returned by the external AI extractor,
// prior to local sanitization and canonicalization.
type AIMarkerRow struct {
	Marker     string   `json:"marker"`
	Value      float64  `json:"value"`
	Unit       string   `json:"unit"`
	RefMin     *float64 `json:"referenceMin"`
	RefMax     *float64 `json:"referenceMax"`
	Confidence float64  `json:"confidence"`
}

// AIExtractionRequest carries the cleaned text handed to the AI boundary.
type AIExtractionRequest struct {
	Text           string
	SourceFileName string
}

// AIExtractionResult is the parsed, schema-validated AI response.
type AIExtractionResult struct {
	TestDate string        `json:"testDate"`
	Markers  []AIMarkerRow `json:"markers"`
	Model    string        `json:"-"`
	Warnings []string      `json:"-"`
}

// AIExtractor abstracts the external AI extraction service.
type AIExtractor interface {
	Extract(ctx context.Context, req AIExtractionRequest) (*AIExtractionResult, error)
}
