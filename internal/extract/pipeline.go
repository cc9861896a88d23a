// Package extract orchestrates the draft lifecycle for one document: parse
// the text layer locally, boost with OCR when the layer is too thin, and
// escalate to the external AI extractor only when the local result misses the
// quality bar. Every path ends in a complete, immutable draft; the local
// result is the guaranteed fallback whatever the AI boundary does.
package extract

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"labmark/internal/aiextract"
	"labmark/internal/domain"
	"labmark/internal/labdate"
	"labmark/internal/marker"
	"labmark/internal/port"
	"labmark/internal/profile"
	"labmark/internal/quality"
	"labmark/internal/rowparse"
	"labmark/internal/textnorm"
	"labmark/internal/units"
)

// minAITextChars is the floor below which sending text to the AI extractor is
// pointless; such documents go straight to review.
const minAITextChars = 40

// Options tunes one extraction run.
type Options struct {
	Overrides   map[string]string
	ResolveMode domain.ResolveMode
	CostMode    domain.CostMode
	OCRMaxPages int
	Now         func() time.Time
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Options) resolveMode() domain.ResolveMode {
	if o.ResolveMode == "" {
		return domain.ResolveBalanced
	}
	return o.ResolveMode
}

// Pipeline wires the extraction stages together. The OCR engine and AI
// extractor are optional; a nil port disables that escalation step.
type Pipeline struct {
	text port.TextExtractor
	ocr  port.OCREngine
	ai   port.AIExtractor
}

// NewPipeline creates a pipeline over the given ports.
func NewPipeline(text port.TextExtractor, ocr port.OCREngine, ai port.AIExtractor) *Pipeline {
	return &Pipeline{text: text, ocr: ocr, ai: ai}
}

// Run produces a draft for one document. The returned draft is always
// non-nil; a non-nil error only ever accompanies it when the AI boundary was
// rate limited, so the caller can surface the retry hint alongside the
// fallback draft.
func (p *Pipeline) Run(ctx context.Context, fileBytes []byte, fileName string, opts Options) (*domain.ExtractionDraft, error) {
	var warnings []string
	warnCode := ""

	layout, err := p.text.ExtractText(ctx, fileBytes)
	if err != nil {
		log.Printf("extract.Pipeline: text extraction failed for %s: %v", fileName, err)
		layout = &domain.RawTextLayout{}
		warnings = append(warnings, err.Error())
		warnCode = domain.WarnTextExtractionFailed
	}
	if textnorm.CountNonWhitespace(layout.Text) == 0 && warnCode == "" {
		warnCode = domain.WarnTextLayerEmpty
	}

	best := BuildLocalDraft(layout, fileName, opts)
	today := opts.now().Format("2006-01-02")
	stats := quality.Collect(best, today)

	if p.ocr != nil && quality.NeedsOCRBoost(stats, layout) {
		ocrLayout, oerr := p.ocr.Recognize(ctx, fileBytes, opts.OCRMaxPages)
		if oerr != nil {
			log.Printf("extract.Pipeline: ocr boost failed for %s: %v", fileName, oerr)
			warnings = append(warnings, oerr.Error())
			if warnCode == "" {
				warnCode = domain.WarnOCRInitFailed
			}
		} else {
			ocrDraft := buildDraft(ocrLayout, fileName, opts, domain.SourceOCR)
			ocrStats := quality.Collect(ocrDraft, today)
			if quality.DraftScore(ocrStats) > quality.DraftScore(stats) {
				log.Printf("extract.Pipeline: ocr draft wins for %s (%d vs %d markers)",
					fileName, ocrStats.MarkerCount, stats.MarkerCount)
				best, stats = ocrDraft, ocrStats
				layout = ocrLayout
				if ocrLayout.Partial && warnCode == "" {
					warnCode = domain.WarnOCRPartial
				}
			}
		}
	}

	if quality.MeetsQualityThreshold(stats) || quality.IsLocalDraftGoodEnough(stats) {
		if warnCode == "" {
			warnCode = domain.WarnAISkippedGoodEnough
		}
		return p.finalize(best, warnings, warnCode, today), nil
	}

	if opts.CostMode == domain.CostModeUltraLowCost {
		if warnCode == "" {
			warnCode = domain.WarnAISkippedCostMode
		}
		return p.finalize(best, warnings, warnCode, today), nil
	}
	if p.ai == nil {
		if warnCode == "" {
			warnCode = domain.WarnAIUnavailable
		}
		return p.finalize(best, warnings, warnCode, today), nil
	}

	aiText := textnorm.CollapseSpaces(layout.Text)
	if textnorm.CountNonWhitespace(aiText) < minAITextChars {
		if warnCode == "" {
			warnCode = domain.WarnAITextInsufficient
		}
		return p.finalize(best, warnings, warnCode, today), nil
	}

	result, aerr := p.ai.Extract(ctx, port.AIExtractionRequest{Text: aiText, SourceFileName: fileName})
	if aerr != nil {
		log.Printf("extract.Pipeline: ai extraction failed for %s: %v", fileName, aerr)
		warnings = append(warnings, aerr.Error())
		var rl *aiextract.RateLimitError
		if errors.As(aerr, &rl) {
			draft := p.finalize(best, warnings, domain.WarnAIRateLimited, today)
			return draft, aerr
		}
		code := domain.WarnAIFailed
		if errors.Is(aerr, domain.ErrAIUnavailable) {
			code = domain.WarnAIUnavailable
		}
		var ue *aiextract.UnavailableError
		if errors.As(aerr, &ue) {
			code = domain.WarnAIUnavailable
		}
		return p.finalize(best, warnings, code, today), nil
	}

	merged := p.mergeAI(best, result, opts)
	warnings = append(warnings, result.Warnings...)
	for _, w := range result.Warnings {
		if strings.Contains(w, "possibly incomplete") && warnCode == "" {
			warnCode = domain.WarnAIResponseIncomplete
		}
	}
	merged.Extraction.Provider = domain.ProviderAI
	merged.Extraction.Model = result.Model
	return p.finalize(merged, warnings, warnCode, today), nil
}

// finalize stamps confidence, review status, and warnings onto a draft.
// Review is required whenever the merged result still misses the quality bar.
func (p *Pipeline) finalize(d *domain.ExtractionDraft, warnings []string, warnCode, today string) *domain.ExtractionDraft {
	stats := quality.Collect(d, today)
	d.Extraction.Confidence = meanConfidence(d.Markers)
	d.Extraction.NeedsReview = !quality.MeetsQualityThreshold(stats)
	d.Extraction.Warnings = append(d.Extraction.Warnings, warnings...)
	if warnCode != "" {
		d.Extraction.WarningCode = warnCode
	} else if d.Extraction.NeedsReview && d.Extraction.WarningCode == "" {
		d.Extraction.WarningCode = domain.WarnLowConfidenceLocal
	}
	return d
}

// BuildLocalDraft runs the local parsing stages over a text layout. Pure and
// deterministic; no network, no clock beyond Options.Now for date fallback.
func BuildLocalDraft(layout *domain.RawTextLayout, fileName string, opts Options) *domain.ExtractionDraft {
	return buildDraft(layout, fileName, opts, domain.SourceLocal)
}

func buildDraft(layout *domain.RawTextLayout, fileName string, opts Options, source string) *domain.ExtractionDraft {
	text := textnorm.NormalizeText(layout.Text)
	lines := textnorm.Lines(text)
	prof := profile.Detect(text, fileName)

	rows := rowparse.Cascade(rowparse.Input{
		Text:    text,
		Lines:   lines,
		Rows:    layout.Rows,
		Profile: prof,
	})

	markers := assembleMarkers(rows, source, marker.SourceLocalParse, &opts)
	markers = filterPlausible(markers)

	draft := &domain.ExtractionDraft{
		ID:             uuid.New(),
		SourceFileName: fileName,
		TestDate:       labdate.Extract(lines, opts.now()),
		Markers:        markers,
		Extraction: domain.ExtractionMeta{
			Provider:   domain.ProviderFallback,
			Confidence: meanConfidence(markers),
		},
		CreatedAt: opts.now(),
	}
	if len(markers) == 0 && textnorm.CountNonWhitespace(text) > 0 {
		draft.Extraction.WarningCode = domain.WarnUnknownLayout
	}
	return draft
}

// assembleMarkers turns raw parsed rows into canonicalized, unit-normalized
// marker values, dropping noise candidates on the way.
func assembleMarkers(rows []domain.ParsedRow, source string, candSource marker.CandidateSource, opts *Options) []domain.MarkerValue {
	overrides := marker.NormalizeOverrides(opts.Overrides)
	out := make([]domain.MarkerValue, 0, len(rows))
	for _, r := range rows {
		label := marker.Sanitize(r.Marker)
		if label == "" {
			continue
		}
		hasUnit := strings.TrimSpace(r.Unit) != ""
		hasRange := r.RefMin != nil || r.RefMax != nil
		score := marker.ScoreCandidate(label, hasUnit, hasRange)
		if !marker.AcceptCandidate(score, label, candSource) {
			continue
		}

		res := marker.Resolve(label, r.Unit, overrides, opts.resolveMode())
		value, unit, refMin, refMax := units.Normalize(res.Canonical, r.Value, r.Unit, r.RefMin, r.RefMax)

		rawValue := r.Value
		mv := domain.MarkerValue{
			ID:           uuid.New(),
			Marker:       label,
			Canonical:    res.Canonical,
			Value:        value,
			Unit:         unit,
			RefMin:       refMin,
			RefMax:       refMax,
			Confidence:   combineConfidence(r.Confidence, res.Confidence),
			IsCalculated: calculatedLabel(r.Marker), // raw label; Sanitize strips the suffix
			Source:       source,
			RawValue:     &rawValue,
			RawUnit:      strings.ToLower(strings.TrimSpace(r.Unit)),
		}
		mv.DeriveAbnormal()
		out = append(out, mv)
	}
	return dedupeMarkers(out)
}

// mergeAI folds AI rows into the local draft. Rows sharing a measurement
// identity (canonical, value, unit, range) collapse to the higher-confidence
// side; everything else is additive. Local rows are never discarded in favor
// of a lower-confidence AI duplicate.
func (p *Pipeline) mergeAI(local *domain.ExtractionDraft, res *port.AIExtractionResult, opts Options) *domain.ExtractionDraft {
	aiRows := make([]domain.ParsedRow, 0, len(res.Markers))
	for _, m := range res.Markers {
		conf := m.Confidence
		if conf <= 0 {
			conf = 0.85
		}
		aiRows = append(aiRows, domain.ParsedRow{
			Marker:     m.Marker,
			Value:      m.Value,
			Unit:       m.Unit,
			RefMin:     m.RefMin,
			RefMax:     m.RefMax,
			Confidence: conf,
		})
	}
	aiMarkers := assembleMarkers(aiRows, domain.SourceAI, marker.SourceAIParse, &opts)

	merged := dedupeMarkers(append(append([]domain.MarkerValue{}, local.Markers...), aiMarkers...))
	merged = filterPlausible(merged)

	out := *local
	out.Markers = merged
	if validISODate(res.TestDate) {
		out.TestDate = res.TestDate
	}
	return &out
}

// dedupeMarkers collapses identical measurements, keeping the
// higher-confidence copy and the first-seen order.
func dedupeMarkers(markers []domain.MarkerValue) []domain.MarkerValue {
	type key struct {
		canonical string
		value     float64
		unit      string
		refMin    float64
		refMax    float64
	}
	mkKey := func(m *domain.MarkerValue) key {
		k := key{canonical: m.Canonical, value: m.Value, unit: strings.ToLower(m.Unit)}
		if m.RefMin != nil {
			k.refMin = *m.RefMin
		}
		if m.RefMax != nil {
			k.refMax = *m.RefMax
		}
		return k
	}
	best := map[key]int{}
	out := make([]domain.MarkerValue, 0, len(markers))
	for _, m := range markers {
		k := mkKey(&m)
		if i, ok := best[k]; ok {
			if m.Confidence > out[i].Confidence {
				out[i] = m
			}
			continue
		}
		best[k] = len(out)
		out = append(out, m)
	}
	return out
}

func combineConfidence(row, resolution float64) float64 {
	c := (row + resolution) / 2
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func meanConfidence(markers []domain.MarkerValue) float64 {
	if len(markers) == 0 {
		return 0
	}
	var sum float64
	for _, m := range markers {
		sum += m.Confidence
	}
	return sum / float64(len(markers))
}

var calculatedTokens = []string{"calculated", "(calc)", "calc.", "computed"}

func calculatedLabel(label string) bool {
	l := strings.ToLower(label)
	for _, t := range calculatedTokens {
		if strings.Contains(l, t) {
			return true
		}
	}
	return false
}

func validISODate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
