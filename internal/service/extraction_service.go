package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"labmark/internal/config"
	"labmark/internal/diff"
	"labmark/internal/domain"
	"labmark/internal/extract"
	"labmark/internal/port"
)

// ExtractionService runs the extraction pipeline against stored files and
// manages the resulting immutable drafts.
type ExtractionService interface {
	ExtractFromFile(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.ExtractionDraft, error)
	GetDraft(ctx context.Context, ownerID, draftID uuid.UUID) (*domain.ExtractionDraft, error)
	ListDrafts(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.ExtractionDraft, int, error)
	ListDraftsByFile(ctx context.Context, ownerID, fileID uuid.UUID) ([]domain.ExtractionDraft, error)
	DiffDrafts(ctx context.Context, ownerID, localID, aiID uuid.UUID) (*domain.DiffSummary, error)
}

type extractionService struct {
	pipeline  *extract.Pipeline
	fileRepo  port.FileMetaRepository
	draftRepo port.DraftRepository
	aliasRepo port.AliasOverrideRepository
	storage   port.ObjectStorage
	cfg       *config.ExtractionConfig
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	pipeline *extract.Pipeline,
	fileRepo port.FileMetaRepository,
	draftRepo port.DraftRepository,
	aliasRepo port.AliasOverrideRepository,
	storage port.ObjectStorage,
	cfg *config.ExtractionConfig,
) ExtractionService {
	return &extractionService{
		pipeline:  pipeline,
		fileRepo:  fileRepo,
		draftRepo: draftRepo,
		aliasRepo: aliasRepo,
		storage:   storage,
		cfg:       cfg,
	}
}

// ExtractFromFile downloads the original bytes, runs the pipeline, and
// persists the draft. A rate-limited AI pass still persists and returns the
// fallback draft; the typed error travels with it so the handler can attach
// a retry hint.
func (s *extractionService) ExtractFromFile(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.ExtractionDraft, error) {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if meta.UploadedBy != ownerID {
		return nil, domain.ErrForbidden
	}

	fileBytes, err := s.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return nil, fmt.Errorf("extractionService.ExtractFromFile download: %w", err)
	}

	overrides, err := s.loadOverrides(ctx, ownerID)
	if err != nil {
		log.Printf("extractionService: loading alias overrides failed, continuing without: %v", err)
		overrides = nil
	}

	draft, runErr := s.pipeline.Run(ctx, fileBytes, meta.OriginalName, extract.Options{
		Overrides:   overrides,
		ResolveMode: domain.ResolveMode(s.cfg.ResolveMode),
		CostMode:    domain.CostMode(s.cfg.CostMode),
		OCRMaxPages: s.cfg.OCRMaxPages,
	})
	if draft == nil {
		return nil, runErr
	}

	rec, err := draftToRecord(draft, ownerID, &fileID)
	if err != nil {
		return nil, fmt.Errorf("extractionService.ExtractFromFile encode: %w", err)
	}
	if err := s.draftRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	draft.ID = rec.ID

	log.Printf("extractionService: draft %s for file %s (%d markers, provider=%s, review=%t)",
		draft.ID, fileID, len(draft.Markers), draft.Extraction.Provider, draft.Extraction.NeedsReview)
	return draft, runErr
}

func (s *extractionService) GetDraft(ctx context.Context, ownerID, draftID uuid.UUID) (*domain.ExtractionDraft, error) {
	rec, err := s.draftRepo.GetByID(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}
	return recordToDraft(rec)
}

func (s *extractionService) ListDrafts(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.ExtractionDraft, int, error) {
	recs, total, err := s.draftRepo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	drafts, err := recordsToDrafts(recs)
	if err != nil {
		return nil, 0, err
	}
	return drafts, total, nil
}

func (s *extractionService) ListDraftsByFile(ctx context.Context, ownerID, fileID uuid.UUID) ([]domain.ExtractionDraft, error) {
	recs, err := s.draftRepo.ListByFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	return recordsToDrafts(recs)
}

func (s *extractionService) DiffDrafts(ctx context.Context, ownerID, localID, aiID uuid.UUID) (*domain.DiffSummary, error) {
	local, err := s.GetDraft(ctx, ownerID, localID)
	if err != nil {
		return nil, err
	}
	ai, err := s.GetDraft(ctx, ownerID, aiID)
	if err != nil {
		return nil, err
	}
	return diff.Build(local, ai), nil
}

func (s *extractionService) loadOverrides(ctx context.Context, ownerID uuid.UUID) (map[string]string, error) {
	rows, err := s.aliasRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Alias] = r.Canonical
	}
	return out, nil
}

func draftToRecord(d *domain.ExtractionDraft, ownerID uuid.UUID, fileID *uuid.UUID) (*domain.DraftRecord, error) {
	markers, err := json.Marshal(d.Markers)
	if err != nil {
		return nil, fmt.Errorf("marshaling markers: %w", err)
	}
	warnings, err := json.Marshal(d.Extraction.Warnings)
	if err != nil {
		return nil, fmt.Errorf("marshaling warnings: %w", err)
	}
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &domain.DraftRecord{
		ID:             d.ID,
		OwnerID:        ownerID,
		FileID:         fileID,
		SourceFileName: d.SourceFileName,
		TestDate:       d.TestDate,
		Provider:       string(d.Extraction.Provider),
		Model:          d.Extraction.Model,
		Confidence:     d.Extraction.Confidence,
		NeedsReview:    d.Extraction.NeedsReview,
		WarningCode:    d.Extraction.WarningCode,
		Markers:        markers,
		Warnings:       warnings,
		CreatedAt:      createdAt,
	}, nil
}

func recordToDraft(rec *domain.DraftRecord) (*domain.ExtractionDraft, error) {
	var markers []domain.MarkerValue
	if len(rec.Markers) > 0 {
		if err := json.Unmarshal(rec.Markers, &markers); err != nil {
			return nil, fmt.Errorf("decoding draft markers: %w", err)
		}
	}
	var warnings []string
	if len(rec.Warnings) > 0 {
		if err := json.Unmarshal(rec.Warnings, &warnings); err != nil {
			return nil, fmt.Errorf("decoding draft warnings: %w", err)
		}
	}
	// The abnormal flag is derived, never trusted from storage.
	for i := range markers {
		markers[i].DeriveAbnormal()
	}
	return &domain.ExtractionDraft{
		ID:             rec.ID,
		SourceFileName: rec.SourceFileName,
		TestDate:       rec.TestDate,
		Markers:        markers,
		Extraction: domain.ExtractionMeta{
			Provider:    domain.ExtractionProvider(rec.Provider),
			Model:       rec.Model,
			Confidence:  rec.Confidence,
			NeedsReview: rec.NeedsReview,
			Warnings:    warnings,
			WarningCode: rec.WarningCode,
		},
		CreatedAt: rec.CreatedAt,
	}, nil
}

func recordsToDrafts(recs []domain.DraftRecord) ([]domain.ExtractionDraft, error) {
	drafts := make([]domain.ExtractionDraft, 0, len(recs))
	for i := range recs {
		d, err := recordToDraft(&recs[i])
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	return drafts, nil
}
