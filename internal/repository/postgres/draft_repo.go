package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"labmark/internal/domain"
	"labmark/internal/port"
)

type draftRepo struct {
	db *sqlx.DB
}

// NewDraftRepo creates a new PostgreSQL-backed DraftRepository.
// Drafts are append-only; there is deliberately no Update.
func NewDraftRepo(db *sqlx.DB) port.DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Create(ctx context.Context, rec *domain.DraftRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO extraction_drafts
		(id, owner_id, file_id, source_file_name, test_date, provider, model,
		 confidence, needs_review, warning_code, markers, warnings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.FileID, rec.SourceFileName, rec.TestDate,
		rec.Provider, rec.Model, rec.Confidence, rec.NeedsReview, rec.WarningCode,
		rec.Markers, rec.Warnings, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("draftRepo.Create: %w", err)
	}
	return nil
}

func (r *draftRepo) GetByID(ctx context.Context, ownerID, draftID uuid.UUID) (*domain.DraftRecord, error) {
	var rec domain.DraftRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM extraction_drafts WHERE id = $1 AND owner_id = $2", draftID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("draftRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *draftRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.DraftRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM extraction_drafts WHERE owner_id = $1", ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("draftRepo.ListByOwner count: %w", err)
	}

	var recs []domain.DraftRecord
	err = r.db.SelectContext(ctx, &recs,
		`SELECT * FROM extraction_drafts
		 WHERE owner_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("draftRepo.ListByOwner: %w", err)
	}
	return recs, total, nil
}

func (r *draftRepo) ListByFile(ctx context.Context, ownerID, fileID uuid.UUID) ([]domain.DraftRecord, error) {
	var recs []domain.DraftRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM extraction_drafts
		 WHERE owner_id = $1 AND file_id = $2
		 ORDER BY created_at DESC`,
		ownerID, fileID)
	if err != nil {
		return nil, fmt.Errorf("draftRepo.ListByFile: %w", err)
	}
	return recs, nil
}
