package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"labmark/internal/domain"
	"labmark/internal/port"
)

type aliasOverrideRepo struct {
	db *sqlx.DB
}

// NewAliasOverrideRepo creates a new PostgreSQL-backed AliasOverrideRepository.
func NewAliasOverrideRepo(db *sqlx.DB) port.AliasOverrideRepository {
	return &aliasOverrideRepo{db: db}
}

func (r *aliasOverrideRepo) Upsert(ctx context.Context, o *domain.AliasOverride) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now().UTC()
	o.UpdatedAt = now
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}

	query := `INSERT INTO alias_overrides (id, owner_id, alias, canonical, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, alias)
		DO UPDATE SET canonical = EXCLUDED.canonical, updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.OwnerID, o.Alias, o.Canonical, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("aliasOverrideRepo.Upsert: %w", err)
	}
	return nil
}

func (r *aliasOverrideRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.AliasOverride, error) {
	var overrides []domain.AliasOverride
	err := r.db.SelectContext(ctx, &overrides,
		"SELECT * FROM alias_overrides WHERE owner_id = $1 ORDER BY alias", ownerID)
	if err != nil {
		return nil, fmt.Errorf("aliasOverrideRepo.ListByOwner: %w", err)
	}
	return overrides, nil
}

func (r *aliasOverrideRepo) Delete(ctx context.Context, ownerID, overrideID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM alias_overrides WHERE id = $1 AND owner_id = $2", overrideID, ownerID)
	if err != nil {
		return fmt.Errorf("aliasOverrideRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
