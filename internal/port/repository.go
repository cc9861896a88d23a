package port

import (
	"context"

	"github.com/google/uuid"

	"labmark/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// FileMetaRepository defines the contract for file metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByUploader(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, fileID uuid.UUID) error
}

// DraftRepository persists extraction drafts. Drafts are immutable:
// insert-only, a re-run inserts a new draft.
type DraftRepository interface {
	Create(ctx context.Context, rec *domain.DraftRecord) error
	GetByID(ctx context.Context, ownerID, draftID uuid.UUID) (*domain.DraftRecord, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.DraftRecord, int, error)
	ListByFile(ctx context.Context, ownerID, fileID uuid.UUID) ([]domain.DraftRecord, error)
}

// AliasOverrideRepository persists per-user marker alias overrides.
type AliasOverrideRepository interface {
	Upsert(ctx context.Context, o *domain.AliasOverride) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.AliasOverride, error)
	Delete(ctx context.Context, ownerID, overrideID uuid.UUID) error
}
