package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"labmark/internal/domain"
	"labmark/internal/marker"
	"labmark/internal/port"
)

// AliasOverrideInput is the DTO for saving an alias override.
type AliasOverrideInput struct {
	Alias     string `json:"alias" binding:"required"`
	Canonical string `json:"canonical" binding:"required"`
}

// AliasService manages per-user marker alias overrides.
type AliasService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.AliasOverride, error)
	Put(ctx context.Context, ownerID uuid.UUID, input AliasOverrideInput) (*domain.AliasOverride, error)
	Delete(ctx context.Context, ownerID, overrideID uuid.UUID) error
}

type aliasService struct {
	repo port.AliasOverrideRepository
}

// NewAliasService creates a new AliasService implementation.
func NewAliasService(repo port.AliasOverrideRepository) AliasService {
	return &aliasService{repo: repo}
}

func (s *aliasService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.AliasOverride, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *aliasService) Put(ctx context.Context, ownerID uuid.UUID, input AliasOverrideInput) (*domain.AliasOverride, error) {
	alias := strings.TrimSpace(input.Alias)
	canonical := strings.TrimSpace(input.Canonical)
	if marker.NormalizeKey(alias) == "" || canonical == "" {
		return nil, domain.ErrValidation
	}

	o := &domain.AliasOverride{
		OwnerID:   ownerID,
		Alias:     alias,
		Canonical: canonical,
	}
	if err := s.repo.Upsert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *aliasService) Delete(ctx context.Context, ownerID, overrideID uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, overrideID)
}
