package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"labmark/internal/domain"
)

// MockAliasOverrideRepo is a mock implementation of port.AliasOverrideRepository.
type MockAliasOverrideRepo struct {
	mock.Mock
}

func (m *MockAliasOverrideRepo) Upsert(ctx context.Context, o *domain.AliasOverride) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockAliasOverrideRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.AliasOverride, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AliasOverride), args.Error(1)
}

func (m *MockAliasOverrideRepo) Delete(ctx context.Context, ownerID, overrideID uuid.UUID) error {
	args := m.Called(ctx, ownerID, overrideID)
	return args.Error(0)
}
