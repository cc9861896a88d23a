package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"labmark/internal/domain"
)

// MockDraftRepo is a mock implementation of port.DraftRepository.
type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Create(ctx context.Context, rec *domain.DraftRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockDraftRepo) GetByID(ctx context.Context, ownerID, draftID uuid.UUID) (*domain.DraftRecord, error) {
	args := m.Called(ctx, ownerID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DraftRecord), args.Error(1)
}

func (m *MockDraftRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.DraftRecord, int, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DraftRecord), args.Int(1), args.Error(2)
}

func (m *MockDraftRepo) ListByFile(ctx context.Context, ownerID, fileID uuid.UUID) ([]domain.DraftRecord, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DraftRecord), args.Error(1)
}
