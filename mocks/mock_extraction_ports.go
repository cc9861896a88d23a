package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labmark/internal/domain"
	"labmark/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, fileBytes []byte) (*domain.RawTextLayout, error) {
	args := m.Called(ctx, fileBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawTextLayout), args.Error(1)
}

// MockOCREngine is a mock implementation of port.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, fileBytes []byte, maxPages int) (*domain.RawTextLayout, error) {
	args := m.Called(ctx, fileBytes, maxPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawTextLayout), args.Error(1)
}

// MockAIExtractor is a mock implementation of port.AIExtractor.
type MockAIExtractor struct {
	mock.Mock
}

func (m *MockAIExtractor) Extract(ctx context.Context, req port.AIExtractionRequest) (*port.AIExtractionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.AIExtractionResult), args.Error(1)
}
