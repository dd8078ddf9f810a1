package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// MockPostingHistoryRepo is a mock implementation of
// port.PostingHistoryRepository.
type MockPostingHistoryRepo struct {
	mock.Mock
}

func (m *MockPostingHistoryRepo) CreateBatch(ctx context.Context, records []domain.PostingRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockPostingHistoryRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.PostingRecord, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostingRecord), args.Error(1)
}

func (m *MockPostingHistoryRepo) List(ctx context.Context, offset, limit int) ([]domain.PostingRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PostingRecord), args.Int(1), args.Error(2)
}
