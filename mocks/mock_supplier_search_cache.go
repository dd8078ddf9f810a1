package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// MockSupplierSearchCache is a mock implementation of
// port.SupplierSearchCache.
type MockSupplierSearchCache struct {
	mock.Mock
}

func (m *MockSupplierSearchCache) Get(ctx context.Context, key string) ([]domain.SupplierMatch, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.SupplierMatch), args.Bool(1), args.Error(2)
}

func (m *MockSupplierSearchCache) Set(ctx context.Context, key string, matches []domain.SupplierMatch, ttl time.Duration) error {
	args := m.Called(ctx, key, matches, ttl)
	return args.Error(0)
}
