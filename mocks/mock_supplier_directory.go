package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// MockSupplierDirectory is a mock implementation of
// port.SupplierDirectory.
type MockSupplierDirectory struct {
	mock.Mock
}

func (m *MockSupplierDirectory) Search(ctx context.Context, name string) ([]domain.SupplierMatch, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SupplierMatch), args.Error(1)
}
