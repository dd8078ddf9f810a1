package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// MockInvoiceGateway is a mock implementation of port.InvoiceGateway.
type MockInvoiceGateway struct {
	mock.Mock
}

func (m *MockInvoiceGateway) Preflight(ctx context.Context, ids []uuid.UUID) (*domain.PreflightResponse, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreflightResponse), args.Error(1)
}

func (m *MockInvoiceGateway) LinkVendor(ctx context.Context, req domain.VendorLinkRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockInvoiceGateway) BulkPost(ctx context.Context, ids []uuid.UUID) (*domain.BulkPostResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkPostResult), args.Error(1)
}
