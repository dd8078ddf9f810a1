package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// MockPostWorkflowService is a mock implementation of
// service.PostWorkflowService.
type MockPostWorkflowService struct {
	mock.Mock
}

func (m *MockPostWorkflowService) Open(ctx context.Context, invoiceIDs []uuid.UUID) (*domain.WorkflowRun, error) {
	args := m.Called(ctx, invoiceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowRun), args.Error(1)
}

func (m *MockPostWorkflowService) Get(ctx context.Context, runID uuid.UUID) (*domain.WorkflowRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowRun), args.Error(1)
}

func (m *MockPostWorkflowService) SearchSuppliers(ctx context.Context, runID uuid.UUID, query string) (*domain.WorkflowRun, error) {
	args := m.Called(ctx, runID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowRun), args.Error(1)
}

func (m *MockPostWorkflowService) ResolveVendor(ctx context.Context, runID uuid.UUID, match domain.SupplierMatch) (*domain.WorkflowRun, error) {
	args := m.Called(ctx, runID, match)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowRun), args.Error(1)
}

func (m *MockPostWorkflowService) ConfirmPost(ctx context.Context, runID uuid.UUID) (*domain.WorkflowRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowRun), args.Error(1)
}

func (m *MockPostWorkflowService) Close(ctx context.Context, runID uuid.UUID) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}
