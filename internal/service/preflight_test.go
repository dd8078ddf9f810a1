package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/service"
	"github.com/Cascadia376/invoice-automator-sub000/mocks"
)

func TestPreflightEvaluator_EmptyBatch(t *testing.T) {
	gateway := new(mocks.MockInvoiceGateway)
	evaluator := service.NewPreflightEvaluator(gateway)

	_, err := evaluator.Preflight(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
	gateway.AssertNotCalled(t, "Preflight")
}

func TestPreflightEvaluator_RemoteFailure(t *testing.T) {
	gateway := new(mocks.MockInvoiceGateway)
	evaluator := service.NewPreflightEvaluator(gateway)

	ids := []uuid.UUID{uuid.New()}
	gateway.On("Preflight", mock.Anything, ids).Return(nil, domain.ErrServiceUnavailable)

	_, err := evaluator.Preflight(context.Background(), ids)

	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestPreflightEvaluator_DeduplicatesBlockingVendors(t *testing.T) {
	gateway := new(mocks.MockInvoiceGateway)
	evaluator := service.NewPreflightEvaluator(gateway)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	gateway.On("Preflight", mock.Anything, ids).Return(&domain.PreflightResponse{
		BlockingVendors: []domain.VendorRef{
			{VendorName: "Acme Brewing"},
			{VendorName: "Acme Brewing"},
			{VendorName: "Cascadia Cellars"},
			{VendorName: ""},
		},
	}, nil)

	resp, err := evaluator.Preflight(context.Background(), ids)

	assert.NoError(t, err)
	assert.Equal(t, []domain.VendorRef{
		{VendorName: "Acme Brewing"},
		{VendorName: "Cascadia Cellars"},
	}, resp.BlockingVendors)
}

func TestPreflightEvaluator_BlockingIssueExcludesFromReady(t *testing.T) {
	gateway := new(mocks.MockInvoiceGateway)
	evaluator := service.NewPreflightEvaluator(gateway)

	readyID := uuid.New()
	blockedID := uuid.New()
	ids := []uuid.UUID{readyID, blockedID}

	gateway.On("Preflight", mock.Anything, ids).Return(&domain.PreflightResponse{
		ReadyIDs: []uuid.UUID{readyID, blockedID},
		Issues: []domain.PreflightIssue{
			{InvoiceID: blockedID, IssueType: domain.IssueBlocking, Message: "total already posted"},
			{InvoiceID: readyID, IssueType: domain.IssueWarning, Message: "total mismatch"},
		},
	}, nil)

	resp, err := evaluator.Preflight(context.Background(), ids)

	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{readyID}, resp.ReadyIDs)
	assert.Len(t, resp.Issues, 2)
}

func TestPreflightEvaluator_AtMostOneIssuePerTypePerInvoice(t *testing.T) {
	gateway := new(mocks.MockInvoiceGateway)
	evaluator := service.NewPreflightEvaluator(gateway)

	id := uuid.New()
	ids := []uuid.UUID{id}
	gateway.On("Preflight", mock.Anything, ids).Return(&domain.PreflightResponse{
		ReadyIDs: []uuid.UUID{id, id},
		Issues: []domain.PreflightIssue{
			{InvoiceID: id, IssueType: domain.IssueWarning, Message: "total mismatch"},
			{InvoiceID: id, IssueType: domain.IssueWarning, Message: "missing reference"},
		},
	}, nil)

	resp, err := evaluator.Preflight(context.Background(), ids)

	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, resp.ReadyIDs)
	assert.Len(t, resp.Issues, 1)
	assert.Equal(t, "total mismatch", resp.Issues[0].Message)
}

func TestPreflightEvaluator_Idempotent(t *testing.T) {
	gateway := new(mocks.MockInvoiceGateway)
	evaluator := service.NewPreflightEvaluator(gateway)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	remote := &domain.PreflightResponse{
		ReadyIDs:        []uuid.UUID{ids[0]},
		BlockingVendors: []domain.VendorRef{{VendorName: "Acme Brewing"}},
	}
	gateway.On("Preflight", mock.Anything, ids).Return(remote, nil).Twice()

	first, err := evaluator.Preflight(context.Background(), ids)
	assert.NoError(t, err)
	second, err := evaluator.Preflight(context.Background(), ids)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	gateway.AssertExpectations(t)
}
