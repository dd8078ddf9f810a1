package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

// PreflightEvaluator classifies an invoice batch for posting. It is
// read-only and idempotent: the same ids with no intervening vendor-link
// mutation yield an equivalent partition.
type PreflightEvaluator interface {
	Preflight(ctx context.Context, ids []uuid.UUID) (*domain.PreflightResponse, error)
}

type preflightEvaluator struct {
	gateway port.InvoiceGateway
}

// NewPreflightEvaluator creates a PreflightEvaluator backed by the Remote
// Invoice Service.
func NewPreflightEvaluator(gateway port.InvoiceGateway) PreflightEvaluator {
	return &preflightEvaluator{gateway: gateway}
}

func (e *preflightEvaluator) Preflight(ctx context.Context, ids []uuid.UUID) (*domain.PreflightResponse, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	resp, err := e.gateway.Preflight(ctx, ids)
	if err != nil {
		return nil, err
	}
	return normalizePreflight(resp), nil
}

// normalizePreflight enforces the partition invariants on a remote
// response: blocking vendors grouped by name rather than duplicated,
// ready ids unique, an id carrying a blocking issue excluded from the
// ready set (blocked wins over ready), and at most one issue per type per
// invoice.
func normalizePreflight(resp *domain.PreflightResponse) *domain.PreflightResponse {
	out := &domain.PreflightResponse{Invoices: resp.Invoices}

	seenVendor := make(map[string]bool)
	for _, v := range resp.BlockingVendors {
		if v.VendorName == "" || seenVendor[v.VendorName] {
			continue
		}
		seenVendor[v.VendorName] = true
		out.BlockingVendors = append(out.BlockingVendors, v)
	}

	seenIssue := make(map[domain.IssueType]map[uuid.UUID]bool)
	blocked := make(map[uuid.UUID]bool)
	for _, issue := range resp.Issues {
		byID := seenIssue[issue.IssueType]
		if byID == nil {
			byID = make(map[uuid.UUID]bool)
			seenIssue[issue.IssueType] = byID
		}
		if byID[issue.InvoiceID] {
			continue
		}
		byID[issue.InvoiceID] = true
		if issue.IssueType == domain.IssueBlocking {
			blocked[issue.InvoiceID] = true
		}
		out.Issues = append(out.Issues, issue)
	}

	seenReady := make(map[uuid.UUID]bool)
	for _, id := range resp.ReadyIDs {
		if seenReady[id] || blocked[id] {
			continue
		}
		seenReady[id] = true
		out.ReadyIDs = append(out.ReadyIDs, id)
	}

	return out
}
