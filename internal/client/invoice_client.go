package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Cascadia376/invoice-automator-sub000/internal/config"
	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

const (
	preflightPath  = "/api/invoices/preflight-post"
	bulkPostPath   = "/api/invoices/bulk-post"
	linkVendorPath = "/api/vendors/link-stellar-by-name"
)

// InvoiceClient implements port.InvoiceGateway against the Remote Invoice
// Service.
type InvoiceClient struct {
	baseURL string
	bearer  string
	client  *http.Client
}

// NewInvoiceClient creates an invoice service client from Stellar config.
func NewInvoiceClient(cfg *config.StellarConfig) *InvoiceClient {
	return newInvoiceClient(cfg, cfg.InvoiceServiceURL)
}

// NewInvoiceClientWithEndpoint creates a client pointing at a custom base
// URL (for testing).
func NewInvoiceClientWithEndpoint(cfg *config.StellarConfig, baseURL string) *InvoiceClient {
	return newInvoiceClient(cfg, baseURL)
}

func newInvoiceClient(cfg *config.StellarConfig, baseURL string) *InvoiceClient {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &InvoiceClient{
		baseURL: baseURL,
		bearer:  cfg.BearerToken,
		client:  &http.Client{Timeout: timeout},
	}
}

// Preflight implements port.InvoiceGateway.
func (c *InvoiceClient) Preflight(ctx context.Context, ids []uuid.UUID) (*domain.PreflightResponse, error) {
	body, err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+preflightPath, c.bearer, ids)
	if err != nil {
		return nil, fmt.Errorf("preflight: %w", err)
	}

	var resp domain.PreflightResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding preflight response: %v", domain.ErrMalformedPayload, err)
	}
	return &resp, nil
}

// LinkVendor implements port.InvoiceGateway. A 2xx with no body is
// success; the mapping is idempotent on the remote side, so re-linking an
// already-mapped vendor is not a conflict.
func (c *InvoiceClient) LinkVendor(ctx context.Context, req domain.VendorLinkRequest) error {
	if _, err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+linkVendorPath, c.bearer, req); err != nil {
		return fmt.Errorf("link vendor %q: %w", req.VendorName, err)
	}
	return nil
}

// bulkPostEnvelope is the wrapped response shape of the bulk-post
// endpoint. The endpoint may also answer with a bare BulkPostResult.
type bulkPostEnvelope struct {
	Status  string                 `json:"status"`
	Results *domain.BulkPostResult `json:"results"`
}

// BulkPost implements port.InvoiceGateway.
func (c *InvoiceClient) BulkPost(ctx context.Context, ids []uuid.UUID) (*domain.BulkPostResult, error) {
	body, err := doJSON(ctx, c.client, http.MethodPatch, c.baseURL+bulkPostPath, c.bearer, ids)
	if err != nil {
		return nil, fmt.Errorf("bulk post: %w", err)
	}

	result, err := decodeBulkPostResult(body)
	if err != nil {
		return nil, err
	}
	if result.Total() != len(ids) {
		return nil, fmt.Errorf("%w: bulk post accounted for %d of %d submitted invoices",
			domain.ErrMalformedPayload, result.Total(), len(ids))
	}
	return result, nil
}

// decodeBulkPostResult accepts both known response shapes: the
// {status, results} envelope and a bare BulkPostResult.
func decodeBulkPostResult(body []byte) (*domain.BulkPostResult, error) {
	var env bulkPostEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Results != nil {
		return env.Results, nil
	}
	var bare domain.BulkPostResult
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("%w: decoding bulk post response: %v", domain.ErrMalformedPayload, err)
	}
	if bare.Success == nil && bare.Failed == nil && bare.Skipped == nil {
		return nil, fmt.Errorf("%w: bulk post response has no result partition", domain.ErrMalformedPayload)
	}
	return &bare, nil
}

var _ port.InvoiceGateway = (*InvoiceClient)(nil)
