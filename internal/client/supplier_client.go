package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Cascadia376/invoice-automator-sub000/internal/config"
	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

const suppliersPath = "/api/stellar/proxy/suppliers"

// SupplierClient implements port.SupplierDirectory against the Stellar
// supplier proxy.
type SupplierClient struct {
	baseURL string
	bearer  string
	client  *http.Client
}

// NewSupplierClient creates a supplier directory client from Stellar
// config.
func NewSupplierClient(cfg *config.StellarConfig) *SupplierClient {
	return newSupplierClient(cfg, cfg.DirectoryURL)
}

// NewSupplierClientWithEndpoint creates a client pointing at a custom base
// URL (for testing).
func NewSupplierClientWithEndpoint(cfg *config.StellarConfig, baseURL string) *SupplierClient {
	return newSupplierClient(cfg, baseURL)
}

func newSupplierClient(cfg *config.StellarConfig, baseURL string) *SupplierClient {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &SupplierClient{
		baseURL: baseURL,
		bearer:  cfg.BearerToken,
		client:  &http.Client{Timeout: timeout},
	}
}

// Search implements port.SupplierDirectory.
func (c *SupplierClient) Search(ctx context.Context, name string) ([]domain.SupplierMatch, error) {
	endpoint := c.baseURL + suppliersPath + "?name=" + url.QueryEscape(name)
	body, err := doJSON(ctx, c.client, http.MethodGet, endpoint, c.bearer, nil)
	if err != nil {
		return nil, fmt.Errorf("supplier search: %w", err)
	}
	return decodeSupplierMatches(body)
}

// decodeSupplierMatches normalizes the two known directory response
// shapes: {"items":[...]} and a bare array. Anything else fails fast as a
// malformed payload rather than silently defaulting to empty.
func decodeSupplierMatches(body []byte) ([]domain.SupplierMatch, error) {
	var bare []domain.SupplierMatch
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var env struct {
		Items *[]domain.SupplierMatch `json:"items"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Items == nil {
		return nil, fmt.Errorf("%w: unrecognized supplier search response shape", domain.ErrMalformedPayload)
	}
	return *env.Items, nil
}

var _ port.SupplierDirectory = (*SupplierClient)(nil)
