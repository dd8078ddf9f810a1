package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// InvoiceGateway defines the contract with the Remote Invoice Service. All
// methods return domain.ErrServiceUnavailable (wrapped) on transport
// errors or non-2xx responses; no partial result is synthesized on
// failure.
type InvoiceGateway interface {
	// Preflight classifies a batch of invoice ids. Read-only and
	// idempotent: the same ids with no intervening vendor-link mutation
	// yield an equivalent partition.
	Preflight(ctx context.Context, ids []uuid.UUID) (*domain.PreflightResponse, error)

	// LinkVendor durably maps an internal vendor name to a Stellar
	// supplier. The mapping is idempotent, last-write-wins.
	LinkVendor(ctx context.Context, req domain.VendorLinkRequest) error

	// BulkPost submits ready invoice ids. On a 2xx response the result is
	// authoritative and final.
	BulkPost(ctx context.Context, ids []uuid.UUID) (*domain.BulkPostResult, error)
}

// SupplierDirectory defines the contract with the Stellar supplier
// registry.
type SupplierDirectory interface {
	// Search queries suppliers by free-text name and returns ranked
	// candidates, possibly empty. A genuinely malformed payload is
	// domain.ErrMalformedPayload, never an empty result.
	Search(ctx context.Context, name string) ([]domain.SupplierMatch, error)
}
