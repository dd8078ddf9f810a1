package port

import (
	"context"
	"time"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// SupplierSearchCache defines the contract for short-lived caching of
// supplier search results, keyed by normalized query.
type SupplierSearchCache interface {
	Get(ctx context.Context, key string) ([]domain.SupplierMatch, bool, error)
	Set(ctx context.Context, key string, matches []domain.SupplierMatch, ttl time.Duration) error
}
