package cache

import (
	"context"
	"time"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

// NoopSupplierSearchCache is used when no Redis instance is configured.
type NoopSupplierSearchCache struct{}

func (NoopSupplierSearchCache) Get(_ context.Context, _ string) ([]domain.SupplierMatch, bool, error) {
	return nil, false, nil
}

func (NoopSupplierSearchCache) Set(_ context.Context, _ string, _ []domain.SupplierMatch, _ time.Duration) error {
	return nil
}

var _ port.SupplierSearchCache = NoopSupplierSearchCache{}
