package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
)

// PostingHistoryRepository defines the contract for durable per-invoice
// posting outcomes.
type PostingHistoryRepository interface {
	CreateBatch(ctx context.Context, records []domain.PostingRecord) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.PostingRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.PostingRecord, int, error)
}
