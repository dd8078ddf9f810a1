package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

type postingHistoryRepo struct {
	db *sqlx.DB
}

// NewPostingHistoryRepo creates a new PostgreSQL-backed
// PostingHistoryRepository.
func NewPostingHistoryRepo(db *sqlx.DB) port.PostingHistoryRepository {
	return &postingHistoryRepo{db: db}
}

func (r *postingHistoryRepo) CreateBatch(ctx context.Context, records []domain.PostingRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `INSERT INTO posting_records (id, run_id, invoice_id, outcome, reason, amount, posted_at)
		VALUES (:id, :run_id, :invoice_id, :outcome, :reason, :amount, :posted_at)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postingHistoryRepo.CreateBatch begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range records {
		if _, err := tx.NamedExecContext(ctx, query, &records[i]); err != nil {
			return fmt.Errorf("postingHistoryRepo.CreateBatch: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postingHistoryRepo.CreateBatch commit: %w", err)
	}
	return nil
}

func (r *postingHistoryRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.PostingRecord, error) {
	var records []domain.PostingRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM posting_records WHERE run_id = $1 ORDER BY posted_at, invoice_id", runID)
	if err != nil {
		return nil, fmt.Errorf("postingHistoryRepo.ListByRun: %w", err)
	}
	return records, nil
}

func (r *postingHistoryRepo) List(ctx context.Context, offset, limit int) ([]domain.PostingRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM posting_records")
	if err != nil {
		return nil, 0, fmt.Errorf("postingHistoryRepo.List count: %w", err)
	}

	var records []domain.PostingRecord
	err = r.db.SelectContext(ctx, &records,
		"SELECT * FROM posting_records ORDER BY posted_at DESC, invoice_id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postingHistoryRepo.List: %w", err)
	}
	return records, total, nil
}
