package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ph-hris/payroll-backend-go/internal/domain/tabatch"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/database"
)

type taBatchRepository struct {
	db *database.DB
}

func NewTABatchRepository(db *database.DB) tabatch.TABatchRepository {
	return &taBatchRepository{db: db}
}

func (r *taBatchRepository) Upsert(ctx context.Context, batch tabatch.TABatch) (tabatch.TABatch, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		INSERT INTO ta_batches (id, code, start_date, end_date, total_logs, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			total_logs = EXCLUDED.total_logs,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, code, start_date, end_date, total_logs, status, created_at, updated_at
	`

	var b tabatch.TABatch
	err := q.QueryRow(ctx, query,
		uuid.New().String(), batch.Code, batch.StartDate, batch.EndDate, batch.TotalLogs, batch.Status,
	).Scan(
		&b.ID, &b.Code, &b.StartDate, &b.EndDate, &b.TotalLogs, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return tabatch.TABatch{}, fmt.Errorf("failed to upsert ta batch: %w", err)
	}

	return b, nil
}

func (r *taBatchRepository) GetByCode(ctx context.Context, code string) (tabatch.TABatch, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT id, code, start_date, end_date, total_logs, status, created_at, updated_at
		FROM ta_batches
		WHERE code = $1
	`

	var b tabatch.TABatch
	err := q.QueryRow(ctx, query, code).Scan(
		&b.ID, &b.Code, &b.StartDate, &b.EndDate, &b.TotalLogs, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tabatch.TABatch{}, tabatch.ErrBatchNotFound
		}
		return tabatch.TABatch{}, fmt.Errorf("failed to get ta batch: %w", err)
	}

	return b, nil
}
