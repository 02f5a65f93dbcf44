package tabatch

import "context"

type TABatchRepository interface {
	Upsert(ctx context.Context, batch TABatch) (TABatch, error)
	GetByCode(ctx context.Context, code string) (TABatch, error)
}
