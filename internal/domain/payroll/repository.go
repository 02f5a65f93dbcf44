package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access for periods and records. Methods
// called from inside a transaction pick the tx up from ctx.
type PayrollRepository interface {
	// Periods
	CreatePeriod(ctx context.Context, period PayrollPeriod) (PayrollPeriod, error)
	GetPeriodByID(ctx context.Context, id string) (PayrollPeriod, error)
	ListPeriods(ctx context.Context) ([]PeriodWithBudget, error)
	UpdatePeriodTotals(ctx context.Context, id string, totalEmployees int, totalNet decimal.Decimal, status PeriodStatus) error

	// UpdatePeriodTotalsIf writes new totals only while the current status is
	// one of from, leaving the status untouched, and returns that status. A
	// guard miss returns ErrPeriodNotRecalculable with no rows changed.
	UpdatePeriodTotalsIf(ctx context.Context, id string, totalEmployees int, totalNet decimal.Decimal, from []PeriodStatus) (PeriodStatus, error)

	// UpdatePeriodStatusIf is the optimistic concurrency primitive: the update
	// applies only when the current status is one of from, otherwise
	// ErrPeriodNotFound is returned and nothing changes.
	UpdatePeriodStatusIf(ctx context.Context, id string, from []PeriodStatus, to PeriodStatus) error

	// Records
	CreateRecords(ctx context.Context, records []PayrollRecord) error
	GetRecordsByPeriod(ctx context.Context, periodID string) ([]PayrollRecord, error)
	DeleteRecordsByPeriod(ctx context.Context, periodID string) error
}

// PayrollService is the calculation engine surface.
type PayrollService interface {
	ProcessBatch(ctx context.Context, req ProcessBatchRequest) (ProcessBatchResponse, error)
	Recalculate(ctx context.Context, periodID string) (ProcessBatchResponse, error)
	ListPeriods(ctx context.Context) ([]PeriodResponse, error)
	GetPeriodDetail(ctx context.Context, periodID string) (PeriodDetailResponse, error)
}

// FormatDate renders a period boundary the way the API exposes it.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
