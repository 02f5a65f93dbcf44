package budget

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetRepository defines data access for payroll budgets. Every state
// transition is a conditional update guarded on the current approval status;
// a guard miss returns the matching "not found or not <state>" error with no
// rows changed.
type BudgetRepository interface {
	// CreateIfAbsent inserts a Draft budget for the period unless one already
	// exists; created reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, b PayrollBudget) (budget PayrollBudget, created bool, err error)

	GetByPeriodID(ctx context.Context, periodID string) (PayrollBudget, error)

	// Submit: Draft -> Waiting for Approval, locking totalAmount as the
	// budget snapshot.
	Submit(ctx context.Context, periodID string, totalAmount decimal.Decimal, submittedAt time.Time) error

	// Approve: Waiting for Approval -> Approved.
	Approve(ctx context.Context, periodID string, approvedBy string, notes *string, approvedAt time.Time) error

	// Reject: Waiting for Approval -> Rejected.
	Reject(ctx context.Context, periodID string, approvedBy string, notes *string, approvedAt time.Time) error

	// Reset: Rejected -> Draft, clearing approval metadata.
	Reset(ctx context.Context, periodID string) error
}

// BudgetService is the lifecycle state machine surface. Approver identity is
// always an explicit argument, never ambient state.
type BudgetService interface {
	CreateBudget(ctx context.Context, periodID string) (BudgetResponse, error)
	Submit(ctx context.Context, periodID string) (BudgetResponse, error)
	Approve(ctx context.Context, periodID string, approver string, notes *string) (BudgetResponse, error)
	Reject(ctx context.Context, periodID string, approver string, notes *string) (BudgetResponse, error)
	Reset(ctx context.Context, periodID string) (BudgetResponse, error)
}
