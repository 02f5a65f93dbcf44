package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ph-hris/payroll-backend-go/internal/domain/budget"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type budgetRepository struct {
	db *database.DB
}

func NewBudgetRepository(db *database.DB) budget.BudgetRepository {
	return &budgetRepository{db: db}
}

const budgetColumns = `id, period_id, budget_name, total_budget_amount, approval_status,
	submitted_at, approved_at, approved_by, approver_notes, created_at, updated_at`

func scanBudget(row pgx.Row) (budget.PayrollBudget, error) {
	var b budget.PayrollBudget
	err := row.Scan(
		&b.ID, &b.PeriodID, &b.BudgetName, &b.TotalBudgetAmount, &b.ApprovalStatus,
		&b.SubmittedAt, &b.ApprovedAt, &b.ApprovedBy, &b.ApproverNotes, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *budgetRepository) CreateIfAbsent(ctx context.Context, in budget.PayrollBudget) (budget.PayrollBudget, bool, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO payroll_budgets (id, period_id, budget_name, total_budget_amount, approval_status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (period_id) DO NOTHING
		RETURNING %s
	`, budgetColumns)

	b, err := scanBudget(q.QueryRow(ctx, query,
		uuid.New().String(), in.PeriodID, in.BudgetName, in.TotalBudgetAmount, in.ApprovalStatus,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Budget already exists for the period; idempotent no-op.
			existing, getErr := r.GetByPeriodID(ctx, in.PeriodID)
			if getErr != nil {
				return budget.PayrollBudget{}, false, getErr
			}
			return existing, false, nil
		}
		return budget.PayrollBudget{}, false, fmt.Errorf("failed to create payroll budget: %w", err)
	}

	return b, true, nil
}

func (r *budgetRepository) GetByPeriodID(ctx context.Context, periodID string) (budget.PayrollBudget, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM payroll_budgets WHERE period_id = $1`, budgetColumns)

	b, err := scanBudget(q.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return budget.PayrollBudget{}, budget.ErrBudgetNotFound
		}
		return budget.PayrollBudget{}, fmt.Errorf("failed to get payroll budget: %w", err)
	}

	return b, nil
}

func (r *budgetRepository) Submit(ctx context.Context, periodID string, totalAmount decimal.Decimal, submittedAt time.Time) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE payroll_budgets
		SET approval_status = $2, total_budget_amount = $3, submitted_at = $4, updated_at = NOW()
		WHERE period_id = $1 AND approval_status = $5
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		periodID, budget.ApprovalStatusWaiting, totalAmount, submittedAt, budget.ApprovalStatusDraft,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return budget.ErrBudgetNotDraft
		}
		return fmt.Errorf("failed to submit payroll budget: %w", err)
	}

	return nil
}

func (r *budgetRepository) Approve(ctx context.Context, periodID string, approvedBy string, notes *string, approvedAt time.Time) error {
	return r.decide(ctx, periodID, budget.ApprovalStatusApproved, approvedBy, notes, approvedAt)
}

func (r *budgetRepository) Reject(ctx context.Context, periodID string, approvedBy string, notes *string, approvedAt time.Time) error {
	return r.decide(ctx, periodID, budget.ApprovalStatusRejected, approvedBy, notes, approvedAt)
}

// decide applies the approve/reject conditional write. The WHERE guard on the
// current status is the concurrency control: the loser of a race sees zero
// rows and gets ErrBudgetNotPending, never a false success.
func (r *budgetRepository) decide(ctx context.Context, periodID string, to budget.ApprovalStatus, approvedBy string, notes *string, approvedAt time.Time) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE payroll_budgets
		SET approval_status = $2, approved_at = $3, approved_by = $4, approver_notes = $5, updated_at = NOW()
		WHERE period_id = $1 AND approval_status = $6
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		periodID, to, approvedAt, approvedBy, notes, budget.ApprovalStatusWaiting,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return budget.ErrBudgetNotPending
		}
		return fmt.Errorf("failed to update payroll budget decision: %w", err)
	}

	return nil
}

func (r *budgetRepository) Reset(ctx context.Context, periodID string) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE payroll_budgets
		SET approval_status = $2, submitted_at = NULL, approved_at = NULL,
			approved_by = NULL, approver_notes = NULL, updated_at = NOW()
		WHERE period_id = $1 AND approval_status = $3
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query, periodID, budget.ApprovalStatusDraft, budget.ApprovalStatusRejected).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return budget.ErrBudgetNotRejected
		}
		return fmt.Errorf("failed to reset payroll budget: %w", err)
	}

	return nil
}
