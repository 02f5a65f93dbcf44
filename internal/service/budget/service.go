package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/ph-hris/payroll-backend-go/internal/domain/budget"
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/database"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// BudgetServiceImpl drives the budget lifecycle. Every operation updates the
// budget row and its period row inside one transaction, so no reader ever
// observes the pair in an inconsistent state.
type BudgetServiceImpl struct {
	tx          database.TxManager
	budgetRepo  budget.BudgetRepository
	payrollRepo payroll.PayrollRepository
	now         func() time.Time
}

func NewBudgetService(
	tx database.TxManager,
	budgetRepo budget.BudgetRepository,
	payrollRepo payroll.PayrollRepository,
) budget.BudgetService {
	return &BudgetServiceImpl{
		tx:          tx,
		budgetRepo:  budgetRepo,
		payrollRepo: payrollRepo,
		now:         time.Now,
	}
}

// CreateBudget creates a Draft budget for a Calculated period and moves the
// period to Budgeted. Idempotent: a period that already has a budget returns
// the existing one unchanged.
func (s *BudgetServiceImpl) CreateBudget(ctx context.Context, periodID string) (budget.BudgetResponse, error) {
	var resp budget.BudgetResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}

		b, created, err := s.budgetRepo.CreateIfAbsent(ctx, budget.PayrollBudget{
			PeriodID:          periodID,
			BudgetName:        fmt.Sprintf("%s Budget", period.Name),
			TotalBudgetAmount: decimal.Zero,
			ApprovalStatus:    budget.ApprovalStatusDraft,
		})
		if err != nil {
			return err
		}

		if !created {
			resp = budget.ToResponse(b, string(period.Status))
			return nil
		}

		if period.Status != payroll.PeriodStatusCalculated {
			return budget.ErrPeriodNotCalculated
		}
		if err := s.payrollRepo.UpdatePeriodStatusIf(ctx, periodID,
			[]payroll.PeriodStatus{payroll.PeriodStatusCalculated}, payroll.PeriodStatusBudgeted); err != nil {
			return budget.ErrPeriodNotCalculated
		}

		resp = budget.ToResponse(b, string(payroll.PeriodStatusBudgeted))
		return nil
	})
	if err != nil {
		return budget.BudgetResponse{}, err
	}

	return resp, nil
}

// Submit locks the period's current total net amount into the budget snapshot
// and moves the pair to Waiting for Approval / Pending Approval. Later
// recalculation of the period cannot change the snapshot.
func (s *BudgetServiceImpl) Submit(ctx context.Context, periodID string) (budget.BudgetResponse, error) {
	var resp budget.BudgetResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}

		submittedAt := s.now()
		if err := s.budgetRepo.Submit(ctx, periodID, period.TotalNetAmount, submittedAt); err != nil {
			return err
		}
		if err := s.payrollRepo.UpdatePeriodStatusIf(ctx, periodID,
			[]payroll.PeriodStatus{payroll.PeriodStatusBudgeted}, payroll.PeriodStatusPendingApproval); err != nil {
			return err
		}

		return s.loadResponse(ctx, periodID, &resp)
	})
	if err != nil {
		return budget.BudgetResponse{}, err
	}

	return resp, nil
}

// Approve moves Waiting for Approval -> Approved. The conditional write in
// the repository guarantees only the first of two concurrent approvals
// succeeds; the second gets ErrBudgetNotPending.
func (s *BudgetServiceImpl) Approve(ctx context.Context, periodID string, approver string, notes *string) (budget.BudgetResponse, error) {
	return s.decide(ctx, periodID, approver, notes, true)
}

// Reject moves Waiting for Approval -> Rejected with the same guard as
// Approve.
func (s *BudgetServiceImpl) Reject(ctx context.Context, periodID string, approver string, notes *string) (budget.BudgetResponse, error) {
	return s.decide(ctx, periodID, approver, notes, false)
}

func (s *BudgetServiceImpl) decide(ctx context.Context, periodID string, approver string, notes *string, approve bool) (budget.BudgetResponse, error) {
	if approver == "" {
		return budget.BudgetResponse{}, validator.ValidationErrors{
			{Field: "approver", Message: "is required"},
		}
	}

	var resp budget.BudgetResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		decidedAt := s.now()

		var err error
		periodStatus := payroll.PeriodStatusApproved
		if approve {
			err = s.budgetRepo.Approve(ctx, periodID, approver, notes, decidedAt)
		} else {
			err = s.budgetRepo.Reject(ctx, periodID, approver, notes, decidedAt)
			periodStatus = payroll.PeriodStatusRejected
		}
		if err != nil {
			return err
		}

		if err := s.payrollRepo.UpdatePeriodStatusIf(ctx, periodID,
			[]payroll.PeriodStatus{payroll.PeriodStatusPendingApproval}, periodStatus); err != nil {
			return err
		}

		return s.loadResponse(ctx, periodID, &resp)
	})
	if err != nil {
		return budget.BudgetResponse{}, err
	}

	return resp, nil
}

// Reset returns a Rejected budget to Draft so it can be corrected and
// resubmitted without fabricating a new period. Approval metadata is cleared.
func (s *BudgetServiceImpl) Reset(ctx context.Context, periodID string) (budget.BudgetResponse, error) {
	var resp budget.BudgetResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.budgetRepo.Reset(ctx, periodID); err != nil {
			return err
		}
		if err := s.payrollRepo.UpdatePeriodStatusIf(ctx, periodID,
			[]payroll.PeriodStatus{payroll.PeriodStatusRejected}, payroll.PeriodStatusBudgeted); err != nil {
			return err
		}

		return s.loadResponse(ctx, periodID, &resp)
	})
	if err != nil {
		return budget.BudgetResponse{}, err
	}

	return resp, nil
}

func (s *BudgetServiceImpl) loadResponse(ctx context.Context, periodID string, out *budget.BudgetResponse) error {
	b, err := s.budgetRepo.GetByPeriodID(ctx, periodID)
	if err != nil {
		return err
	}
	period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	*out = budget.ToResponse(b, string(period.Status))
	return nil
}
