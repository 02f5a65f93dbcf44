package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStatus enum
type ApprovalStatus string

const (
	ApprovalStatusDraft    ApprovalStatus = "Draft"
	ApprovalStatusWaiting  ApprovalStatus = "Waiting for Approval"
	ApprovalStatusApproved ApprovalStatus = "Approved"
	ApprovalStatusRejected ApprovalStatus = "Rejected"
)

// PayrollBudget is the finance-approval wrapper around a calculated period's
// total net payout, 1:1 with its period. TotalBudgetAmount is snapshotted at
// submission and locked against later recalculation.
type PayrollBudget struct {
	ID                string
	PeriodID          string
	BudgetName        string
	TotalBudgetAmount decimal.Decimal
	ApprovalStatus    ApprovalStatus
	SubmittedAt       *time.Time
	ApprovedAt        *time.Time
	ApprovedBy        *string
	ApproverNotes     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
