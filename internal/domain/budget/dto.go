package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type DecisionRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type BudgetResponse struct {
	ID                string          `json:"id"`
	PeriodID          string          `json:"period_id"`
	BudgetName        string          `json:"budget_name"`
	TotalBudgetAmount decimal.Decimal `json:"total_budget_amount"`
	ApprovalStatus    string          `json:"approval_status"`
	PeriodStatus      string          `json:"period_status"`
	SubmittedAt       *string         `json:"submitted_at,omitempty"`
	ApprovedAt        *string         `json:"approved_at,omitempty"`
	ApprovedBy        *string         `json:"approved_by,omitempty"`
	ApproverNotes     *string         `json:"approver_notes,omitempty"`
}

// ToResponse maps the entity plus its period's mirrored status.
func ToResponse(b PayrollBudget, periodStatus string) BudgetResponse {
	resp := BudgetResponse{
		ID:                b.ID,
		PeriodID:          b.PeriodID,
		BudgetName:        b.BudgetName,
		TotalBudgetAmount: b.TotalBudgetAmount,
		ApprovalStatus:    string(b.ApprovalStatus),
		PeriodStatus:      periodStatus,
		ApprovedBy:        b.ApprovedBy,
		ApproverNotes:     b.ApproverNotes,
	}
	if b.SubmittedAt != nil {
		s := b.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &s
	}
	if b.ApprovedAt != nil {
		s := b.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}
