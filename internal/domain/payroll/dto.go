package payroll

import (
	"github.com/ph-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PROCESS BATCH DTOs ==========

type ProcessBatchRequest struct {
	TABatchCode string `json:"ta_batch_code"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (r *ProcessBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TABatchCode) {
		errs = append(errs, validator.ValidationError{Field: "ta_batch_code", Message: "is required"})
	} else if !validator.IsValidBatchCode(r.TABatchCode) {
		errs = append(errs, validator.ValidationError{Field: "ta_batch_code", Message: "must match TA-YYYYMM-NN"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProcessBatchResponse struct {
	PeriodID       string          `json:"period_id"`
	PeriodCode     string          `json:"period_code"`
	Status         string          `json:"status"`
	TotalEmployees int             `json:"total_employees"`
	TotalNetAmount decimal.Decimal `json:"total_net_amount"`
}

// ========== PERIOD DTOs ==========

type PeriodResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	PayFrequency   string          `json:"pay_frequency"`
	Status         string          `json:"status"`
	TotalEmployees int             `json:"total_employees"`
	TotalNetAmount decimal.Decimal `json:"total_net_amount"`
	BudgetStatus   *string         `json:"budget_status,omitempty"`
}

type RecordResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        string          `json:"employee_name"`
	Department          string          `json:"department"`
	BasicSalary         decimal.Decimal `json:"basic_salary"`
	OvertimePay         decimal.Decimal `json:"overtime_pay"`
	Allowances          decimal.Decimal `json:"allowances"`
	GrossPay            decimal.Decimal `json:"gross_pay"`
	DeductionSSS        decimal.Decimal `json:"deduction_sss"`
	DeductionPhilHealth decimal.Decimal `json:"deduction_philhealth"`
	DeductionPagIBIG    decimal.Decimal `json:"deduction_pagibig"`
	DeductionTax        decimal.Decimal `json:"deduction_tax"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	NetPay              decimal.Decimal `json:"net_pay"`
}

// RecordSummary aggregates a period's record set for the detail view.
type RecordSummary struct {
	TotalGrossPay       decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	TotalNetPay         decimal.Decimal `json:"total_net_pay"`
	TotalSSS            decimal.Decimal `json:"total_sss"`
	TotalPhilHealth     decimal.Decimal `json:"total_philhealth"`
	TotalPagIBIG        decimal.Decimal `json:"total_pagibig"`
	TotalWithholdingTax decimal.Decimal `json:"total_withholding_tax"`
	EmployeeCount       int             `json:"employee_count"`
}

// PeriodBudgetInfo is the budget slice of the detail view. Kept here so the
// detail response stays a single payload.
type PeriodBudgetInfo struct {
	ID                string          `json:"id"`
	BudgetName        string          `json:"budget_name"`
	TotalBudgetAmount decimal.Decimal `json:"total_budget_amount"`
	ApprovalStatus    string          `json:"approval_status"`
	SubmittedAt       *string         `json:"submitted_at,omitempty"`
	ApprovedAt        *string         `json:"approved_at,omitempty"`
	ApprovedBy        *string         `json:"approved_by,omitempty"`
	ApproverNotes     *string         `json:"approver_notes,omitempty"`
}

type PeriodDetailResponse struct {
	Period  PeriodResponse    `json:"period"`
	Budget  *PeriodBudgetInfo `json:"budget,omitempty"`
	Summary RecordSummary     `json:"summary"`
	Records []RecordResponse  `json:"records"`
}
