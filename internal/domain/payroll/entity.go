package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayFrequency enum
type PayFrequency string

const (
	PayFrequencyMonthly     PayFrequency = "Monthly"
	PayFrequencySemiMonthly PayFrequency = "Semi-Monthly"
)

// PeriodStatus enum. Transitions are owned by the budget lifecycle service;
// nothing else mutates a period's status after calculation.
type PeriodStatus string

const (
	PeriodStatusDraft           PeriodStatus = "Draft"
	PeriodStatusCalculated      PeriodStatus = "Calculated"
	PeriodStatusBudgeted        PeriodStatus = "Budgeted"
	PeriodStatusPendingApproval PeriodStatus = "Pending Approval"
	PeriodStatusApproved        PeriodStatus = "Approved"
	PeriodStatusReleased        PeriodStatus = "Released"
	PeriodStatusRejected        PeriodStatus = "Rejected"
)

// PayrollPeriod is a financial record: created when a verified T&A batch is
// processed, never deleted.
type PayrollPeriod struct {
	ID              string
	Code            string
	Name            string
	SourceBatchCode string
	StartDate       time.Time
	EndDate         time.Time
	PayFrequency    PayFrequency
	Status          PeriodStatus
	TotalEmployees  int
	TotalNetAmount  decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSemiMonthly reports whether the period span is shorter than 20 days.
func (p PayrollPeriod) IsSemiMonthly() bool {
	return p.EndDate.Sub(p.StartDate) < 20*24*time.Hour
}

// PayrollRecord is one employee's computed pay for a period. Name, department
// and salary are snapshotted at calculation time, not live-joined. Records are
// immutable; recalculation re-creates the whole set.
type PayrollRecord struct {
	ID                  string
	PeriodID            string
	EmployeeID          string
	EmployeeName        string
	Department          string
	BasicSalary         decimal.Decimal
	OvertimePay         decimal.Decimal
	Allowances          decimal.Decimal
	GrossPay            decimal.Decimal
	DeductionSSS        decimal.Decimal
	DeductionPhilHealth decimal.Decimal
	DeductionPagIBIG    decimal.Decimal
	DeductionTax        decimal.Decimal
	TotalDeductions     decimal.Decimal
	NetPay              decimal.Decimal
	CreatedAt           time.Time
}

// PeriodWithBudget is the list view: a period with its budget's approval
// status left-joined, when a budget exists.
type PeriodWithBudget struct {
	PayrollPeriod
	BudgetStatus *string
}
