package budget

import "errors"

// Zero-row conditional updates surface as the "not found or not <state>"
// errors below; losing a concurrency race looks exactly like calling from the
// wrong state, which is intentional.
var (
	ErrBudgetNotFound      = errors.New("payroll budget not found")
	ErrBudgetNotDraft      = errors.New("payroll budget not found or not draft")
	ErrBudgetNotPending    = errors.New("payroll budget not found or not pending approval")
	ErrBudgetNotRejected   = errors.New("payroll budget not found or not rejected")
	ErrPeriodNotCalculated = errors.New("payroll period not found or not calculated")
)
