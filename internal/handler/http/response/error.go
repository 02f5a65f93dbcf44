package response

import (
	"errors"
	"net/http"

	"github.com/ph-hris/payroll-backend-go/internal/domain/budget"
	"github.com/ph-hris/payroll-backend-go/internal/domain/employee"
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/ph-hris/payroll-backend-go/internal/domain/tabatch"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/taexport"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Upstream T&A export failures keep the status and body of the failed
	// call so the caller can decide whether to retry.
	var exportErr *taexport.ExportError
	if errors.As(err, &exportErr) {
		BadGateway(w, exportErr.Error())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPeriodAlreadyExists):
		Conflict(w, "Payroll period already exists for this batch or date range")
	case errors.Is(err, payroll.ErrPeriodNotRecalculable):
		Conflict(w, "Payroll period not found or not recalculable")
	case errors.Is(err, payroll.ErrInvalidSalary):
		Conflict(w, "An employee has an invalid base salary; batch aborted")

	// T&A batch errors
	case errors.Is(err, tabatch.ErrBatchNotFound):
		NotFound(w, "T&A batch not found")
	case errors.Is(err, tabatch.ErrBatchNotVerified):
		Conflict(w, "T&A batch is not verified")
	case errors.Is(err, tabatch.ErrBatchRangeMismatch):
		Conflict(w, "T&A batch date range does not match the requested period")

	// Budget domain errors
	case errors.Is(err, budget.ErrBudgetNotFound):
		NotFound(w, "Payroll budget not found")
	case errors.Is(err, budget.ErrBudgetNotDraft):
		Conflict(w, "Payroll budget not found or not draft")
	case errors.Is(err, budget.ErrBudgetNotPending):
		Conflict(w, "Payroll budget not found or not pending approval")
	case errors.Is(err, budget.ErrBudgetNotRejected):
		Conflict(w, "Payroll budget not found or not rejected")
	case errors.Is(err, budget.ErrPeriodNotCalculated):
		Conflict(w, "Payroll period not found or not calculated")

	// Employee directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
