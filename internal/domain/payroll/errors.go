package payroll

import "errors"

var (
	ErrPeriodNotFound        = errors.New("payroll period not found")
	ErrPeriodAlreadyExists   = errors.New("payroll period already exists for this batch or date range")
	ErrPeriodNotRecalculable = errors.New("payroll period not found or not recalculable")
	ErrInvalidSalary         = errors.New("employee has an invalid base salary")
)
