package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)

// Employee is the read-only view of the employee directory the payroll core
// consumes. Salary is the current monthly base salary; records snapshot it at
// calculation time.
type Employee struct {
	ID               string
	FullName         string
	Department       string
	MonthlySalary    decimal.Decimal
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
