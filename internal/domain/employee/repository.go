package employee

import "context"

// EmployeeRepository reads from the employee directory. The payroll core never
// writes to it.
type EmployeeRepository interface {
	GetActive(ctx context.Context) ([]Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
}
