package postgresql

import (
	"context"
	"fmt"

	"github.com/ph-hris/payroll-backend-go/internal/domain/employee"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetActive(ctx context.Context) ([]employee.Employee, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT id, full_name, department, monthly_salary, employment_status, created_at, updated_at
		FROM employees
		WHERE employment_status = 'active'
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.FullName, &e.Department, &e.MonthlySalary, &e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func (r *employeeRepository) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT id, full_name, department, monthly_salary, employment_status, created_at, updated_at
		FROM employees
		WHERE id = ANY($1)
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees by ids: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.FullName, &e.Department, &e.MonthlySalary, &e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
