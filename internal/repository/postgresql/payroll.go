package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== PERIODS ==========

const periodColumns = `id, code, name, source_batch_code, start_date, end_date,
	pay_frequency, status, total_employees, total_net_amount, created_at, updated_at`

func scanPeriod(row pgx.Row) (payroll.PayrollPeriod, error) {
	var p payroll.PayrollPeriod
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.SourceBatchCode, &p.StartDate, &p.EndDate,
		&p.PayFrequency, &p.Status, &p.TotalEmployees, &p.TotalNetAmount, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepository) CreatePeriod(ctx context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO payroll_periods (
			id, code, name, source_batch_code, start_date, end_date,
			pay_frequency, status, total_employees, total_net_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, periodColumns)

	p, err := scanPeriod(q.QueryRow(ctx, query,
		uuid.New().String(), period.Code, period.Name, period.SourceBatchCode,
		period.StartDate, period.EndDate, period.PayFrequency, period.Status,
		period.TotalEmployees, period.TotalNetAmount,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return payroll.PayrollPeriod{}, payroll.ErrPeriodAlreadyExists
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetPeriodByID(ctx context.Context, id string) (payroll.PayrollPeriod, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM payroll_periods WHERE id = $1`, periodColumns)

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context) ([]payroll.PeriodWithBudget, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT p.id, p.code, p.name, p.source_batch_code, p.start_date, p.end_date,
			   p.pay_frequency, p.status, p.total_employees, p.total_net_amount,
			   p.created_at, p.updated_at, b.approval_status
		FROM payroll_periods p
		LEFT JOIN payroll_budgets b ON b.period_id = p.id
		ORDER BY p.start_date DESC, p.code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.PeriodWithBudget
	for rows.Next() {
		var p payroll.PeriodWithBudget
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.SourceBatchCode, &p.StartDate, &p.EndDate,
			&p.PayFrequency, &p.Status, &p.TotalEmployees, &p.TotalNetAmount,
			&p.CreatedAt, &p.UpdatedAt, &p.BudgetStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

func (r *payrollRepository) UpdatePeriodTotals(ctx context.Context, id string, totalEmployees int, totalNet decimal.Decimal, status payroll.PeriodStatus) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET total_employees = $2, total_net_amount = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, totalEmployees, totalNet, status).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to update period totals: %w", err)
	}

	return nil
}

func (r *payrollRepository) UpdatePeriodTotalsIf(ctx context.Context, id string, totalEmployees int, totalNet decimal.Decimal, from []payroll.PeriodStatus) (payroll.PeriodStatus, error) {
	q := database.QuerierFromContext(ctx, r.db)

	placeholders := make([]string, 0, len(from))
	args := []interface{}{id, totalEmployees, totalNet}
	for i, s := range from {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+4))
		args = append(args, s)
	}

	query := fmt.Sprintf(`
		UPDATE payroll_periods
		SET total_employees = $2, total_net_amount = $3, updated_at = NOW()
		WHERE id = $1 AND status IN (%s)
		RETURNING status
	`, strings.Join(placeholders, ", "))

	var status payroll.PeriodStatus
	err := q.QueryRow(ctx, query, args...).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", payroll.ErrPeriodNotRecalculable
		}
		return "", fmt.Errorf("failed to update period totals: %w", err)
	}

	return status, nil
}

func (r *payrollRepository) UpdatePeriodStatusIf(ctx context.Context, id string, from []payroll.PeriodStatus, to payroll.PeriodStatus) error {
	q := database.QuerierFromContext(ctx, r.db)

	placeholders := make([]string, 0, len(from))
	args := []interface{}{id, to}
	for i, s := range from {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
		args = append(args, s)
	}

	query := fmt.Sprintf(`
		UPDATE payroll_periods
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status IN (%s)
		RETURNING id
	`, strings.Join(placeholders, ", "))

	var updatedID string
	err := q.QueryRow(ctx, query, args...).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to update period status: %w", err)
	}

	return nil
}

// ========== RECORDS ==========

func (r *payrollRepository) CreateRecords(ctx context.Context, records []payroll.PayrollRecord) error {
	if len(records) == 0 {
		return nil
	}

	q := database.QuerierFromContext(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			id, period_id, employee_id, employee_name, department,
			basic_salary, overtime_pay, allowances, gross_pay,
			deduction_sss, deduction_philhealth, deduction_pagibig, deduction_tax,
			total_deductions, net_pay
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	for _, rec := range records {
		_, err := q.Exec(ctx, query,
			uuid.New().String(), rec.PeriodID, rec.EmployeeID, rec.EmployeeName, rec.Department,
			rec.BasicSalary, rec.OvertimePay, rec.Allowances, rec.GrossPay,
			rec.DeductionSSS, rec.DeductionPhilHealth, rec.DeductionPagIBIG, rec.DeductionTax,
			rec.TotalDeductions, rec.NetPay,
		)
		if err != nil {
			return fmt.Errorf("failed to create payroll record for employee %s: %w", rec.EmployeeID, err)
		}
	}

	return nil
}

func (r *payrollRepository) GetRecordsByPeriod(ctx context.Context, periodID string) ([]payroll.PayrollRecord, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT id, period_id, employee_id, employee_name, department,
			   basic_salary, overtime_pay, allowances, gross_pay,
			   deduction_sss, deduction_philhealth, deduction_pagibig, deduction_tax,
			   total_deductions, net_pay, created_at
		FROM payroll_records
		WHERE period_id = $1
		ORDER BY employee_name
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		if err := rows.Scan(
			&rec.ID, &rec.PeriodID, &rec.EmployeeID, &rec.EmployeeName, &rec.Department,
			&rec.BasicSalary, &rec.OvertimePay, &rec.Allowances, &rec.GrossPay,
			&rec.DeductionSSS, &rec.DeductionPhilHealth, &rec.DeductionPagIBIG, &rec.DeductionTax,
			&rec.TotalDeductions, &rec.NetPay, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *payrollRepository) DeleteRecordsByPeriod(ctx context.Context, periodID string) error {
	q := database.QuerierFromContext(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE period_id = $1`, periodID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll records: %w", err)
	}

	return nil
}
