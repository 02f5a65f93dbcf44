package anomaly

import (
	"context"
	"fmt"

	"github.com/ph-hris/payroll-backend-go/internal/domain/anomaly"
	"github.com/ph-hris/payroll-backend-go/internal/domain/employee"
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	overtimeRatioLimit = decimal.NewFromFloat(0.5)
	netRatioFloor      = decimal.NewFromFloat(0.2)
	two                = decimal.NewFromInt(2)
)

// AnomalyServiceImpl re-derives expected values from stored records and the
// employee directory and flags discrepancies. Read-only and advisory: it
// never mutates payroll data and never blocks a budget transition.
type AnomalyServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
}

func NewAnomalyService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
) anomaly.AnomalyService {
	return &AnomalyServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *AnomalyServiceImpl) ScanPeriod(ctx context.Context, periodID string) (anomaly.ScanReport, error) {
	period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return anomaly.ScanReport{}, err
	}

	records, err := s.payrollRepo.GetRecordsByPeriod(ctx, periodID)
	if err != nil {
		return anomaly.ScanReport{}, err
	}

	employeeIDs := make([]string, 0, len(records))
	for _, rec := range records {
		employeeIDs = append(employeeIDs, rec.EmployeeID)
	}
	directory, err := s.employeeRepo.GetByIDs(ctx, employeeIDs)
	if err != nil {
		return anomaly.ScanReport{}, fmt.Errorf("failed to load employee directory: %w", err)
	}
	directoryByID := make(map[string]employee.Employee, len(directory))
	for _, e := range directory {
		directoryByID[e.ID] = e
	}

	semiMonthly := period.PayFrequency == payroll.PayFrequencySemiMonthly

	report := anomaly.ScanReport{
		PeriodID:       periodID,
		RecordsScanned: len(records),
		Findings:       []anomaly.Finding{},
	}

	for _, rec := range records {
		issues := scanRecord(rec, directoryByID, semiMonthly)
		if len(issues) == 0 {
			continue
		}
		report.Findings = append(report.Findings, anomaly.Finding{
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Issues:       issues,
		})
		report.FlaggedRecords++
		report.TotalIssues += len(issues)
	}

	return report, nil
}

func scanRecord(rec payroll.PayrollRecord, directory map[string]employee.Employee, semiMonthly bool) []string {
	var issues []string

	if rec.NetPay.IsNegative() {
		issues = append(issues, anomaly.IssueNegativeNetPay)
	}

	if rec.BasicSalary.IsPositive() {
		if rec.OvertimePay.GreaterThan(rec.BasicSalary.Mul(overtimeRatioLimit)) {
			issues = append(issues, anomaly.IssueExcessiveOvertime)
		}
		if rec.NetPay.LessThan(rec.BasicSalary.Mul(netRatioFloor)) {
			issues = append(issues, anomaly.IssueLowNetRatio)
		}
	}

	if emp, ok := directory[rec.EmployeeID]; ok {
		expectedBasic := emp.MonthlySalary
		if semiMonthly {
			expectedBasic = expectedBasic.Div(two)
		}
		if !rec.BasicSalary.Equal(expectedBasic.Round(2)) {
			issues = append(issues, anomaly.IssueSalaryDrift)
		}
		if rec.Department != emp.Department {
			issues = append(issues, anomaly.IssueDepartmentDrift)
		}
	}

	if rec.GrossPay.IsPositive() {
		if rec.DeductionSSS.IsZero() || rec.DeductionPhilHealth.IsZero() || rec.DeductionPagIBIG.IsZero() {
			issues = append(issues, anomaly.IssueMissingDeduction)
		}
	}

	return issues
}
