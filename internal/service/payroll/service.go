package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ph-hris/payroll-backend-go/internal/domain/budget"
	"github.com/ph-hris/payroll-backend-go/internal/domain/employee"
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/ph-hris/payroll-backend-go/internal/domain/tabatch"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/database"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/taexport"
	"github.com/shopspring/decimal"
)

// Placeholder earnings rules. Overtime is paid at 1.25x the derived hourly
// rate (22 working days, 8 hours); every employee gets the standard monthly
// allowance. The invariant that matters downstream is
// gross = basic + overtime + allowances.
var (
	overtimeMultiplier       = decimal.NewFromFloat(1.25)
	monthlyWorkHours         = decimal.NewFromInt(22 * 8)
	minutesPerHour           = decimal.NewFromInt(60)
	standardMonthlyAllowance = decimal.NewFromInt(2000)
)

type PayrollServiceImpl struct {
	tx           database.TxManager
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	batchRepo    tabatch.TABatchRepository
	budgetRepo   budget.BudgetRepository
	exportClient taexport.Fetcher
	calculator   *StatutoryCalculator
}

func NewPayrollService(
	tx database.TxManager,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	batchRepo tabatch.TABatchRepository,
	budgetRepo budget.BudgetRepository,
	exportClient taexport.Fetcher,
	calculator *StatutoryCalculator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		batchRepo:    batchRepo,
		budgetRepo:   budgetRepo,
		exportClient: exportClient,
		calculator:   calculator,
	}
}

// ========== BATCH PROCESSING ==========

func (s *PayrollServiceImpl) ProcessBatch(ctx context.Context, req payroll.ProcessBatchRequest) (payroll.ProcessBatchResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProcessBatchResponse{}, err
	}

	// A batch mirrored locally has already been processed: the mirror row and
	// its period are written in the same transaction. Short-circuit before
	// calling the upstream endpoint.
	if _, err := s.batchRepo.GetByCode(ctx, req.TABatchCode); err == nil {
		return payroll.ProcessBatchResponse{}, payroll.ErrPeriodAlreadyExists
	} else if !errors.Is(err, tabatch.ErrBatchNotFound) {
		return payroll.ProcessBatchResponse{}, err
	}

	// Synchronous pull from the T&A export endpoint. A timeout or non-200
	// aborts here, before any payroll state is touched.
	export, err := s.exportClient.FetchBatch(ctx, req.TABatchCode)
	if err != nil {
		return payroll.ProcessBatchResponse{}, err
	}

	if tabatch.BatchStatus(export.Status) != tabatch.BatchStatusVerified {
		return payroll.ProcessBatchResponse{}, tabatch.ErrBatchNotVerified
	}
	if export.StartDate != req.StartDate || export.EndDate != req.EndDate {
		return payroll.ProcessBatchResponse{}, tabatch.ErrBatchRangeMismatch
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	overtimeByEmployee := make(map[string]int, len(export.Employees))
	for _, e := range export.Employees {
		overtimeByEmployee[e.EmployeeID] = e.OvertimeMinutes
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return payroll.ProcessBatchResponse{}, fmt.Errorf("failed to get active employees: %w", err)
	}

	var resp payroll.ProcessBatchResponse
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.batchRepo.Upsert(ctx, tabatch.TABatch{
			Code:      export.Code,
			StartDate: startDate,
			EndDate:   endDate,
			TotalLogs: export.TotalLogs,
			Status:    tabatch.BatchStatus(export.Status),
		}); err != nil {
			return err
		}

		period := payroll.PayrollPeriod{
			Code:            periodCodeFromBatch(req.TABatchCode),
			Name:            req.Name,
			SourceBatchCode: req.TABatchCode,
			StartDate:       startDate,
			EndDate:         endDate,
			Status:          payroll.PeriodStatusDraft,
			TotalNetAmount:  decimal.Zero,
		}
		period.PayFrequency = payroll.PayFrequencyMonthly
		if period.IsSemiMonthly() {
			period.PayFrequency = payroll.PayFrequencySemiMonthly
		}

		created, err := s.payrollRepo.CreatePeriod(ctx, period)
		if err != nil {
			return err
		}

		count, totalNet, err := s.generateRecords(ctx, created, employees, overtimeByEmployee)
		if err != nil {
			return err
		}

		if err := s.payrollRepo.UpdatePeriodTotals(ctx, created.ID, count, totalNet, payroll.PeriodStatusCalculated); err != nil {
			return err
		}

		resp = payroll.ProcessBatchResponse{
			PeriodID:       created.ID,
			PeriodCode:     created.Code,
			Status:         string(payroll.PeriodStatusCalculated),
			TotalEmployees: count,
			TotalNetAmount: totalNet,
		}
		return nil
	})
	if err != nil {
		return payroll.ProcessBatchResponse{}, err
	}

	return resp, nil
}

func (s *PayrollServiceImpl) Recalculate(ctx context.Context, periodID string) (payroll.ProcessBatchResponse, error) {
	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return payroll.ProcessBatchResponse{}, fmt.Errorf("failed to get active employees: %w", err)
	}

	var resp payroll.ProcessBatchResponse
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		if period.Status != payroll.PeriodStatusCalculated && period.Status != payroll.PeriodStatusBudgeted {
			return payroll.ErrPeriodNotRecalculable
		}

		// Records are immutable: recalculation recreates the whole set.
		if err := s.payrollRepo.DeleteRecordsByPeriod(ctx, period.ID); err != nil {
			return err
		}

		// Overtime figures are not re-fetched on recalculation; the batch is
		// already verified and closed upstream.
		count, totalNet, err := s.generateRecords(ctx, period, employees, nil)
		if err != nil {
			return err
		}

		// The totals write re-checks the status. A submission that committed
		// since the read above makes the guard miss and the whole rebuild
		// rolls back, so a locked budget snapshot never drifts.
		status, err := s.payrollRepo.UpdatePeriodTotalsIf(ctx, period.ID, count, totalNet,
			[]payroll.PeriodStatus{payroll.PeriodStatusCalculated, payroll.PeriodStatusBudgeted})
		if err != nil {
			return err
		}

		resp = payroll.ProcessBatchResponse{
			PeriodID:       period.ID,
			PeriodCode:     period.Code,
			Status:         string(status),
			TotalEmployees: count,
			TotalNetAmount: totalNet,
		}
		return nil
	})
	if err != nil {
		return payroll.ProcessBatchResponse{}, err
	}

	return resp, nil
}

// generateRecords builds and persists one record per employee, returning the
// count and net total. Any error aborts the enclosing transaction, so a
// period is never observed with a partial record set.
func (s *PayrollServiceImpl) generateRecords(
	ctx context.Context,
	period payroll.PayrollPeriod,
	employees []employee.Employee,
	overtimeMinutes map[string]int,
) (int, decimal.Decimal, error) {
	semiMonthly := period.PayFrequency == payroll.PayFrequencySemiMonthly

	records := make([]payroll.PayrollRecord, 0, len(employees))
	totalNet := decimal.Zero

	for _, emp := range employees {
		record, err := s.buildRecord(period, emp, overtimeMinutes[emp.ID], semiMonthly)
		if err != nil {
			return 0, decimal.Zero, fmt.Errorf("employee %s: %w", emp.ID, err)
		}
		records = append(records, record)
		totalNet = totalNet.Add(record.NetPay)
	}

	if err := s.payrollRepo.CreateRecords(ctx, records); err != nil {
		return 0, decimal.Zero, err
	}

	return len(records), totalNet, nil
}

func (s *PayrollServiceImpl) buildRecord(
	period payroll.PayrollPeriod,
	emp employee.Employee,
	otMinutes int,
	semiMonthly bool,
) (payroll.PayrollRecord, error) {
	deductions, err := s.calculator.ComputeStatutory(emp.MonthlySalary, semiMonthly)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	basicPay := emp.MonthlySalary
	allowances := standardMonthlyAllowance
	if semiMonthly {
		basicPay = basicPay.Div(two)
		allowances = allowances.Div(two)
	}

	hourlyRate := emp.MonthlySalary.Div(monthlyWorkHours)
	overtimePay := decimal.NewFromInt(int64(otMinutes)).Div(minutesPerHour).Mul(hourlyRate).Mul(overtimeMultiplier)

	// Round each money figure once, here, where it is persisted.
	basicPay = basicPay.Round(2)
	overtimePay = overtimePay.Round(2)
	allowances = allowances.Round(2)
	sss := deductions.SSS.Round(2)
	philHealth := deductions.PhilHealth.Round(2)
	pagibig := deductions.PagIBIG.Round(2)
	tax := deductions.Tax.Round(2)

	grossPay := basicPay.Add(overtimePay).Add(allowances)
	totalDeductions := sss.Add(philHealth).Add(pagibig).Add(tax)

	return payroll.PayrollRecord{
		PeriodID:            period.ID,
		EmployeeID:          emp.ID,
		EmployeeName:        emp.FullName,
		Department:          emp.Department,
		BasicSalary:         basicPay,
		OvertimePay:         overtimePay,
		Allowances:          allowances,
		GrossPay:            grossPay,
		DeductionSSS:        sss,
		DeductionPhilHealth: philHealth,
		DeductionPagIBIG:    pagibig,
		DeductionTax:        tax,
		TotalDeductions:     totalDeductions,
		NetPay:              grossPay.Sub(totalDeductions),
	}, nil
}

// ========== READS ==========

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context) ([]payroll.PeriodResponse, error) {
	periods, err := s.payrollRepo.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp := mapPeriodResponse(p.PayrollPeriod)
		resp.BudgetStatus = p.BudgetStatus
		result = append(result, resp)
	}

	return result, nil
}

func (s *PayrollServiceImpl) GetPeriodDetail(ctx context.Context, periodID string) (payroll.PeriodDetailResponse, error) {
	period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return payroll.PeriodDetailResponse{}, err
	}

	records, err := s.payrollRepo.GetRecordsByPeriod(ctx, periodID)
	if err != nil {
		return payroll.PeriodDetailResponse{}, err
	}

	detail := payroll.PeriodDetailResponse{
		Period:  mapPeriodResponse(period),
		Records: make([]payroll.RecordResponse, 0, len(records)),
	}

	summary := payroll.RecordSummary{
		TotalGrossPay:       decimal.Zero,
		TotalDeductions:     decimal.Zero,
		TotalNetPay:         decimal.Zero,
		TotalSSS:            decimal.Zero,
		TotalPhilHealth:     decimal.Zero,
		TotalPagIBIG:        decimal.Zero,
		TotalWithholdingTax: decimal.Zero,
	}
	for _, rec := range records {
		detail.Records = append(detail.Records, mapRecordResponse(rec))
		summary.TotalGrossPay = summary.TotalGrossPay.Add(rec.GrossPay)
		summary.TotalDeductions = summary.TotalDeductions.Add(rec.TotalDeductions)
		summary.TotalNetPay = summary.TotalNetPay.Add(rec.NetPay)
		summary.TotalSSS = summary.TotalSSS.Add(rec.DeductionSSS)
		summary.TotalPhilHealth = summary.TotalPhilHealth.Add(rec.DeductionPhilHealth)
		summary.TotalPagIBIG = summary.TotalPagIBIG.Add(rec.DeductionPagIBIG)
		summary.TotalWithholdingTax = summary.TotalWithholdingTax.Add(rec.DeductionTax)
	}
	summary.EmployeeCount = len(records)
	detail.Summary = summary

	b, err := s.budgetRepo.GetByPeriodID(ctx, periodID)
	if err != nil {
		if !errors.Is(err, budget.ErrBudgetNotFound) {
			return payroll.PeriodDetailResponse{}, err
		}
	} else {
		detail.Budget = mapBudgetInfo(b)
	}

	return detail, nil
}

// ========== HELPERS ==========

// periodCodeFromBatch mirrors the export batch code into the period
// namespace: TA-YYYYMM-NN -> PR-YYYYMM-NN.
func periodCodeFromBatch(batchCode string) string {
	return "PR" + batchCode[2:]
}

func mapPeriodResponse(p payroll.PayrollPeriod) payroll.PeriodResponse {
	return payroll.PeriodResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		StartDate:      payroll.FormatDate(p.StartDate),
		EndDate:        payroll.FormatDate(p.EndDate),
		PayFrequency:   string(p.PayFrequency),
		Status:         string(p.Status),
		TotalEmployees: p.TotalEmployees,
		TotalNetAmount: p.TotalNetAmount,
	}
}

func mapRecordResponse(r payroll.PayrollRecord) payroll.RecordResponse {
	return payroll.RecordResponse{
		ID:                  r.ID,
		EmployeeID:          r.EmployeeID,
		EmployeeName:        r.EmployeeName,
		Department:          r.Department,
		BasicSalary:         r.BasicSalary,
		OvertimePay:         r.OvertimePay,
		Allowances:          r.Allowances,
		GrossPay:            r.GrossPay,
		DeductionSSS:        r.DeductionSSS,
		DeductionPhilHealth: r.DeductionPhilHealth,
		DeductionPagIBIG:    r.DeductionPagIBIG,
		DeductionTax:        r.DeductionTax,
		TotalDeductions:     r.TotalDeductions,
		NetPay:              r.NetPay,
	}
}

func mapBudgetInfo(b budget.PayrollBudget) *payroll.PeriodBudgetInfo {
	info := &payroll.PeriodBudgetInfo{
		ID:                b.ID,
		BudgetName:        b.BudgetName,
		TotalBudgetAmount: b.TotalBudgetAmount,
		ApprovalStatus:    string(b.ApprovalStatus),
		ApprovedBy:        b.ApprovedBy,
		ApproverNotes:     b.ApproverNotes,
	}
	if b.SubmittedAt != nil {
		s := b.SubmittedAt.Format(time.RFC3339)
		info.SubmittedAt = &s
	}
	if b.ApprovedAt != nil {
		s := b.ApprovedAt.Format(time.RFC3339)
		info.ApprovedAt = &s
	}
	return info
}
