package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ph-hris/payroll-backend-go/internal/domain/budget"
	"github.com/ph-hris/payroll-backend-go/internal/domain/employee"
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/ph-hris/payroll-backend-go/internal/domain/tabatch"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/taexport"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== FAKES ==========

// fakeTxManager runs the function directly. Repositories here are in-memory,
// so there is nothing to commit or roll back.
type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePayrollRepo struct {
	periods map[string]payroll.PayrollPeriod
	records map[string][]payroll.PayrollRecord
	nextID  int

	// onDeleteRecords, when set, runs before records are deleted. Lets a test
	// interleave a state change inside the rebuild window.
	onDeleteRecords func()
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		periods: make(map[string]payroll.PayrollPeriod),
		records: make(map[string][]payroll.PayrollRecord),
	}
}

func (r *fakePayrollRepo) CreatePeriod(ctx context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	for _, p := range r.periods {
		if p.Code == period.Code || p.SourceBatchCode == period.SourceBatchCode {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodAlreadyExists
		}
	}
	r.nextID++
	period.ID = fmt.Sprintf("period-%d", r.nextID)
	r.periods[period.ID] = period
	return period, nil
}

func (r *fakePayrollRepo) GetPeriodByID(ctx context.Context, id string) (payroll.PayrollPeriod, error) {
	p, ok := r.periods[id]
	if !ok {
		return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (r *fakePayrollRepo) ListPeriods(ctx context.Context) ([]payroll.PeriodWithBudget, error) {
	var out []payroll.PeriodWithBudget
	for _, p := range r.periods {
		out = append(out, payroll.PeriodWithBudget{PayrollPeriod: p})
	}
	return out, nil
}

func (r *fakePayrollRepo) UpdatePeriodTotals(ctx context.Context, id string, totalEmployees int, totalNet decimal.Decimal, status payroll.PeriodStatus) error {
	p, ok := r.periods[id]
	if !ok {
		return payroll.ErrPeriodNotFound
	}
	p.TotalEmployees = totalEmployees
	p.TotalNetAmount = totalNet
	p.Status = status
	r.periods[id] = p
	return nil
}

func (r *fakePayrollRepo) UpdatePeriodTotalsIf(ctx context.Context, id string, totalEmployees int, totalNet decimal.Decimal, from []payroll.PeriodStatus) (payroll.PeriodStatus, error) {
	p, ok := r.periods[id]
	if !ok {
		return "", payroll.ErrPeriodNotRecalculable
	}
	for _, s := range from {
		if p.Status == s {
			p.TotalEmployees = totalEmployees
			p.TotalNetAmount = totalNet
			r.periods[id] = p
			return p.Status, nil
		}
	}
	return "", payroll.ErrPeriodNotRecalculable
}

func (r *fakePayrollRepo) UpdatePeriodStatusIf(ctx context.Context, id string, from []payroll.PeriodStatus, to payroll.PeriodStatus) error {
	p, ok := r.periods[id]
	if !ok {
		return payroll.ErrPeriodNotFound
	}
	for _, s := range from {
		if p.Status == s {
			p.Status = to
			r.periods[id] = p
			return nil
		}
	}
	return payroll.ErrPeriodNotFound
}

func (r *fakePayrollRepo) CreateRecords(ctx context.Context, records []payroll.PayrollRecord) error {
	for _, rec := range records {
		r.records[rec.PeriodID] = append(r.records[rec.PeriodID], rec)
	}
	return nil
}

func (r *fakePayrollRepo) GetRecordsByPeriod(ctx context.Context, periodID string) ([]payroll.PayrollRecord, error) {
	return r.records[periodID], nil
}

func (r *fakePayrollRepo) DeleteRecordsByPeriod(ctx context.Context, periodID string) error {
	if r.onDeleteRecords != nil {
		r.onDeleteRecords()
	}
	delete(r.records, periodID)
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeBatchRepo struct {
	batches map[string]tabatch.TABatch
}

func (r *fakeBatchRepo) Upsert(ctx context.Context, b tabatch.TABatch) (tabatch.TABatch, error) {
	if r.batches == nil {
		r.batches = make(map[string]tabatch.TABatch)
	}
	r.batches[b.Code] = b
	return b, nil
}

func (r *fakeBatchRepo) GetByCode(ctx context.Context, code string) (tabatch.TABatch, error) {
	b, ok := r.batches[code]
	if !ok {
		return tabatch.TABatch{}, tabatch.ErrBatchNotFound
	}
	return b, nil
}

type fakeBudgetRepo struct {
	budgets map[string]budget.PayrollBudget
}

func (r *fakeBudgetRepo) CreateIfAbsent(ctx context.Context, b budget.PayrollBudget) (budget.PayrollBudget, bool, error) {
	return b, true, nil
}

func (r *fakeBudgetRepo) GetByPeriodID(ctx context.Context, periodID string) (budget.PayrollBudget, error) {
	b, ok := r.budgets[periodID]
	if !ok {
		return budget.PayrollBudget{}, budget.ErrBudgetNotFound
	}
	return b, nil
}

func (r *fakeBudgetRepo) Submit(ctx context.Context, periodID string, totalAmount decimal.Decimal, submittedAt time.Time) error {
	return nil
}

func (r *fakeBudgetRepo) Approve(ctx context.Context, periodID string, approvedBy string, notes *string, approvedAt time.Time) error {
	return nil
}

func (r *fakeBudgetRepo) Reject(ctx context.Context, periodID string, approvedBy string, notes *string, approvedAt time.Time) error {
	return nil
}

func (r *fakeBudgetRepo) Reset(ctx context.Context, periodID string) error {
	return nil
}

type fakeFetcher struct {
	export taexport.BatchExport
	err    error
	calls  int
}

func (f *fakeFetcher) FetchBatch(ctx context.Context, code string) (taexport.BatchExport, error) {
	f.calls++
	if f.err != nil {
		return taexport.BatchExport{}, f.err
	}
	return f.export, nil
}

// ========== HELPERS ==========

func activeEmployee(id, name, dept, salary string) employee.Employee {
	return employee.Employee{
		ID:               id,
		FullName:         name,
		Department:       dept,
		MonthlySalary:    decimal.RequireFromString(salary),
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

func verifiedExport(code, start, end string, employees []taexport.EmployeeExport) taexport.BatchExport {
	return taexport.BatchExport{
		Code:      code,
		StartDate: start,
		EndDate:   end,
		Status:    string(tabatch.BatchStatusVerified),
		TotalLogs: 100,
		Employees: employees,
	}
}

func newTestService(
	payrollRepo *fakePayrollRepo,
	employeeRepo *fakeEmployeeRepo,
	fetcher *fakeFetcher,
) payroll.PayrollService {
	return NewPayrollService(
		fakeTxManager{},
		payrollRepo,
		employeeRepo,
		&fakeBatchRepo{},
		&fakeBudgetRepo{},
		fetcher,
		NewStatutoryCalculator(),
	)
}

// ========== PROCESS BATCH ==========

func TestPayrollService_ProcessBatch_Success(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
		activeEmployee("emp-2", "Ben Cruz", "Finance", "20000"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	resp, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "PR-202508-01", resp.PeriodCode)
	assert.Equal(t, string(payroll.PeriodStatusCalculated), resp.Status)
	assert.Equal(t, 2, resp.TotalEmployees)

	period, err := payrollRepo.GetPeriodByID(ctx, resp.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayFrequencyMonthly, period.PayFrequency)
	assert.Equal(t, payroll.PeriodStatusCalculated, period.Status)
	assert.True(t, period.TotalNetAmount.Equal(resp.TotalNetAmount))

	records, err := payrollRepo.GetRecordsByPeriod(ctx, resp.PeriodID)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestPayrollService_ProcessBatch_SemiMonthlyDetected(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-15", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	resp, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 First Half",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-15",
	})
	require.NoError(t, err)

	period, err := payrollRepo.GetPeriodByID(ctx, resp.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayFrequencySemiMonthly, period.PayFrequency)

	records, err := payrollRepo.GetRecordsByPeriod(ctx, resp.PeriodID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Basic pay and allowance are halved for a semi-monthly period.
	assert.True(t, records[0].BasicSalary.Equal(decimal.RequireFromString("15000")), "got %s", records[0].BasicSalary)
	assert.True(t, records[0].Allowances.Equal(decimal.RequireFromString("1000")), "got %s", records[0].Allowances)
}

func TestPayrollService_ProcessBatch_RecordInvariants(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "35750.50"),
		activeEmployee("emp-2", "Ben Cruz", "Finance", "17600"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", []taexport.EmployeeExport{
		{EmployeeID: "emp-2", DaysPresent: 22, OvertimeMinutes: 60},
	})}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	resp, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.NoError(t, err)

	records, err := payrollRepo.GetRecordsByPeriod(ctx, resp.PeriodID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	totalNet := decimal.Zero
	for _, rec := range records {
		gross := rec.BasicSalary.Add(rec.OvertimePay).Add(rec.Allowances)
		assert.True(t, rec.GrossPay.Equal(gross), "employee %s: gross %s != %s", rec.EmployeeID, rec.GrossPay, gross)

		total := rec.DeductionSSS.Add(rec.DeductionPhilHealth).Add(rec.DeductionPagIBIG).Add(rec.DeductionTax)
		assert.True(t, rec.TotalDeductions.Equal(total), "employee %s: deductions %s != %s", rec.EmployeeID, rec.TotalDeductions, total)
		assert.True(t, rec.NetPay.Equal(rec.GrossPay.Sub(rec.TotalDeductions)), "employee %s", rec.EmployeeID)

		totalNet = totalNet.Add(rec.NetPay)

		if rec.EmployeeID == "emp-2" {
			// 17600/176 = 100/hour, one hour at 1.25x.
			assert.True(t, rec.OvertimePay.Equal(decimal.RequireFromString("125")), "got %s", rec.OvertimePay)
		}
	}
	assert.True(t, resp.TotalNetAmount.Equal(totalNet))
}

func TestPayrollService_ProcessBatch_BatchNotVerified(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
	}}
	fetcher := &fakeFetcher{export: taexport.BatchExport{
		Code:   "TA-202508-01",
		Status: string(tabatch.BatchStatusPendingReview),
	}}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	_, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	assert.ErrorIs(t, err, tabatch.ErrBatchNotVerified)
	assert.Empty(t, payrollRepo.periods, "no period may be created from an unverified batch")
}

func TestPayrollService_ProcessBatch_ExportUnavailable(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{}
	exportErr := &taexport.ExportError{StatusCode: 503, Body: "maintenance"}
	fetcher := &fakeFetcher{err: exportErr}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	_, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	var gotErr *taexport.ExportError
	require.ErrorAs(t, err, &gotErr)
	assert.Equal(t, 503, gotErr.StatusCode)
	assert.Empty(t, payrollRepo.periods)
}

func TestPayrollService_ProcessBatch_ValidationErrors(t *testing.T) {
	svc := newTestService(newFakePayrollRepo(), &fakeEmployeeRepo{}, &fakeFetcher{})

	_, err := svc.ProcessBatch(context.Background(), payroll.ProcessBatchRequest{
		TABatchCode: "BATCH-1",
		StartDate:   "2025-08-31",
		EndDate:     "2025-08-01",
	})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "ta_batch_code")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "end_date")
}

func TestPayrollService_ProcessBatch_DuplicateBatch(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	req := payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	}
	_, err := svc.ProcessBatch(ctx, req)
	require.NoError(t, err)

	_, err = svc.ProcessBatch(ctx, req)
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyExists)
}

func TestPayrollService_ProcessBatch_InvalidSalaryAborts(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
		activeEmployee("emp-2", "Ben Cruz", "Finance", "-500"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	_, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.ErrorIs(t, err, payroll.ErrInvalidSalary)

	// One bad employee fails the whole run; no record set is persisted.
	for _, recs := range payrollRepo.records {
		assert.Empty(t, recs)
	}
}

func TestPayrollService_ProcessBatch_MirroredBatchShortCircuits(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	batchRepo := &fakeBatchRepo{}
	_, err := batchRepo.Upsert(ctx, tabatch.TABatch{
		Code:   "TA-202508-01",
		Status: tabatch.BatchStatusVerified,
	})
	require.NoError(t, err)

	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}
	svc := NewPayrollService(
		fakeTxManager{},
		payrollRepo,
		&fakeEmployeeRepo{},
		batchRepo,
		&fakeBudgetRepo{},
		fetcher,
		NewStatutoryCalculator(),
	)

	_, err = svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyExists)
	assert.Equal(t, 0, fetcher.calls, "a mirrored batch must not trigger an upstream fetch")
}

func TestPayrollService_ProcessBatch_BatchRangeMismatch(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
	}}
	// Upstream batch covers a different range than the request.
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-30", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	_, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	assert.ErrorIs(t, err, tabatch.ErrBatchRangeMismatch)
	assert.Empty(t, payrollRepo.periods)
}

func TestPayrollService_ProcessBatch_NoActiveEmployees(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", FullName: "Gone Person", EmploymentStatus: employee.EmploymentStatusResigned},
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	resp, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.NoError(t, err)

	// A valid empty period, not an error.
	assert.Equal(t, 0, resp.TotalEmployees)
	assert.True(t, resp.TotalNetAmount.IsZero())
}

// ========== RECALCULATE ==========

func TestPayrollService_Recalculate_RefreshesRecords(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	created, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.NoError(t, err)

	// Salary raise in the directory; recalculation picks up the new figure.
	employeeRepo.employees[0].MonthlySalary = decimal.RequireFromString("40000")

	resp, err := svc.Recalculate(ctx, created.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalEmployees)
	assert.True(t, resp.TotalNetAmount.GreaterThan(created.TotalNetAmount))

	records, err := payrollRepo.GetRecordsByPeriod(ctx, created.PeriodID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].BasicSalary.Equal(decimal.RequireFromString("40000")))
}

func TestPayrollService_Recalculate_PreservesBudgetedStatus(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	created, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.NoError(t, err)

	require.NoError(t, payrollRepo.UpdatePeriodStatusIf(ctx, created.PeriodID,
		[]payroll.PeriodStatus{payroll.PeriodStatusCalculated}, payroll.PeriodStatusBudgeted))

	resp, err := svc.Recalculate(ctx, created.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PeriodStatusBudgeted), resp.Status)
}

func TestPayrollService_Recalculate_SubmittedDuringRebuild(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	created, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.NoError(t, err)

	// The period is submitted after the recalculation read its status but
	// before the rebuilt totals land. The guarded write must miss.
	payrollRepo.onDeleteRecords = func() {
		p := payrollRepo.periods[created.PeriodID]
		p.Status = payroll.PeriodStatusPendingApproval
		payrollRepo.periods[created.PeriodID] = p
	}

	_, err = svc.Recalculate(ctx, created.PeriodID)
	assert.ErrorIs(t, err, payroll.ErrPeriodNotRecalculable)
}

func TestPayrollService_Recalculate_LockedPeriod(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	payrollRepo.periods["period-1"] = payroll.PayrollPeriod{
		ID:     "period-1",
		Code:   "PR-202508-01",
		Status: payroll.PeriodStatusPendingApproval,
	}

	svc := newTestService(payrollRepo, &fakeEmployeeRepo{}, &fakeFetcher{})

	_, err := svc.Recalculate(ctx, "period-1")
	assert.ErrorIs(t, err, payroll.ErrPeriodNotRecalculable)
}

func TestPayrollService_Recalculate_PeriodNotFound(t *testing.T) {
	svc := newTestService(newFakePayrollRepo(), &fakeEmployeeRepo{}, &fakeFetcher{})

	_, err := svc.Recalculate(context.Background(), "missing")
	assert.ErrorIs(t, err, payroll.ErrPeriodNotFound)
}

// ========== READS ==========

func TestPayrollService_GetPeriodDetail_SummaryAddsUp(t *testing.T) {
	ctx := context.Background()
	payrollRepo := newFakePayrollRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		activeEmployee("emp-1", "Ana Reyes", "Engineering", "30000"),
		activeEmployee("emp-2", "Ben Cruz", "Finance", "20000"),
	}}
	fetcher := &fakeFetcher{export: verifiedExport("TA-202508-01", "2025-08-01", "2025-08-31", nil)}

	svc := newTestService(payrollRepo, employeeRepo, fetcher)

	created, err := svc.ProcessBatch(ctx, payroll.ProcessBatchRequest{
		TABatchCode: "TA-202508-01",
		Name:        "August 2025 Payroll",
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-31",
	})
	require.NoError(t, err)

	detail, err := svc.GetPeriodDetail(ctx, created.PeriodID)
	require.NoError(t, err)

	assert.Len(t, detail.Records, 2)
	assert.Equal(t, 2, detail.Summary.EmployeeCount)
	assert.Nil(t, detail.Budget, "no budget exists yet")

	gross := decimal.Zero
	net := decimal.Zero
	for _, rec := range detail.Records {
		gross = gross.Add(rec.GrossPay)
		net = net.Add(rec.NetPay)
	}
	assert.True(t, detail.Summary.TotalGrossPay.Equal(gross))
	assert.True(t, detail.Summary.TotalNetPay.Equal(net))
}

func TestPayrollService_GetPeriodDetail_NotFound(t *testing.T) {
	svc := newTestService(newFakePayrollRepo(), &fakeEmployeeRepo{}, &fakeFetcher{})

	_, err := svc.GetPeriodDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, payroll.ErrPeriodNotFound)
}
