package anomaly

import "context"

// Issue codes flagged by the scanner.
const (
	IssueNegativeNetPay    = "negative_net_pay"
	IssueExcessiveOvertime = "overtime_exceeds_half_of_basic"
	IssueLowNetRatio       = "net_pay_below_20_percent_of_basic"
	IssueSalaryDrift       = "basic_salary_drifted_from_directory"
	IssueDepartmentDrift   = "department_mismatch"
	IssueMissingDeduction  = "missing_mandatory_deduction"
)

// Finding is one employee's list of flagged issues for a period.
type Finding struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Issues       []string `json:"issues"`
}

// ScanReport is advisory output only; a scan never mutates payroll state and
// never blocks a budget transition.
type ScanReport struct {
	PeriodID       string    `json:"period_id"`
	RecordsScanned int       `json:"records_scanned"`
	FlaggedRecords int       `json:"flagged_records"`
	TotalIssues    int       `json:"total_issues"`
	Findings       []Finding `json:"findings"`
}

type AnomalyService interface {
	ScanPeriod(ctx context.Context, periodID string) (ScanReport, error)
}
