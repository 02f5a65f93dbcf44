package taexport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ph-hris/payroll-backend-go/internal/config"
)

// BatchExport is the payload returned by the Time & Attendance batch-export
// endpoint for one verified batch.
type BatchExport struct {
	Code      string           `json:"code"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Status    string           `json:"status"` // "Verified" or "Pending Review"
	TotalLogs int              `json:"total_logs"`
	Employees []EmployeeExport `json:"employees"`
}

// EmployeeExport carries one employee's attendance aggregate for the batch.
type EmployeeExport struct {
	EmployeeID      string `json:"employee_id"`
	DaysPresent     int    `json:"days_present"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}

// ExportError is returned when the export endpoint replies with a non-200
// status. The upstream status and body are preserved for the caller.
type ExportError struct {
	StatusCode int
	Body       string
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("ta export error [%d]: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Fetcher is the part of the client the payroll service depends on.
type Fetcher interface {
	FetchBatch(ctx context.Context, code string) (BatchExport, error)
}

func NewClient(cfg config.TAExportConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchBatch retrieves one batch export by code. A timeout or non-200
// response aborts with no side effects; the caller decides whether to retry.
func (c *Client) FetchBatch(ctx context.Context, code string) (BatchExport, error) {
	endpoint := fmt.Sprintf("%s/batches/%s/export", c.baseURL, url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return BatchExport{}, fmt.Errorf("build ta export request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return BatchExport{}, fmt.Errorf("call ta export endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return BatchExport{}, fmt.Errorf("read ta export response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return BatchExport{}, &ExportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var export BatchExport
	if err := json.Unmarshal(body, &export); err != nil {
		return BatchExport{}, fmt.Errorf("decode ta export response: %w", err)
	}

	return export, nil
}
