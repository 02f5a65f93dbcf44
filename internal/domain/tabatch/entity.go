package tabatch

import "time"

type BatchStatus string

const (
	BatchStatusPendingReview BatchStatus = "Pending Review"
	BatchStatusVerified      BatchStatus = "Verified"
)

// TABatch mirrors one Time & Attendance export batch locally. The external
// T&A system is the source of truth; rows here are refreshed on each import.
type TABatch struct {
	ID        string
	Code      string
	StartDate time.Time
	EndDate   time.Time
	TotalLogs int
	Status    BatchStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
