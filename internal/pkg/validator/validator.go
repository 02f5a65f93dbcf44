package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Batch codes follow the export convention "TA-YYYYMM-NN" (e.g. TA-202501-01).
var batchCodeRegex = regexp.MustCompile(`^TA-\d{6}-\d{2}$`)

func IsValidBatchCode(code string) bool {
	return batchCodeRegex.MatchString(code)
}

// Period codes follow "PR-YYYYMM-NN".
var periodCodeRegex = regexp.MustCompile(`^PR-\d{6}-\d{2}$`)

func IsValidPeriodCode(code string) bool {
	return periodCodeRegex.MatchString(code)
}

// IsNonNegativeAmount reports whether d is a valid monetary amount (>= 0).
func IsNonNegativeAmount(d decimal.Decimal) bool {
	return !d.IsNegative()
}
