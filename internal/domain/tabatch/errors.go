package tabatch

import "errors"

var (
	ErrBatchNotFound      = errors.New("ta batch not found")
	ErrBatchNotVerified   = errors.New("ta batch is not verified")
	ErrBatchRangeMismatch = errors.New("ta batch date range does not match the requested period")
)
