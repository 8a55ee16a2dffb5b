package services

import "errors"

// Error taxonomy for the request lifecycle. Validation failures are detected
// before any persistence attempt; persistence failures abort the enclosing
// operation; per-attachment upload failures and notification failures are
// logged and never escalate.
var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrNotFound    = errors.New("request not found")
)
