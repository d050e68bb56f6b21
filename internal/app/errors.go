package service

import "errors"

// Sentinel kinds for service errors. Validation failures wrap ErrValidation
// so the HTTP layer can map them to 400 without string matching.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotStarted = errors.New("service not started")
)
