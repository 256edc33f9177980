package services

import "errors"

// Report service errors
var (
	// ErrEmptyInput is returned when an upload carries no bytes
	ErrEmptyInput = errors.New("input is empty")

	// ErrNothingRequested is returned by Combined when neither report is asked for
	ErrNothingRequested = errors.New("no report requested")
)
