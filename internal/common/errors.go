// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Catalog errors.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
