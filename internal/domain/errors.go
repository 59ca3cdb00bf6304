package domain

import "errors"

// Sentinel errors separating caller mistakes from infrastructure failures.
// Absence of a record is never an error; store lookups report it as a
// (Record, found=false) pair.
var (
	// ErrInvalidDate marks a day/month/year triple that is not a real
	// calendar date. Surfaced to the caller as a request rejection.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMonthName marks a month label outside the canonical twelve
	// English names. Distinct from absence: it is a caller or configuration
	// error and must propagate.
	ErrInvalidMonthName = errors.New("invalid month name")

	// ErrStoreUnavailable wraps record-store connectivity and query
	// failures. Surfaced as a generic retry-later failure; the service
	// itself never retries.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
