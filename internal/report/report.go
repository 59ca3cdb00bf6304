// Package report composes district agro-met advisory documents from
// time-indexed records. The composer fans out a fixed set of store lookups
// (direct-match and nearest-record), renders each result into an HTML
// section, and concatenates the sections with pagination sentinels.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agromet/advisory-report-service/internal/domain"
)

// ErrInvalidRequest marks a report request that fails boundary validation
// for a reason other than the date itself (empty district, out-of-range
// percentage). Date problems surface as domain.ErrInvalidDate.
var ErrInvalidRequest = errors.New("invalid report request")

// Store is the record-store query interface the composer and resolver
// consume. Implementations return the single best match for the query under
// descending (year, monthIndex, day) ordering, found=false on legitimate
// absence, and an error only for store-level failures.
type Store interface {
	FindOne(ctx context.Context, q domain.RecordQuery) (domain.Record, bool, error)
}

// Request identifies one advisory document. Immutable once composition
// starts.
type Request struct {
	Year     int
	Month    string
	Day      int
	District string

	// ObservedPrecipitation is the percentage substituted into the
	// received-rainfall section's placeholder token. Optional; when nil
	// the token is left verbatim.
	ObservedPrecipitation *float64
}

// Validate rejects malformed requests before any store traffic happens.
func (r Request) Validate() error {
	if err := domain.ValidateDate(r.Day, r.Month, r.Year); err != nil {
		return err
	}
	if r.District == "" {
		return fmt.Errorf("%w: district must not be empty", ErrInvalidRequest)
	}
	if p := r.ObservedPrecipitation; p != nil && (*p < 0 || *p > 100) {
		return fmt.Errorf("%w: observed precipitation %v is outside 0..100", ErrInvalidRequest, *p)
	}
	return nil
}

// Document is a fully assembled advisory report. Produced fresh per request
// and never mutated afterwards.
type Document struct {
	HTML        string
	Filename    string
	GeneratedAt time.Time
}
