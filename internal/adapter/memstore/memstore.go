// Package memstore provides an in-memory record store for tests and local
// development. It mirrors the Mongo adapter's query semantics: exact-match
// filters, inclusive day bounds, and latest-(year, monthIndex, day) wins.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/agromet/advisory-report-service/internal/domain"
)

// Store is a thread-safe in-memory record store.
type Store struct {
	mu      sync.RWMutex
	records []domain.Record
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Upsert validates the record and inserts it, replacing any existing record
// with the same identity tuple.
func (s *Store) Upsert(_ context.Context, rec domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if sameIdentity(s.records[i], rec) {
			s.records[i] = rec
			return nil
		}
	}
	s.records = append(s.records, rec)
	return nil
}

// FindOne returns the single best match for the query under descending
// (year, monthIndex, day) ordering, or found=false when nothing matches.
func (s *Store) FindOne(_ context.Context, q domain.RecordQuery) (domain.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best domain.Record
	var found bool
	for _, rec := range s.records {
		if !matches(rec, q) {
			continue
		}
		if !found || laterDated(rec, best) {
			best = rec
			found = true
		}
	}
	return best, found, nil
}

// CheckReadiness reports ready always; the in-memory store has no
// connection to lose.
func (s *Store) CheckReadiness(_ context.Context) error {
	return nil
}

func matches(rec domain.Record, q domain.RecordQuery) bool {
	if q.Category != "" && rec.Category != q.Category {
		return false
	}
	if q.Subcategory != "" && rec.Subcategory != q.Subcategory {
		return false
	}
	if q.District != "" && rec.District != q.District {
		return false
	}
	if q.Year != 0 && rec.Year != q.Year {
		return false
	}
	if q.Month != "" && rec.Month != q.Month {
		return false
	}
	if q.Submonth != "" && rec.Submonth != q.Submonth {
		return false
	}
	if q.WeekNumber != 0 && rec.WeekNumber != q.WeekNumber {
		return false
	}
	if q.SubweekNumber != 0 && rec.SubweekNumber != q.SubweekNumber {
		return false
	}
	// Day bounds only match records that carry a day at all, like a Mongo
	// range query on a missing field.
	if q.DayMax != 0 && (rec.Day == 0 || rec.Day > q.DayMax) {
		return false
	}
	if q.DayMin != 0 && (rec.Day == 0 || rec.Day < q.DayMin) {
		return false
	}
	return true
}

func laterDated(a, b domain.Record) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	if a.MonthIndex != b.MonthIndex {
		return a.MonthIndex > b.MonthIndex
	}
	return a.Day > b.Day
}

func sameIdentity(a, b domain.Record) bool {
	return a.Category == b.Category &&
		a.Subcategory == b.Subcategory &&
		a.District == b.District &&
		a.Year == b.Year &&
		a.Month == b.Month &&
		a.Submonth == b.Submonth &&
		a.WeekNumber == b.WeekNumber &&
		a.SubweekNumber == b.SubweekNumber &&
		a.Day == b.Day
}
