package report

import (
	"context"

	"github.com/agromet/advisory-report-service/internal/domain"
)

// NearestResolver finds the most recent record at or before a reference
// date, scanning backward month by month through a one-year window. It
// exists because records are keyed by month name rather than a sortable
// date, so admissibility has to be recomputed per month with special-cased
// bounds at the reference month and at the window's far edge.
type NearestResolver struct {
	store Store
}

// NewNearestResolver creates a resolver over the given store.
func NewNearestResolver(store Store) *NearestResolver {
	return &NearestResolver{store: store}
}

// FindNearest returns the most recent record matching category, subcategory,
// and district whose date is at or before day/month/year, but no more than
// exactly one year earlier. Absence is found=false, not an error; a
// non-canonical month name is domain.ErrInvalidMonthName and propagates.
//
// The scan visits months most-recent first. In the reference month only
// records with day <= the reference day qualify; every whole month in
// between carries no day restriction; in the boundary month one year back
// only records with day >= the reference day remain inside the window. The
// first month containing any match terminates the scan, with the store's
// descending order picking the latest record within that month.
func (r *NearestResolver) FindNearest(
	ctx context.Context,
	category domain.Category,
	subcategory domain.Subcategory,
	district string,
	day int, month string, year int,
) (domain.Record, bool, error) {
	refMonth, err := domain.MonthIndex(month)
	if err != nil {
		return domain.Record{}, false, err
	}

	for y := year; y >= year-1; y-- {
		startM := refMonth
		if y < year {
			startM = 11
		}
		endM := 0
		if y == year-1 {
			endM = refMonth
		}

		for m := startM; m >= endM; m-- {
			q := domain.RecordQuery{
				Category:    category,
				Subcategory: subcategory,
				District:    district,
				Year:        y,
				Month:       domain.MonthName(m),
			}
			if y == year && m == refMonth {
				q.DayMax = day
			}
			if y == year-1 && m == refMonth {
				q.DayMin = day
			}

			rec, found, err := r.store.FindOne(ctx, q)
			if err != nil {
				return domain.Record{}, false, err
			}
			if found {
				return rec, true, nil
			}
		}
	}

	return domain.Record{}, false, nil
}
