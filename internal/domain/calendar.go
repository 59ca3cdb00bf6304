package domain

import (
	"fmt"
	"time"
)

// monthNames holds the canonical English month names in calendar order.
// Record keys and report requests use these names, never numeric months.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthIndex maps a canonical month name to its 0-based calendar index.
// Returns ErrInvalidMonthName for anything outside the twelve names.
func MonthIndex(name string) (int, error) {
	for i, m := range monthNames {
		if m == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMonthName, name)
}

// MonthName returns the canonical name for a 0-based calendar index.
// The index is taken modulo 12, so callers may pass shifted values.
func MonthName(index int) string {
	return monthNames[((index%12)+12)%12]
}

// DaysInMonth returns the number of days in the given month of the given
// year, accounting for leap years.
func DaysInMonth(monthIndex, year int) int {
	return time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1).Day()
}

// ValidateDate checks that day/monthName/year form a real calendar date.
func ValidateDate(day int, monthName string, year int) error {
	idx, err := MonthIndex(monthName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	if year <= 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}
	if day < 1 || day > DaysInMonth(idx, year) {
		return fmt.Errorf("%w: %s %d has no day %d", ErrInvalidDate, monthName, year, day)
	}
	return nil
}

// ISOWeekOf returns the 1-based ISO-8601 week number of the civil date.
// Note the week may belong to the adjacent ISO year: January 1st can fall in
// week 52 or 53 of the previous year, late December in week 1 of the next.
func ISOWeekOf(day int, monthName string, year int) (int, error) {
	if err := ValidateDate(day, monthName, year); err != nil {
		return 0, err
	}
	idx, _ := MonthIndex(monthName)
	_, week := time.Date(year, time.Month(idx+1), day, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week, nil
}

// WeekOfYear identifies one ISO week within an ISO year.
type WeekOfYear struct {
	Week int
	Year int
}

// ProjectWeeks returns count consecutive ISO week identifiers starting at
// startWeek of year. Each step advances by seven days on the real calendar,
// so crossing an ISO year boundary resets the week number to 1 and increments
// the year, correctly handling both 52- and 53-week years.
func ProjectWeeks(year, startWeek, count int) []WeekOfYear {
	weeks := make([]WeekOfYear, 0, count)
	monday := mondayOfISOWeek(year, startWeek)
	for i := 0; i < count; i++ {
		y, w := monday.ISOWeek()
		weeks = append(weeks, WeekOfYear{Week: w, Year: y})
		monday = monday.AddDate(0, 0, 7)
	}
	return weeks
}

// mondayOfISOWeek returns the Monday that starts the given ISO week.
// January 4th is always inside ISO week 1 of its year, which anchors the
// computation.
func mondayOfISOWeek(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	return monday.AddDate(0, 0, (week-1)*7)
}

// ShiftMonth returns the month name and year deltaMonths away from the given
// month, wrapping December to January (and back) with the year adjusted.
func ShiftMonth(monthName string, year, deltaMonths int) (string, int, error) {
	idx, err := MonthIndex(monthName)
	if err != nil {
		return "", 0, err
	}
	total := idx + deltaMonths
	shifted := ((total % 12) + 12) % 12
	year += (total - shifted) / 12
	return monthNames[shifted], year, nil
}
