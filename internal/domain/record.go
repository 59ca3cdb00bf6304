package domain

import (
	"fmt"
	"strings"
)

// Category is the top-level record classification.
type Category string

const (
	CategoryRainfall  Category = "Rainfall"
	CategoryReservoir Category = "Reservoir"
)

// Subcategory refines a category into one report section type.
type Subcategory string

const (
	SubSeasonal       Subcategory = "Seasonal"
	SubMonthly        Subcategory = "Monthly"
	SubWeekly         Subcategory = "Weekly"
	SubReceived       Subcategory = "Received"
	SubClimatological Subcategory = "Climatological"
	SubMajor          Subcategory = "Major"
	SubMedium         Subcategory = "Medium"
	SubMinor          Subcategory = "Minor"
)

// legacyReceived is the misspelled subcategory written by early ingestion code.
const legacyReceived = "Recieved"

// Content is the renderable payload of a record. PNG slots hold raw image
// bytes; CSV slots hold comma-delimited text whose first row is the header.
type Content struct {
	Text string `json:"text,omitempty" bson:"text,omitempty"`
	PNG1 []byte `json:"png1,omitempty" bson:"png1,omitempty"`
	PNG2 []byte `json:"png2,omitempty" bson:"png2,omitempty"`
	PNG3 []byte `json:"png3,omitempty" bson:"png3,omitempty"`
	CSV1 string `json:"csv1,omitempty" bson:"csv1,omitempty"`
	CSV2 string `json:"csv2,omitempty" bson:"csv2,omitempty"`
}

// Record is one observation, forecast, or advisory unit. Which temporal key
// fields are set depends on the subcategory; see the package documentation.
type Record struct {
	Department    string      `json:"department,omitempty" bson:"department,omitempty"`
	Category      Category    `json:"category" bson:"category"`
	Subcategory   Subcategory `json:"subcategory" bson:"subcategory"`
	District      string      `json:"district,omitempty" bson:"district,omitempty"`
	Year          int         `json:"year" bson:"year"`
	Month         string      `json:"month,omitempty" bson:"month,omitempty"`
	Submonth      string      `json:"submonth,omitempty" bson:"submonth,omitempty"`
	Day           int         `json:"day,omitempty" bson:"day,omitempty"`
	WeekNumber    int         `json:"weekNumber,omitempty" bson:"weekNumber,omitempty"`
	SubweekNumber int         `json:"subweekNumber,omitempty" bson:"subweekNumber,omitempty"`

	// MonthIndex is the 0-based index of Month, persisted so the store can
	// sort by it. Derived on the write path; never set by hand.
	MonthIndex int `json:"monthIndex" bson:"monthIndex"`

	Content Content `json:"content" bson:"content"`
}

// NormalizeSubcategory folds legacy spellings into the canonical taxonomy.
func NormalizeSubcategory(s string) Subcategory {
	if s == legacyReceived {
		return SubReceived
	}
	return Subcategory(s)
}

// ValidSubcategories lists the canonical subcategories per category.
var ValidSubcategories = map[Category][]Subcategory{
	CategoryRainfall:  {SubSeasonal, SubMonthly, SubWeekly, SubReceived, SubClimatological},
	CategoryReservoir: {SubMajor, SubMedium, SubMinor},
}

// Validate checks taxonomy membership and month-name validity, and fills in
// the derived MonthIndex. Records arriving from ingestion pass through here
// before they are written.
func (r *Record) Validate() error {
	subs, ok := ValidSubcategories[r.Category]
	if !ok {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	var subOK bool
	for _, s := range subs {
		if r.Subcategory == s {
			subOK = true
			break
		}
	}
	if !subOK {
		return fmt.Errorf("subcategory %q is not valid for category %q", r.Subcategory, r.Category)
	}
	if r.Year <= 0 {
		return fmt.Errorf("year %d is not valid", r.Year)
	}
	if r.Month != "" {
		idx, err := MonthIndex(r.Month)
		if err != nil {
			return err
		}
		r.MonthIndex = idx
	}
	if r.Submonth != "" {
		if _, err := MonthIndex(r.Submonth); err != nil {
			return err
		}
	}
	if r.SubweekNumber < 0 || r.SubweekNumber > 4 {
		return fmt.Errorf("subweek number %d is out of range 1..4", r.SubweekNumber)
	}
	return nil
}

// RecordQuery is an exact-match filter over record key fields. Zero values
// mean "unset": an empty string or 0 excludes that dimension from the filter.
// DayMax and DayMin are inclusive bounds on the day field; both may be set at
// once (the one-year-window boundary month uses DayMin).
type RecordQuery struct {
	Category      Category
	Subcategory   Subcategory
	District      string
	Year          int
	Month         string
	Submonth      string
	WeekNumber    int
	SubweekNumber int
	DayMax        int
	DayMin        int
}

func (q RecordQuery) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s", q.Category, q.Subcategory)
	if q.District != "" {
		fmt.Fprintf(&b, " district=%s", q.District)
	}
	if q.Year != 0 {
		fmt.Fprintf(&b, " year=%d", q.Year)
	}
	if q.Month != "" {
		fmt.Fprintf(&b, " month=%s", q.Month)
	}
	if q.Submonth != "" {
		fmt.Fprintf(&b, " submonth=%s", q.Submonth)
	}
	if q.WeekNumber != 0 {
		fmt.Fprintf(&b, " week=%d.%d", q.WeekNumber, q.SubweekNumber)
	}
	if q.DayMax != 0 {
		fmt.Fprintf(&b, " day<=%d", q.DayMax)
	}
	if q.DayMin != 0 {
		fmt.Fprintf(&b, " day>=%d", q.DayMin)
	}
	return b.String()
}
