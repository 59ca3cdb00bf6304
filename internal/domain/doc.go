// Package domain models the agro-meteorological advisory records that the
// report service assembles into district advisory documents.
//
// # Record Schema
//
// Records are written by the ingestion side (seed tool or Kafka consumer) and
// only ever read at report time. Each record is keyed by category, subcategory,
// district, and a temporal key whose shape depends on the subcategory:
//
//	Seasonal, Climatological:  year + month
//	Monthly:                   year + month + submonth (forecast target month)
//	Weekly:                    year + weekNumber + subweekNumber (1..4)
//	Received:                  year + month
//	Major, Medium, Minor:      year + month + day (reservoir observations)
//
// Months are stored as canonical English names ("January".."December"), not as
// a single sortable date. A derived 0-based monthIndex is persisted alongside
// the name so the store can order candidates by (year, monthIndex, day)
// descending; the month name itself never participates in sorting.
//
// # Placeholder Token
//
// Received-rainfall narrative text may embed the literal token
//
//	<OBSERVED_PRECIPITATION>
//
// which the renderer replaces with the request-supplied percentage ("40%").
// If no value is supplied the token is left verbatim; supplying it is the
// requester's responsibility.
//
// # ISO Weeks
//
// Weekly records are keyed by ISO-8601 week numbers: weeks run Monday-Sunday
// and week 1 is the week containing the year's first Thursday. A civil year has
// 52 or 53 ISO weeks, so week projection ([ProjectWeeks]) rolls the year where
// the ISO sequence does, never by naive week+1 arithmetic.
//
// # Legacy Spelling
//
// Historic ingestion code wrote the received-rainfall subcategory as
// "Recieved". The canonical spelling is "Received" on both write and read
// paths; [NormalizeSubcategory] folds the legacy form on intake.
package domain
