package report_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agromet/advisory-report-service/internal/adapter/memstore"
	"github.com/agromet/advisory-report-service/internal/domain"
	"github.com/agromet/advisory-report-service/internal/observability"
	"github.com/agromet/advisory-report-service/internal/report"
)

func newTestComposer(store report.Store) *report.Composer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return report.NewComposer(store, logger, observability.NewMetricsForTesting())
}

func puttalamRequest() report.Request {
	return report.Request{Year: 2024, Month: "October", Day: 9, District: "Puttalam"}
}

func seedRecord(t *testing.T, store *memstore.Store, rec domain.Record) {
	t.Helper()
	require.NoError(t, store.Upsert(context.Background(), rec))
}

func TestCompose_EmptyStoreStillProducesFullDocument(t *testing.T) {
	composer := newTestComposer(memstore.New())

	doc, err := composer.Compose(context.Background(), puttalamRequest())
	require.NoError(t, err)

	// Introduction plus thirteen sections, each followed by one sentinel.
	assert.Equal(t, 14, strings.Count(doc.HTML, report.PageBreakSentinel))
	assert.Equal(t, 13, strings.Count(doc.HTML, "Data not available."))
	assert.Contains(t, doc.HTML, "District Agro-met Advisory Co-production")
	assert.Contains(t, doc.HTML, "Puttalam District")
	assert.Equal(t, "Puttalam_Report_9_October_2024.html", doc.Filename)
}

func TestCompose_SectionTitlesReflectRolledPeriods(t *testing.T) {
	composer := newTestComposer(memstore.New())

	doc, err := composer.Compose(context.Background(), puttalamRequest())
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "Seasonal Rainfall Forecast October 2024 - December 2024")
	assert.Contains(t, doc.HTML, "Rainfall Forecast November 2024")
	assert.Contains(t, doc.HTML, "Rainfall Forecast December 2024")
	assert.Contains(t, doc.HTML, "Weekly Rainfall Puttalam District Week 41 2024")
	assert.Contains(t, doc.HTML, "Weekly Rainfall Puttalam District Week 44 2024")
	assert.Contains(t, doc.HTML, "Received Rainfall September 2024")
	assert.Contains(t, doc.HTML, "Major Reservoir Water Availability as of 9 October 2024")
	assert.Contains(t, doc.HTML, "Minor Tank Water Availability as of 9 October 2024")
}

func TestCompose_WeeklyTitlesRollAcrossYearEnd(t *testing.T) {
	store := memstore.New()
	seedRecord(t, store, domain.Record{
		Category:      domain.CategoryRainfall,
		Subcategory:   domain.SubWeekly,
		District:      "Puttalam",
		Year:          2024,
		WeekNumber:    1,
		SubweekNumber: 2,
		Content:       domain.Content{Text: "Showers expected in the first week of January."},
	})
	composer := newTestComposer(store)

	// 28 December 2023 falls in ISO week 52; the following projections land
	// in weeks 1..3 of 2024.
	doc, err := composer.Compose(context.Background(), report.Request{
		Year: 2023, Month: "December", Day: 28, District: "Puttalam",
	})
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "Weekly Rainfall Puttalam District Week 52 2023")
	assert.Contains(t, doc.HTML, "Weekly Rainfall Puttalam District Week 1 2024")
	assert.Contains(t, doc.HTML, "Weekly Rainfall Puttalam District Week 3 2024")
	assert.Contains(t, doc.HTML, "Showers expected in the first week of January.")
}

func TestCompose_ReceivedRainfallRollsYearInJanuary(t *testing.T) {
	store := memstore.New()
	seedRecord(t, store, domain.Record{
		Category:    domain.CategoryRainfall,
		Subcategory: domain.SubReceived,
		District:    "Puttalam",
		Year:        2023,
		Month:       "December",
		Content:     domain.Content{Text: "December rainfall totals were near normal."},
	})
	composer := newTestComposer(store)

	doc, err := composer.Compose(context.Background(), report.Request{
		Year: 2024, Month: "January", Day: 15, District: "Puttalam",
	})
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "Received Rainfall December 2023")
	assert.Contains(t, doc.HTML, "December rainfall totals were near normal.")
}

func TestCompose_ObservedPrecipitationSubstitution(t *testing.T) {
	store := memstore.New()
	seedRecord(t, store, domain.Record{
		Category:    domain.CategoryRainfall,
		Subcategory: domain.SubReceived,
		District:    "Puttalam",
		Year:        2024,
		Month:       "September",
		Content:     domain.Content{Text: "Rainfall received was <OBSERVED_PRECIPITATION> of the monthly average."},
	})
	composer := newTestComposer(store)

	observed := 40.0
	req := puttalamRequest()
	req.ObservedPrecipitation = &observed

	doc, err := composer.Compose(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "Rainfall received was 40% of the monthly average.")
	assert.NotContains(t, doc.HTML, "OBSERVED_PRECIPITATION")
}

func TestCompose_PlaceholderLeftVerbatimWithoutValue(t *testing.T) {
	store := memstore.New()
	seedRecord(t, store, domain.Record{
		Category:    domain.CategoryRainfall,
		Subcategory: domain.SubReceived,
		District:    "Puttalam",
		Year:        2024,
		Month:       "September",
		Content:     domain.Content{Text: "Rainfall received was <OBSERVED_PRECIPITATION> of the monthly average."},
	})
	composer := newTestComposer(store)

	doc, err := composer.Compose(context.Background(), puttalamRequest())
	require.NoError(t, err)

	// HTML-escaped but textually intact.
	assert.Contains(t, doc.HTML, "OBSERVED_PRECIPITATION")
}

func TestCompose_NearestReservoirRecordAppears(t *testing.T) {
	store := memstore.New()
	seedRecord(t, store, domain.Record{
		Category:    domain.CategoryReservoir,
		Subcategory: domain.SubMajor,
		District:    "Puttalam",
		Year:        2024,
		Month:       "October",
		Day:         9,
		Content:     domain.Content{Text: "Major reservoirs stand at 62% capacity."},
	})
	composer := newTestComposer(store)

	doc, err := composer.Compose(context.Background(), puttalamRequest())
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "Major reservoirs stand at 62% capacity.")
	// Only the major tier was seeded.
	assert.Equal(t, 12, strings.Count(doc.HTML, "Data not available."))
}

func TestCompose_StoreFailureAbortsWithoutPartialDocument(t *testing.T) {
	composer := newTestComposer(failingStore{})

	doc, err := composer.Compose(context.Background(), puttalamRequest())
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Empty(t, doc.HTML)
	assert.Empty(t, doc.Filename)
}

func TestCompose_RejectsInvalidRequests(t *testing.T) {
	composer := newTestComposer(memstore.New())

	_, err := composer.Compose(context.Background(), report.Request{
		Year: 2023, Month: "February", Day: 29, District: "Puttalam",
	})
	require.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = composer.Compose(context.Background(), report.Request{
		Year: 2024, Month: "Oktober", Day: 9, District: "Puttalam",
	})
	require.ErrorIs(t, err, domain.ErrInvalidMonthName)

	_, err = composer.Compose(context.Background(), report.Request{
		Year: 2024, Month: "October", Day: 9,
	})
	require.ErrorIs(t, err, report.ErrInvalidRequest)

	over := 140.0
	req := puttalamRequest()
	req.ObservedPrecipitation = &over
	_, err = composer.Compose(context.Background(), req)
	require.ErrorIs(t, err, report.ErrInvalidRequest)
}

func TestCompose_GeneratedAtComesFromClock(t *testing.T) {
	frozen := time.Date(2024, time.October, 9, 8, 30, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { domain.SetClock(nil) })

	composer := newTestComposer(memstore.New())
	doc, err := composer.Compose(context.Background(), puttalamRequest())
	require.NoError(t, err)
	assert.True(t, doc.GeneratedAt.Equal(frozen))
}
