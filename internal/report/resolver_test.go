package report_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agromet/advisory-report-service/internal/adapter/memstore"
	"github.com/agromet/advisory-report-service/internal/domain"
	"github.com/agromet/advisory-report-service/internal/report"
)

// failingStore simulates a store outage.
type failingStore struct{}

func (failingStore) FindOne(context.Context, domain.RecordQuery) (domain.Record, bool, error) {
	return domain.Record{}, false, fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)
}

func seedReservoir(t *testing.T, store *memstore.Store, tier domain.Subcategory, district, month string, year, day int) domain.Record {
	t.Helper()
	rec := domain.Record{
		Department:  "ID",
		Category:    domain.CategoryReservoir,
		Subcategory: tier,
		District:    district,
		Year:        year,
		Month:       month,
		Day:         day,
		Content:     domain.Content{Text: fmt.Sprintf("%s levels as of %d %s %d.", tier, day, month, year)},
	}
	require.NoError(t, store.Upsert(context.Background(), rec))
	return rec
}

func findNearestMajor(t *testing.T, store report.Store, district string, day int, month string, year int) (domain.Record, bool) {
	t.Helper()
	rec, found, err := report.NewNearestResolver(store).FindNearest(
		context.Background(), domain.CategoryReservoir, domain.SubMajor, district, day, month, year)
	require.NoError(t, err)
	return rec, found
}

func TestFindNearest_SameDayInclusive(t *testing.T) {
	store := memstore.New()
	want := seedReservoir(t, store, domain.SubMajor, "Puttalam", "October", 2024, 9)

	got, found := findNearestMajor(t, store, "Puttalam", 9, "October", 2024)
	require.True(t, found)
	require.NoError(t, want.Validate()) // fill the derived month index before comparing
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFindNearest_NeverReturnsLaterRecord(t *testing.T) {
	store := memstore.New()
	seedReservoir(t, store, domain.SubMajor, "Puttalam", "October", 2024, 10)

	_, found := findNearestMajor(t, store, "Puttalam", 9, "October", 2024)
	assert.False(t, found)
}

func TestFindNearest_PriorMonthHasNoDayRestriction(t *testing.T) {
	store := memstore.New()
	want := seedReservoir(t, store, domain.SubMajor, "Puttalam", "September", 2024, 30)

	got, found := findNearestMajor(t, store, "Puttalam", 9, "October", 2024)
	require.True(t, found)
	assert.Equal(t, want.Day, got.Day)
	assert.Equal(t, "September", got.Month)
}

func TestFindNearest_LatestWithinMonthWins(t *testing.T) {
	store := memstore.New()
	seedReservoir(t, store, domain.SubMajor, "Puttalam", "October", 2024, 3)
	want := seedReservoir(t, store, domain.SubMajor, "Puttalam", "October", 2024, 7)

	got, found := findNearestMajor(t, store, "Puttalam", 9, "October", 2024)
	require.True(t, found)
	assert.Equal(t, want.Day, got.Day)
}

func TestFindNearest_CrossesYearBoundary(t *testing.T) {
	store := memstore.New()
	want := seedReservoir(t, store, domain.SubMajor, "Puttalam", "November", 2023, 20)

	got, found := findNearestMajor(t, store, "Puttalam", 10, "February", 2024)
	require.True(t, found)
	assert.Equal(t, 2023, got.Year)
	assert.Equal(t, "November", got.Month)
	assert.Equal(t, want.Day, got.Day)
}

func TestFindNearest_OneYearWindowEdge(t *testing.T) {
	store := memstore.New()

	// Day 8 of the boundary month is more than a year before the
	// reference date and must stay invisible.
	seedReservoir(t, store, domain.SubMajor, "Puttalam", "October", 2023, 8)
	_, found := findNearestMajor(t, store, "Puttalam", 9, "October", 2024)
	assert.False(t, found)

	// Day 9 is exactly one year back: the inclusive lower edge.
	want := seedReservoir(t, store, domain.SubMajor, "Anuradhapura", "October", 2023, 9)
	got, found := findNearestMajor(t, store, "Anuradhapura", 9, "October", 2024)
	require.True(t, found)
	assert.Equal(t, want.Year, got.Year)
	assert.Equal(t, want.Day, got.Day)
}

func TestFindNearest_DistrictAndTierAreExact(t *testing.T) {
	store := memstore.New()
	seedReservoir(t, store, domain.SubMedium, "Puttalam", "October", 2024, 9)
	seedReservoir(t, store, domain.SubMajor, "Kurunegala", "October", 2024, 9)

	_, found := findNearestMajor(t, store, "Puttalam", 9, "October", 2024)
	assert.False(t, found)
}

func TestFindNearest_MonotonicUnderForwardReference(t *testing.T) {
	store := memstore.New()
	seedReservoir(t, store, domain.SubMajor, "Puttalam", "October", 2024, 1)

	// Widening the reference forward keeps the record found until it
	// leaves the one-year window.
	for _, ref := range []struct {
		day   int
		month string
		year  int
		found bool
	}{
		{1, "October", 2024, true},
		{9, "October", 2024, true},
		{15, "March", 2025, true},
		{30, "September", 2025, true},
		{1, "October", 2025, true},
		{2, "October", 2025, false}, // window lower edge moved past the record
	} {
		_, found := findNearestMajor(t, store, "Puttalam", ref.day, ref.month, ref.year)
		assert.Equal(t, ref.found, found, "reference %d %s %d", ref.day, ref.month, ref.year)
	}
}

func TestFindNearest_InvalidMonthNamePropagates(t *testing.T) {
	resolver := report.NewNearestResolver(memstore.New())
	_, _, err := resolver.FindNearest(
		context.Background(), domain.CategoryReservoir, domain.SubMajor, "Puttalam", 9, "Oktober", 2024)
	require.ErrorIs(t, err, domain.ErrInvalidMonthName)
}

func TestFindNearest_StoreFailurePropagates(t *testing.T) {
	resolver := report.NewNearestResolver(failingStore{})
	_, _, err := resolver.FindNearest(
		context.Background(), domain.CategoryReservoir, domain.SubMajor, "Puttalam", 9, "October", 2024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}
