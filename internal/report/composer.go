package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/agromet/advisory-report-service/internal/domain"
	"github.com/agromet/advisory-report-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Composer drives the fixed lookup sequence for one advisory document and
// assembles the rendered sections. It performs read-only store queries and
// holds no per-request state, so a single Composer serves all requests.
type Composer struct {
	store    Store
	resolver *NearestResolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewComposer creates a Composer over the given store.
func NewComposer(store Store, logger *slog.Logger, metrics *observability.Metrics) *Composer {
	return &Composer{
		store:    store,
		resolver: NewNearestResolver(store),
		logger:   logger,
		metrics:  metrics,
	}
}

// lookup pairs one section's title with the query that fills it.
type lookup struct {
	key        string // metrics label, stable across releases
	title      string
	substitute bool // section receives the observed-precipitation value
	fetch      func(ctx context.Context) (domain.Record, bool, error)
}

// Compose produces the advisory document for the request. All thirteen
// lookups run concurrently and must all succeed before any rendering
// happens; a single failure aborts the whole composition and no partial
// document is ever returned. Record absence is not a failure: absent
// sections render as "Data not available." blocks.
func (c *Composer) Compose(ctx context.Context, req Request) (Document, error) {
	if err := req.Validate(); err != nil {
		return Document{}, err
	}

	week, err := domain.ISOWeekOf(req.Day, req.Month, req.Year)
	if err != nil {
		return Document{}, err
	}
	periods := domain.ProjectWeeks(req.Year, week, 4)

	month1, year1, err := domain.ShiftMonth(req.Month, req.Year, 1)
	if err != nil {
		return Document{}, err
	}
	month2, year2, err := domain.ShiftMonth(req.Month, req.Year, 2)
	if err != nil {
		return Document{}, err
	}
	prevMonth, prevYear, err := domain.ShiftMonth(req.Month, req.Year, -1)
	if err != nil {
		return Document{}, err
	}

	lookups := c.buildLookups(req, periods, month1, year1, month2, year2, prevMonth, prevYear)

	start := time.Now()
	results := make([]*domain.Record, len(lookups))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range lookups {
		g.Go(func() error {
			t0 := time.Now()
			rec, found, err := l.fetch(gctx)
			c.metrics.LookupDuration.WithLabelValues(l.key).Observe(time.Since(t0).Seconds())
			if err != nil {
				return fmt.Errorf("%s lookup: %w", l.key, err)
			}
			if !found {
				c.metrics.SectionsAbsent.WithLabelValues(l.key).Inc()
				return nil
			}
			results[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Document{}, err
	}

	observed := ""
	if req.ObservedPrecipitation != nil {
		observed = strconv.FormatFloat(*req.ObservedPrecipitation, 'f', -1, 64) + "%"
	}

	blocks := make([]string, 0, len(lookups)+1)
	intro, err := renderIntroduction(req)
	if err != nil {
		return Document{}, err
	}
	blocks = append(blocks, intro)

	absent := 0
	for i, l := range lookups {
		sub := ""
		if l.substitute {
			sub = observed
		}
		block, err := renderSection(l.title, results[i], sub)
		if err != nil {
			return Document{}, err
		}
		blocks = append(blocks, block)
		if results[i] == nil {
			absent++
		}
	}

	html, err := renderDocument(blocks)
	if err != nil {
		return Document{}, err
	}

	c.metrics.ReportsGenerated.Inc()
	c.metrics.ComposeDuration.Observe(time.Since(start).Seconds())
	c.logger.Info("report composed",
		"district", req.District,
		"date", fmt.Sprintf("%d %s %d", req.Day, req.Month, req.Year),
		"week", week,
		"sections_absent", absent,
	)

	return Document{
		HTML:        html,
		Filename:    fmt.Sprintf("%s_Report_%d_%s_%d.html", req.District, req.Day, req.Month, req.Year),
		GeneratedAt: domain.Now(),
	}, nil
}

// buildLookups lays out the thirteen sections in presentation order.
// Section titles embed the resolved month/year/week labels, not the raw
// request values, so forecast and weekly headers always reflect the rolled
// period.
func (c *Composer) buildLookups(
	req Request,
	periods []domain.WeekOfYear,
	month1 string, year1 int,
	month2 string, year2 int,
	prevMonth string, prevYear int,
) []lookup {
	lookups := []lookup{
		{
			key:   "seasonal",
			title: fmt.Sprintf("Seasonal Rainfall Forecast %s %d - %s %d", req.Month, req.Year, month2, year2),
			fetch: c.direct(domain.RecordQuery{
				Category: domain.CategoryRainfall, Subcategory: domain.SubSeasonal,
				Year: req.Year, Month: req.Month,
			}),
		},
		{
			key:   "forecast_current",
			title: fmt.Sprintf("Rainfall Forecast %s %d", req.Month, req.Year),
			fetch: c.direct(domain.RecordQuery{
				Category: domain.CategoryRainfall, Subcategory: domain.SubMonthly,
				Year: req.Year, Month: req.Month, Submonth: req.Month,
			}),
		},
		{
			key:   "forecast_next1",
			title: fmt.Sprintf("Rainfall Forecast %s %d", month1, year1),
			fetch: c.direct(domain.RecordQuery{
				Category: domain.CategoryRainfall, Subcategory: domain.SubMonthly,
				Year: req.Year, Month: req.Month, Submonth: month1,
			}),
		},
		{
			key:   "forecast_next2",
			title: fmt.Sprintf("Rainfall Forecast %s %d", month2, year2),
			fetch: c.direct(domain.RecordQuery{
				Category: domain.CategoryRainfall, Subcategory: domain.SubMonthly,
				Year: req.Year, Month: req.Month, Submonth: month2,
			}),
		},
	}

	for i, p := range periods {
		lookups = append(lookups, lookup{
			key:   fmt.Sprintf("weekly_%d", i+1),
			title: fmt.Sprintf("Weekly Rainfall %s District Week %d %d", req.District, p.Week, p.Year),
			fetch: c.direct(domain.RecordQuery{
				Category: domain.CategoryRainfall, Subcategory: domain.SubWeekly,
				District: req.District, Year: p.Year,
				WeekNumber: p.Week, SubweekNumber: i + 1,
			}),
		})
	}

	lookups = append(lookups,
		lookup{
			key:        "received",
			title:      fmt.Sprintf("Received Rainfall %s %d", prevMonth, prevYear),
			substitute: true,
			fetch: c.direct(domain.RecordQuery{
				Category: domain.CategoryRainfall, Subcategory: domain.SubReceived,
				District: req.District, Year: prevYear, Month: prevMonth,
			}),
		},
		lookup{
			key:   "climatological",
			title: fmt.Sprintf("General Climatological Rainfall %s %d", req.Month, req.Year),
			fetch: c.direct(domain.RecordQuery{
				Category: domain.CategoryRainfall, Subcategory: domain.SubClimatological,
				District: req.District, Year: req.Year, Month: req.Month,
			}),
		},
		lookup{
			key:   "reservoir_major",
			title: fmt.Sprintf("Major Reservoir Water Availability as of %d %s %d", req.Day, req.Month, req.Year),
			fetch: c.nearest(domain.SubMajor, req),
		},
		lookup{
			key:   "reservoir_medium",
			title: fmt.Sprintf("Medium Reservoir Water Availability as of %d %s %d", req.Day, req.Month, req.Year),
			fetch: c.nearest(domain.SubMedium, req),
		},
		lookup{
			key:   "reservoir_minor",
			title: fmt.Sprintf("Minor Tank Water Availability as of %d %s %d", req.Day, req.Month, req.Year),
			fetch: c.nearest(domain.SubMinor, req),
		},
	)

	return lookups
}

// direct wraps an exact-key store query; a single document is expected and
// there is no fallback.
func (c *Composer) direct(q domain.RecordQuery) func(ctx context.Context) (domain.Record, bool, error) {
	return func(ctx context.Context) (domain.Record, bool, error) {
		return c.store.FindOne(ctx, q)
	}
}

// nearest wraps a reservoir-tier lookup through the backward-search
// resolver.
func (c *Composer) nearest(tier domain.Subcategory, req Request) func(ctx context.Context) (domain.Record, bool, error) {
	return func(ctx context.Context) (domain.Record, bool, error) {
		return c.resolver.FindNearest(ctx, domain.CategoryReservoir, tier, req.District, req.Day, req.Month, req.Year)
	}
}
