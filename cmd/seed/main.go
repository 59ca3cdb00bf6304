// Command seed loads a reference advisory dataset into the record store so a
// freshly started service can produce a complete document. The dataset covers
// every section of the report for one district and reference date
// (9 October 2024), mirroring the shape of records the ingestion consumer
// writes.
//
// Usage:
//
//	go run ./cmd/seed \
//	  -mongo-uri mongodb://localhost:27017 \
//	  -district Puttalam
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agromet/advisory-report-service/internal/adapter/mongostore"
	"github.com/agromet/advisory-report-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	database := flag.String("database", "EnvironmentData", "database name")
	collection := flag.String("collection", "meteorologies", "collection name")
	district := flag.String("district", "Puttalam", "district the district-scoped records belong to")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := mongostore.Connect(ctx, *mongoURI, *database, *collection, 5*time.Second, logger)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck // best-effort disconnect

	records := referenceDataset(*district)
	for _, rec := range records {
		if err := store.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("seed %s/%s: %w", rec.Category, rec.Subcategory, err)
		}
	}

	logger.Info("seed complete", "records", len(records), "district", *district)
	return nil
}

// referenceDataset builds the full record set for the 9 October 2024
// reference date: one seasonal outlook, three monthly forecasts, four weekly
// forecasts (ISO weeks 41-44), the September received-rainfall narrative,
// the climatological norm, and the three reservoir tiers.
func referenceDataset(district string) []domain.Record {
	records := []domain.Record{
		{
			Department:  "DoM",
			Category:    domain.CategoryRainfall,
			Subcategory: domain.SubSeasonal,
			Year:        2024,
			Month:       "October",
			Content: domain.Content{
				Text: "During the October to December 2024 season, above-normal rainfall is " +
					"likely over most parts of the island with the establishment of the " +
					"second inter-monsoon. Frequent afternoon thundershowers can be expected.",
			},
		},
	}

	monthlyTexts := map[string]string{
		"October": "Rainfall in October 2024 is expected to be above normal. Afternoon " +
			"thundershowers are likely on most days, heaviest over the western slopes.",
		"November": "Near-normal to above-normal rainfall is expected in November 2024 as " +
			"the inter-monsoon gives way to the northeast monsoon.",
		"December": "Northeast monsoon rains are expected to dominate December 2024, with " +
			"above-normal totals likely in the northern and eastern parts of the island.",
	}
	for _, submonth := range []string{"October", "November", "December"} {
		records = append(records, domain.Record{
			Department:  "DoM",
			Category:    domain.CategoryRainfall,
			Subcategory: domain.SubMonthly,
			Year:        2024,
			Month:       "October",
			Submonth:    submonth,
			Content:     domain.Content{Text: monthlyTexts[submonth]},
		})
	}

	for i := 0; i < 4; i++ {
		week := 41 + i
		records = append(records, domain.Record{
			Department:    "NRMC",
			Category:      domain.CategoryRainfall,
			Subcategory:   domain.SubWeekly,
			District:      district,
			Year:          2024,
			WeekNumber:    week,
			SubweekNumber: i + 1,
			Content: domain.Content{
				Text: fmt.Sprintf("During ISO week %d, showers of 20-40 mm are expected over "+
					"the %s district on three to four days, with isolated heavy falls.", week, district),
			},
		})
	}

	records = append(records,
		domain.Record{
			Department:  "NRMC",
			Category:    domain.CategoryRainfall,
			Subcategory: domain.SubReceived,
			District:    district,
			Year:        2024,
			Month:       "September",
			Content: domain.Content{
				Text: "The district received <OBSERVED_PRECIPITATION> of its September average " +
					"rainfall. Soil moisture at the end of the month was adequate for land " +
					"preparation in most agrarian service divisions.",
			},
		},
		domain.Record{
			Department:  "NRMC",
			Category:    domain.CategoryRainfall,
			Subcategory: domain.SubClimatological,
			District:    district,
			Year:        2024,
			Month:       "October",
			Content: domain.Content{
				Text: "Climatologically, October is the wettest month of the year in the " +
					"district, with a long-term mean rainfall of around 280 mm spread over " +
					"15 to 18 rainy days.",
			},
		},
		domain.Record{
			Department:  "ID",
			Category:    domain.CategoryReservoir,
			Subcategory: domain.SubMajor,
			District:    district,
			Year:        2024,
			Month:       "October",
			Day:         9,
			Content: domain.Content{
				Text: "Major reservoir storage positions as of 9 October 2024.",
				CSV1: "Reservoir, Capacity (MCM), Current Storage (MCM), Storage (%)\n" +
					"Rajanganaya, 100.6, 62.4, 62\n" +
					"Inginimitiya, 69.8, 41.2, 59\n" +
					"Tabbowa, 45.0, 30.1, 67",
			},
		},
		domain.Record{
			Department:  "ID",
			Category:    domain.CategoryReservoir,
			Subcategory: domain.SubMedium,
			District:    district,
			Year:        2024,
			Month:       "October",
			Day:         9,
			Content: domain.Content{
				Text: "Medium reservoir storage positions as of 9 October 2024.",
				CSV1: "Scheme, Capacity (MCM), Current Storage (MCM), Storage (%)\n" +
					"Kottukachchiya, 12.3, 7.9, 64\n" +
					"Mahauswewa, 9.1, 5.2, 57",
			},
		},
		domain.Record{
			Department:  "DAD",
			Category:    domain.CategoryReservoir,
			Subcategory: domain.SubMinor,
			District:    district,
			Year:        2024,
			Month:       "October",
			Day:         9,
			Content: domain.Content{
				Text: "Of the minor tanks in the district, roughly two thirds hold more than " +
					"half of their capacity following the early inter-monsoon rains.",
				CSV1: "Agrarian Service Division, Tanks Reporting, Above 50% Capacity\n" +
					"Anamaduwa, 112, 78\n" +
					"Nawagattegama, 86, 51\n" +
					"Pallama, 64, 40",
			},
		},
	)

	return records
}
