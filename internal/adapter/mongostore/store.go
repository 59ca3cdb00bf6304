// Package mongostore implements the record store over MongoDB using the
// official driver. It is the production counterpart of memstore: the same
// query contract, backed by a collection whose documents carry a derived
// monthIndex field so descending (year, monthIndex, day) sorts are possible
// even though months are stored as names.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/agromet/advisory-report-service/internal/domain"
)

// recordSort orders candidates latest-date-first within whatever month set
// the filter admits.
var recordSort = bson.D{
	{Key: "year", Value: -1},
	{Key: "monthIndex", Value: -1},
	{Key: "day", Value: -1},
}

// Store is a MongoDB-backed record store.
type Store struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	logger  *slog.Logger
}

// Connect dials MongoDB, verifies the connection with a ping, and returns a
// Store over the given database and collection.
func Connect(ctx context.Context, uri, database, collection string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("connected to record store", "database", database, "collection", collection)

	return &Store{
		client:  client,
		coll:    client.Database(database).Collection(collection),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// FindOne returns the single best match for the query, latest date first.
// Legitimate absence is found=false; any driver failure wraps
// domain.ErrStoreUnavailable.
func (s *Store) FindOne(ctx context.Context, q domain.RecordQuery) (domain.Record, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rec domain.Record
	err := s.coll.FindOne(ctx, queryFilter(q), options.FindOne().SetSort(recordSort)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Record{}, false, nil
	}
	if err != nil {
		return domain.Record{}, false, fmt.Errorf("%w: find [%s]: %v", domain.ErrStoreUnavailable, q, err)
	}
	return rec, true, nil
}

// Upsert validates the record (filling the derived monthIndex) and replaces
// any document with the same identity tuple, inserting if none exists.
func (s *Store) Upsert(ctx context.Context, rec domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.ReplaceOne(ctx, identityFilter(rec), rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// CheckReadiness pings the deployment; feeds the /readyz endpoint.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// queryFilter translates a RecordQuery into a Mongo filter. Zero-valued
// dimensions are omitted; day bounds become a range condition that, like any
// Mongo comparison, only matches documents that carry the field.
func queryFilter(q domain.RecordQuery) bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Subcategory != "" {
		filter["subcategory"] = q.Subcategory
	}
	if q.District != "" {
		filter["district"] = q.District
	}
	if q.Year != 0 {
		filter["year"] = q.Year
	}
	if q.Month != "" {
		filter["month"] = q.Month
	}
	if q.Submonth != "" {
		filter["submonth"] = q.Submonth
	}
	if q.WeekNumber != 0 {
		filter["weekNumber"] = q.WeekNumber
	}
	if q.SubweekNumber != 0 {
		filter["subweekNumber"] = q.SubweekNumber
	}
	if q.DayMax != 0 || q.DayMin != 0 {
		day := bson.M{}
		if q.DayMax != 0 {
			day["$lte"] = q.DayMax
		}
		if q.DayMin != 0 {
			day["$gte"] = q.DayMin
		}
		filter["day"] = day
	}
	return filter
}

// identityFilter matches exactly one logical record. Optional key fields
// that are unset must be absent from the stored document too (they are
// written with omitempty), hence the $exists guards.
func identityFilter(rec domain.Record) bson.M {
	filter := bson.M{
		"category":    rec.Category,
		"subcategory": rec.Subcategory,
		"year":        rec.Year,
	}
	setOrAbsent(filter, "district", rec.District != "", rec.District)
	setOrAbsent(filter, "month", rec.Month != "", rec.Month)
	setOrAbsent(filter, "submonth", rec.Submonth != "", rec.Submonth)
	setOrAbsent(filter, "day", rec.Day != 0, rec.Day)
	setOrAbsent(filter, "weekNumber", rec.WeekNumber != 0, rec.WeekNumber)
	setOrAbsent(filter, "subweekNumber", rec.SubweekNumber != 0, rec.SubweekNumber)
	return filter
}

func setOrAbsent(filter bson.M, key string, set bool, value any) {
	if set {
		filter[key] = value
		return
	}
	filter[key] = bson.M{"$exists": false}
}
