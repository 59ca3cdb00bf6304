package mongostore

import (
	"testing"

	"github.com/agromet/advisory-report-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestQueryFilter_OmitsUnsetDimensions(t *testing.T) {
	filter := queryFilter(domain.RecordQuery{
		Category:    domain.CategoryRainfall,
		Subcategory: domain.SubSeasonal,
		Year:        2024,
		Month:       "October",
	})

	assert.Equal(t, bson.M{
		"category":    domain.CategoryRainfall,
		"subcategory": domain.SubSeasonal,
		"year":        2024,
		"month":       "October",
	}, filter)
}

func TestQueryFilter_DayBounds(t *testing.T) {
	filter := queryFilter(domain.RecordQuery{
		Category:    domain.CategoryReservoir,
		Subcategory: domain.SubMajor,
		District:    "Puttalam",
		Year:        2024,
		Month:       "October",
		DayMax:      9,
	})
	assert.Equal(t, bson.M{"$lte": 9}, filter["day"])

	filter = queryFilter(domain.RecordQuery{
		Category:    domain.CategoryReservoir,
		Subcategory: domain.SubMajor,
		District:    "Puttalam",
		Year:        2023,
		Month:       "October",
		DayMin:      9,
	})
	assert.Equal(t, bson.M{"$gte": 9}, filter["day"])
}

func TestIdentityFilter_GuardsUnsetFields(t *testing.T) {
	filter := identityFilter(domain.Record{
		Category:    domain.CategoryRainfall,
		Subcategory: domain.SubSeasonal,
		Year:        2024,
		Month:       "October",
	})

	assert.Equal(t, "October", filter["month"])
	assert.Equal(t, bson.M{"$exists": false}, filter["district"])
	assert.Equal(t, bson.M{"$exists": false}, filter["day"])
	assert.Equal(t, bson.M{"$exists": false}, filter["weekNumber"])
}

func TestIdentityFilter_WeeklyKey(t *testing.T) {
	filter := identityFilter(domain.Record{
		Category:      domain.CategoryRainfall,
		Subcategory:   domain.SubWeekly,
		District:      "Puttalam",
		Year:          2024,
		WeekNumber:    41,
		SubweekNumber: 2,
	})

	assert.Equal(t, "Puttalam", filter["district"])
	assert.Equal(t, 41, filter["weekNumber"])
	assert.Equal(t, 2, filter["subweekNumber"])
	assert.Equal(t, bson.M{"$exists": false}, filter["month"])
}
