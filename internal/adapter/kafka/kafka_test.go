package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agromet/advisory-report-service/internal/domain"
)

func TestMapMessageToRecord(t *testing.T) {
	msg := kafkago.Message{
		Key: []byte("rainfall-seasonal-2024-10"),
		Value: []byte(`{
			"department": "DoM",
			"category": "Rainfall",
			"subcategory": "Seasonal",
			"month": "October",
			"year": 2024,
			"content": {"text": "Rainfall is expected to be above normal."}
		}`),
	}

	rec, err := mapMessageToRecord(msg)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryRainfall, rec.Category)
	assert.Equal(t, domain.SubSeasonal, rec.Subcategory)
	assert.Equal(t, "October", rec.Month)
	assert.Equal(t, 9, rec.MonthIndex, "derived month index should be filled")
	assert.Equal(t, "Rainfall is expected to be above normal.", rec.Content.Text)
}

func TestMapMessageToRecord_NormalizesLegacySpelling(t *testing.T) {
	msg := kafkago.Message{
		Value: []byte(`{
			"category": "Rainfall",
			"subcategory": "Recieved",
			"district": "Puttalam",
			"month": "September",
			"year": 2024,
			"content": {"text": "Rainfall received was higher than average."}
		}`),
	}

	rec, err := mapMessageToRecord(msg)
	require.NoError(t, err)
	assert.Equal(t, domain.SubReceived, rec.Subcategory)
}

func TestMapMessageToRecord_InvalidJSON(t *testing.T) {
	_, err := mapMessageToRecord(kafkago.Message{Value: []byte("not-json{{{")})
	assert.Error(t, err)
}

func TestMapMessageToRecord_BadMonth(t *testing.T) {
	msg := kafkago.Message{
		Value: []byte(`{"category": "Rainfall", "subcategory": "Seasonal", "month": "Oktober", "year": 2024}`),
	}
	_, err := mapMessageToRecord(msg)
	require.ErrorIs(t, err, domain.ErrInvalidMonthName)
}

func TestMapMessageToRecord_BadTaxonomy(t *testing.T) {
	msg := kafkago.Message{
		Value: []byte(`{"category": "Reservoir", "subcategory": "Weekly", "year": 2024, "month": "October"}`),
	}
	_, err := mapMessageToRecord(msg)
	assert.Error(t, err)
}
