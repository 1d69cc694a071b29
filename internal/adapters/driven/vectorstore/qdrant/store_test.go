package qdrant

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

func TestBuildFilter_Empty(t *testing.T) {
	assert.Nil(t, buildFilter(driven.SearchQuery{Limit: 5}))
}

func TestBuildFilter_AllConditions(t *testing.T) {
	filter := buildFilter(driven.SearchQuery{
		StockID:  "2330",
		DataType: domain.DataTypeTechnical,
		Date:     "2026-08-28",
	})

	require.NotNil(t, filter)
	require.Len(t, filter.Must, 3)

	keys := make([]string, 0, 3)
	for _, cond := range filter.Must {
		field := cond.GetField()
		require.NotNil(t, field)
		keys = append(keys, field.Key)
	}
	assert.ElementsMatch(t, []string{fieldStockID, fieldDataType, fieldDate}, keys)
}

func TestBuildFilter_PartialConditions(t *testing.T) {
	filter := buildFilter(driven.SearchQuery{StockID: "2330"})

	require.NotNil(t, filter)
	require.Len(t, filter.Must, 1)
	field := filter.Must[0].GetField()
	assert.Equal(t, fieldStockID, field.Key)
	assert.Equal(t, "2330", field.GetMatch().GetKeyword())
}

func TestMetadataFields_Technical(t *testing.T) {
	fields := metadataFields(domain.TechnicalSnapshot{
		Date:   "2026-08-28",
		Close:  1085,
		Volume: 32541,
		RSI:    58.42,
	})

	require.NotNil(t, fields)
	assert.Equal(t, "2026-08-28", fields["date"].GetStringValue())
	assert.Equal(t, 1085.0, fields["close"].GetDoubleValue())
	assert.Equal(t, int64(32541), fields["volume"].GetIntegerValue())
	assert.Equal(t, 58.42, fields["rsi"].GetDoubleValue())
}

func TestMetadataFields_Fundamental(t *testing.T) {
	fields := metadataFields(domain.FundamentalReport{
		Date:    "2026-06-30",
		Revenue: 933790000000,
		EPS:     15.36,
	})

	require.NotNil(t, fields)
	assert.Equal(t, "2026-06-30", fields["date"].GetStringValue())
	assert.Equal(t, 933790000000.0, fields["revenue"].GetDoubleValue())
	assert.Equal(t, 15.36, fields["eps"].GetDoubleValue())
}

func TestScoredPointResult(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Id: &qdrant.PointId{
			PointIdOptions: &qdrant.PointId_Uuid{Uuid: "abc-123"},
		},
		Score: 0.91,
		Payload: map[string]*qdrant.Value{
			fieldText:      stringValue("股票代碼：2330"),
			fieldStockID:   stringValue("2330"),
			fieldStockName: stringValue("台積電"),
			fieldDate:      stringValue("2026-08-28"),
			fieldDataType:  stringValue("technical"),
			fieldMetadata: structValue(map[string]*qdrant.Value{
				"close":  doubleValue(1085),
				"volume": integerValue(32541),
			}),
		},
	}

	result := scoredPointResult(point)

	assert.Equal(t, "abc-123", result.ID)
	assert.InDelta(t, 0.91, result.Score, 1e-6)
	assert.Equal(t, "股票代碼：2330", result.Text)
	assert.Equal(t, "2330", result.StockID)
	assert.Equal(t, "台積電", result.StockName)
	assert.Equal(t, domain.DataTypeTechnical, result.DataType)
	assert.Equal(t, 1085.0, result.Metadata["close"])
	assert.Equal(t, int64(32541), result.Metadata["volume"])
}

func TestScoredPointResult_NoMetadata(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Id: &qdrant.PointId{
			PointIdOptions: &qdrant.PointId_Uuid{Uuid: "abc"},
		},
		Payload: map[string]*qdrant.Value{
			fieldText: stringValue("t"),
		},
	}

	result := scoredPointResult(point)

	assert.Nil(t, result.Metadata)
}
