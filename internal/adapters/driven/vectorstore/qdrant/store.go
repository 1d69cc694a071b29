// Package qdrant provides the vector store adapter backed by a Qdrant
// server over gRPC.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Payload field names. These are also the filterable keys.
const (
	fieldText      = "text"
	fieldStockID   = "stock_id"
	fieldStockName = "stock_name"
	fieldDate      = "date"
	fieldDataType  = "data_type"
	fieldMetadata  = "metadata"
)

// Config holds the Qdrant connection settings.
type Config struct {
	// Host is the Qdrant server host (default: localhost).
	Host string

	// Port is the gRPC port (default: 6334).
	Port int

	// Collection is the collection name (default: stock_analysis).
	Collection string
}

// Store stores stock observations as Qdrant points keyed by their
// fingerprint UUID. Upserts are insert-or-replace at the store level,
// so a repeated write to the same fingerprint never duplicates.
type Store struct {
	client     *qdrant.Client
	collection string
}

// NewStore connects to Qdrant. The connection is lazy; the first RPC
// surfaces connectivity errors.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.Collection == "" {
		cfg.Collection = "stock_analysis"
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: false,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	return &Store{client: client, collection: cfg.Collection}, nil
}

// EnsureCollection creates the cosine-distance collection and keyword
// field indexes if the collection does not already exist.
func (s *Store) EnsureCollection(ctx context.Context, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{Config: &qdrant.VectorsConfig_Params{
			Params: &qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	// Keyword indexes back the equality filters used by retrieval and
	// the existence probe.
	for _, field := range []string{fieldStockID, fieldDate, fieldDataType} {
		fieldType := qdrant.FieldType_FieldTypeKeyword
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			FieldName:      field,
			FieldType:      &fieldType,
		})
		if err != nil {
			return fmt.Errorf("create field index %s: %w", field, err)
		}
	}

	return nil
}

// Upsert writes the observation at its fingerprint key and returns that
// key. The write is full-replace; callers decide whether to skip slots
// that already exist.
func (s *Store) Upsert(ctx context.Context, obs domain.Observation) (string, error) {
	pointID := obs.Key()

	payload := map[string]*qdrant.Value{
		fieldText:      stringValue(obs.Text),
		fieldStockID:   stringValue(obs.StockID),
		fieldStockName: stringValue(obs.StockName),
		fieldDate:      stringValue(obs.Date),
		fieldDataType:  stringValue(string(obs.DataType)),
	}
	if obs.Metadata != nil {
		payload[fieldMetadata] = structValue(metadataFields(obs.Metadata))
	}

	waitUpsert := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &waitUpsert,
		Points: []*qdrant.PointStruct{
			{
				Id: &qdrant.PointId{
					PointIdOptions: &qdrant.PointId_Uuid{Uuid: pointID},
				},
				Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: obs.Embedding},
				}},
				Payload: payload,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("upsert point: %w", err)
	}

	return pointID, nil
}

// Search runs a filtered nearest-neighbour query ordered by descending
// similarity.
func (s *Store) Search(ctx context.Context, q driven.SearchQuery) ([]domain.SearchResult, error) {
	limit := uint64(q.Limit)

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query: &qdrant.Query{
			Variant: &qdrant.Query_Nearest{
				Nearest: &qdrant.VectorInput{
					Variant: &qdrant.VectorInput_Dense{
						Dense: &qdrant.DenseVector{Data: q.Vector},
					},
				},
			},
		},
		Limit:  &limit,
		Filter: buildFilter(q),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, scoredPointResult(point))
	}
	return results, nil
}

// Info reports the collection's point count and status.
func (s *Store) Info(ctx context.Context) (driven.CollectionInfo, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return driven.CollectionInfo{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	out := driven.CollectionInfo{
		Name:   s.collection,
		Status: info.GetStatus().String(),
	}
	if info.PointsCount != nil {
		out.PointsCount = *info.PointsCount
	}
	return out, nil
}

// DropCollection deletes the whole collection. Administrative use only.
func (s *Store) DropCollection(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// buildFilter assembles the conjunctive equality filter. Nil when no
// filter fields are set.
func buildFilter(q driven.SearchQuery) *qdrant.Filter {
	var must []*qdrant.Condition
	if q.StockID != "" {
		must = append(must, matchKeyword(fieldStockID, q.StockID))
	}
	if q.DataType != "" {
		must = append(must, matchKeyword(fieldDataType, string(q.DataType)))
	}
	if q.Date != "" {
		must = append(must, matchKeyword(fieldDate, q.Date))
	}
	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

func matchKeyword(field, value string) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key: field,
				Match: &qdrant.Match{
					MatchValue: &qdrant.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

// scoredPointResult projects a Qdrant hit onto the domain result.
func scoredPointResult(point *qdrant.ScoredPoint) domain.SearchResult {
	payload := point.GetPayload()

	result := domain.SearchResult{
		ID:        point.GetId().GetUuid(),
		Score:     float64(point.GetScore()),
		Text:      payload[fieldText].GetStringValue(),
		StockID:   payload[fieldStockID].GetStringValue(),
		StockName: payload[fieldStockName].GetStringValue(),
		Date:      payload[fieldDate].GetStringValue(),
		DataType:  domain.DataType(payload[fieldDataType].GetStringValue()),
	}

	if meta := payload[fieldMetadata].GetStructValue(); meta != nil {
		result.Metadata = make(map[string]any, len(meta.GetFields()))
		for key, value := range meta.GetFields() {
			result.Metadata[key] = genericValue(value)
		}
	}

	return result
}

func genericValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

func doubleValue(f float64) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: f}}
}

func integerValue(i int64) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: i}}
}

func structValue(fields map[string]*qdrant.Value) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StructValue{
		StructValue: &qdrant.Struct{Fields: fields},
	}}
}

// metadataFields flattens the typed metric record into the store's
// generic payload format. This is the only place the tagged union is
// serialized.
func metadataFields(meta domain.Metadata) map[string]*qdrant.Value {
	switch m := meta.(type) {
	case domain.TechnicalSnapshot:
		return map[string]*qdrant.Value{
			"date":         stringValue(m.Date),
			"close":        doubleValue(m.Close),
			"volume":       integerValue(m.Volume),
			"price_change": doubleValue(m.PriceChange),
			"ma5":          doubleValue(m.MA5),
			"ma10":         doubleValue(m.MA10),
			"ma20":         doubleValue(m.MA20),
			"ma60":         doubleValue(m.MA60),
			"ema12":        doubleValue(m.EMA12),
			"ema26":        doubleValue(m.EMA26),
			"rsi":          doubleValue(m.RSI),
			"macd":         doubleValue(m.MACD),
			"macd_signal":  doubleValue(m.MACDSignal),
			"macd_hist":    doubleValue(m.MACDHist),
			"k":            doubleValue(m.K),
			"d":            doubleValue(m.D),
			"bb_high":      doubleValue(m.BBUpper),
			"bb_mid":       doubleValue(m.BBMiddle),
			"bb_low":       doubleValue(m.BBLower),
			"atr":          doubleValue(m.ATR),
			"obv":          doubleValue(m.OBV),
		}
	case domain.FundamentalReport:
		return map[string]*qdrant.Value{
			"date":             stringValue(m.Date),
			"revenue":          doubleValue(m.Revenue),
			"operating_income": doubleValue(m.OperatingIncome),
			"net_income":       doubleValue(m.NetIncome),
			"eps":              doubleValue(m.EPS),
		}
	default:
		return nil
	}
}
