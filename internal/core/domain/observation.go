// Package domain holds the core types for stock observations: price
// candles, indicator snapshots, fundamental reports and the fingerprint
// scheme that keys them in the vector store.
package domain

import (
	"crypto/sha256"

	"github.com/google/uuid"
)

// DataType distinguishes the two kinds of observation stored per stock.
type DataType string

// Available data types.
const (
	// DataTypeTechnical is a daily price/indicator snapshot.
	DataTypeTechnical DataType = "technical"

	// DataTypeFundamental is a quarterly financial statement snapshot.
	DataTypeFundamental DataType = "fundamental"
)

// IsValid returns true if the data type is recognised.
func (t DataType) IsValid() bool {
	switch t {
	case DataTypeTechnical, DataTypeFundamental:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DataType) String() string {
	return string(t)
}

// Metadata is the closed set of typed metric records attached to an
// observation. Exactly one concrete type exists per DataType; conversion
// to the store's generic payload format happens in the store adapter.
type Metadata interface {
	isMetadata()
}

// Observation is one ingestible unit of knowledge: a formatted document
// for one stock on one date, plus its embedding and typed metrics.
// The (StockID, Date, DataType) triple uniquely identifies its storage
// slot; a later write to the same triple replaces the earlier one.
type Observation struct {
	// StockID is the exchange code (e.g. "2330").
	StockID string

	// StockName is the display name (e.g. "台積電").
	StockName string

	// Date is the observation date in ISO form (YYYY-MM-DD).
	Date string

	// DataType is technical or fundamental.
	DataType DataType

	// Text is the formatted natural-language document.
	Text string

	// Metadata carries the typed metric record for this observation.
	Metadata Metadata

	// Embedding is the document vector, sized per the embedding model.
	Embedding []float32
}

// Fingerprint derives the deterministic storage key for an identity
// triple: the first 16 bytes of SHA-256("stockID_date_dataType")
// rendered as a UUID. Identical triples always produce the identical
// key, so writes keyed by it are idempotent.
func Fingerprint(stockID, date string, dataType DataType) string {
	sum := sha256.Sum256([]byte(stockID + "_" + date + "_" + string(dataType)))

	var id uuid.UUID
	copy(id[:], sum[:16])
	return id.String()
}

// Key returns the observation's storage fingerprint.
func (o Observation) Key() string {
	return Fingerprint(o.StockID, o.Date, o.DataType)
}
