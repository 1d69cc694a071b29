package domain

// Candle is one day of OHLCV price data as returned by a market-data
// provider. Dates are ISO strings (YYYY-MM-DD) so they can be compared
// and sorted lexically.
type Candle struct {
	Date   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
